package tests

import (
	"os"
	"testing"

	"github.com/labstack/echo/v4/middleware"

	. "github.com/trezcool/studymate/apps/api/echo"
	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
	"github.com/trezcool/studymate/fs"
	"github.com/trezcool/studymate/services/email"
	"github.com/trezcool/studymate/storage/database/inmem"
	"github.com/trezcool/studymate/tests"
)

var (
	conf       *core.Config
	db         *inmemdb.DB
	app        *Server
	logger     *testutil.MemLogger
	mailSvc    *emailsvc.ConsoleService
	profileSvc *profile.Service
	prflRepo   profile.Repository

	errMissingToken = httpErr{Error: middleware.ErrJWTMissing.Message.(string)}
)

func TestMain(m *testing.M) {
	conf = testutil.Config()
	logger = &testutil.MemLogger{}

	// set up DB & repos
	db = inmemdb.Open()
	prflRepo = inmemdb.NewProfileRepository(db)

	// set up services
	core.ParseEmailTemplates(appfs.FS, conf, logger)
	mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	profileSvc = profile.NewService(prflRepo, tier.DefaultScheme(), mailSvc, logger)
	validate, translator := core.NewValidator()

	// set up server
	app = NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		ProfileSvc:     profileSvc,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	// run tests
	os.Exit(m.Run())
}

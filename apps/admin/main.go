package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
	"github.com/trezcool/studymate/fs"
	"github.com/trezcool/studymate/services/email"
	"github.com/trezcool/studymate/services/logger"
	"github.com/trezcool/studymate/storage/database"
	"github.com/trezcool/studymate/storage/database/inmem"
	"github.com/trezcool/studymate/storage/database/sqlx"
)

var exitCode int

func main() {
	defer func() { os.Exit(exitCode) }() // runs last, after the other deferred calls

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	scheme := tier.DefaultScheme()
	if conf.Tiers.File != "" {
		var err error
		if scheme, err = tier.LoadFile(conf.Tiers.File); err != nil {
			logger.Fatal(fmt.Sprintf("loading tiers: %v", err), err)
		}
	}

	// set up DB
	var (
		db   *sqlx.DB
		repo profile.Repository
	)
	switch conf.Database.Engine {
	case "inmem":
		repo = inmemdb.NewProfileRepository(inmemdb.Open())
	default:
		var err error
		if db, err = database.Open(context.Background(), conf); err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer db.Close()
		repo = sqlxrepos.NewProfileRepository(db)
	}

	// emails are sent before the process exits
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	} else {
		sgSvc := emailsvc.NewSendgridService(conf, logger)
		defer sgSvc.Wait()
		mailSvc = sgSvc
	}
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	// start CLI
	cli := commandLine{
		conf:       conf,
		db:         db,
		profileSvc: profile.NewService(repo, scheme, mailSvc, logger),
		out:        os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		exitCode = 1
	}
}

package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studymate/core/profile"
	testutil "github.com/trezcool/studymate/tests"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), testutil.Config())
	logger.Enable(false)

	p := profile.Profile{ID: "42", Username: "alice"}
	logger.Info("awarded 20 pass points", p, map[string]interface{}{"reason": "good_review"})
	logger.Error("sending email", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "awarded 20 pass points\n")
	assert.Contains(t, out, "map[reason:good_review]")
	assert.Contains(t, out, "sending email\nboom")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewRollbarLogger(log.New(&bytes.Buffer{}, "", 0), testutil.Config())
	logger.Enable(false)

	alice := profile.Profile{ID: "1", Username: "alice"}
	bob := profile.Profile{ID: "2", Username: "bob"}
	err := errors.New("boom")

	got := logger.prepare("msg", []interface{}{alice, err, bob})
	assert.Equal(t, []interface{}{"msg", err}, got, "persons are not forwarded as extras")
}

package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
)

// WalletAddress returns a valid, lower-case wallet address derived from n.
func WalletAddress(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

// CreateProfile stores a profile directly through repo, bypassing validation.
func CreateProfile(
	t *testing.T,
	repo profile.Repository,
	username, email string,
	wallet int,
	passPoints int,
	createdAt ...time.Time,
) profile.Profile {
	t.Helper()

	tstamp := core.Now()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	p, err := repo.CreateProfile(context.Background(), profile.Profile{
		WalletAddress: WalletAddress(wallet),
		Username:      username,
		Email:         email,
		CreatedAt:     tstamp,
		UpdatedAt:     tstamp,
	})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
	if passPoints > 0 {
		p, _, err = repo.AddPassPoints(context.Background(), profile.Award{
			ProfileID: p.ID,
			Reason:    tier.ReasonMilestone,
			Amount:    passPoints,
			CreatedAt: tstamp,
		})
		if err != nil {
			t.Fatalf("CreateProfile() failed to add pass points: %v", err)
		}
	}
	return p
}

// LoggedMessage is an entry of a MemLogger.
type LoggedMessage struct {
	Level string
	Msg   string
	Args  []interface{}
}

// MemLogger is a core.Logger that keeps messages in memory.
type MemLogger struct {
	mu       sync.Mutex
	Messages []LoggedMessage
}

var _ core.Logger = (*MemLogger)(nil)

func (l *MemLogger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, LoggedMessage{Level: level, Msg: msg, Args: args})
}

func (l *MemLogger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *MemLogger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *MemLogger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *MemLogger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *MemLogger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Contains reports whether a message at level contains s.
func (l *MemLogger) Contains(level, s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.Messages {
		if m.Level == level && strings.Contains(m.Msg, s) {
			return true
		}
	}
	return false
}

// Config returns a config suited for tests: debug off, test mode on, in-memory database.
func Config() *core.Config {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Database.Engine = "inmem"
	conf.FrontendBaseURL = "http://studymate.test"
	return conf
}

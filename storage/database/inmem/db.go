// Package inmemdb is an in-memory storage, used by tests and by the API when Database.Engine is "inmem".
package inmemdb

import (
	"sync"

	"github.com/trezcool/studymate/core/profile"
)

type (
	DB struct {
		profile *profileTable
	}

	profileTable struct {
		sync.RWMutex
		table  map[string]*profile.Profile
		awards map[string][]profile.Award // {profileID: awards}, oldest first
	}
)

func Open() *DB {
	return &DB{
		profile: &profileTable{
			table:  make(map[string]*profile.Profile),
			awards: make(map[string][]profile.Award),
		},
	}
}

// Reset drops all data.
func (db *DB) Reset() {
	db.profile.Lock()
	defer db.profile.Unlock()
	db.profile.table = make(map[string]*profile.Profile)
	db.profile.awards = make(map[string][]profile.Award)
}

package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
)

type profileRepository struct {
	db *profileTable
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db.profile}
}

func (repo *profileRepository) query() []profile.Profile {
	profiles := make([]profile.Profile, 0, len(repo.db.table))
	for _, p := range repo.db.table {
		profiles = append(profiles, *p)
	}
	return profiles
}

func (repo *profileRepository) CheckUniqueness(_ context.Context, walletAddress, username string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.conflict(walletAddress, username)
}

// conflict must be called with the lock held.
func (repo *profileRepository) conflict(walletAddress, username string) error {
	for _, p := range repo.db.table {
		if p.WalletAddress == walletAddress {
			return profile.ErrWalletExists
		}
		if p.Username == username {
			return profile.ErrUsernameExists
		}
	}
	return nil
}

func (repo *profileRepository) CreateProfile(_ context.Context, p profile.Profile) (profile.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if err := repo.conflict(p.WalletAddress, p.Username); err != nil {
		return profile.Profile{}, err
	}
	p.ID = uuid.New().String()
	repo.db.table[p.ID] = &p
	return p, nil
}

func (repo *profileRepository) GetProfile(_ context.Context, filter profile.GetFilter) (profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	switch {
	case filter.ID != "":
		if p, ok := repo.db.table[filter.ID]; ok {
			return *p, nil
		}
	case filter.WalletAddress != "":
		for _, p := range repo.db.table {
			if p.WalletAddress == filter.WalletAddress {
				return *p, nil
			}
		}
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) QueryProfiles(
	_ context.Context,
	filter profile.QueryFilter,
	orderings ...core.DBOrdering,
) ([]profile.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	profiles := make([]profile.Profile, 0)
	for _, p := range repo.query() {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(p.Username), filter.Search) &&
			!strings.Contains(strings.ToLower(p.WalletAddress), filter.Search) {
			continue
		}
		if p.PassPoints < filter.MinPoints {
			continue
		}
		if filter.MaxPoints > 0 && p.PassPoints >= filter.MaxPoints {
			continue
		}
		profiles = append(profiles, p)
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		for _, ord := range orderings {
			if c := compare(profiles[i], profiles[j], ord.Field); c != 0 {
				if ord.Ascending {
					return c < 0
				}
				return c > 0
			}
		}
		return profiles[i].ID < profiles[j].ID // stable output for equal keys
	})

	if filter.Limit > 0 && len(profiles) > filter.Limit {
		profiles = profiles[:filter.Limit]
	}
	return profiles, nil
}

func (repo *profileRepository) AddPassPoints(_ context.Context, award profile.Award) (profile.Profile, profile.Award, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[award.ProfileID]
	if !ok {
		return profile.Profile{}, profile.Award{}, profile.ErrNotFound
	}
	p.PassPoints += award.Amount
	p.UpdatedAt = award.CreatedAt

	award.ID = uuid.New().String()
	award.BalanceAfter = p.PassPoints
	repo.db.awards[p.ID] = append(repo.db.awards[p.ID], award)
	return *p, award, nil
}

func (repo *profileRepository) ResetPassPoints(_ context.Context, id string, at time.Time) (profile.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.table[id]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	p.PassPoints = 0
	p.UpdatedAt = at
	return *p, nil
}

func (repo *profileRepository) QueryAwards(_ context.Context, profileID string) ([]profile.Award, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	stored := repo.db.awards[profileID]
	awards := make([]profile.Award, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		awards = append(awards, stored[i])
	}
	return awards, nil
}

func compare(a, b profile.Profile, field string) int {
	switch field {
	case profile.OrderPassPoints:
		return a.PassPoints - b.PassPoints
	case profile.OrderUsername:
		return strings.Compare(a.Username, b.Username)
	case profile.OrderCreatedAt:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
	}
	return 0
}

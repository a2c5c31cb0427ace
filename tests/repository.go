package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studymate/core"
	"github.com/trezcool/studymate/core/profile"
	"github.com/trezcool/studymate/core/tier"
)

// RunRepositoryContract checks that a profile.Repository behaves like the others.
// newRepo must return an empty repository.
func RunRepositoryContract(t *testing.T, newRepo func(t *testing.T) profile.Repository) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		p := CreateProfile(t, repo, "alice", "alice@test.cd", 1, 0)
		require.NotEmpty(t, p.ID)

		got, err := repo.GetProfile(ctx, profile.GetFilter{ID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, p.WalletAddress, got.WalletAddress)
		assert.Equal(t, "alice@test.cd", got.Email)
		assert.Zero(t, got.PassPoints)

		got, err = repo.GetProfile(ctx, profile.GetFilter{WalletAddress: WalletAddress(1)})
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		_, err = repo.GetProfile(ctx, profile.GetFilter{ID: "9b0f2d1e-4d5c-4b8e-9f1a-0c6e2d7a8b9c"})
		assert.Equal(t, profile.ErrNotFound, err)
		_, err = repo.GetProfile(ctx, profile.GetFilter{ID: "not-a-uuid"})
		assert.Equal(t, profile.ErrNotFound, err)
		_, err = repo.GetProfile(ctx, profile.GetFilter{})
		assert.Equal(t, profile.ErrNotFound, err)
	})

	t.Run("uniqueness", func(t *testing.T) {
		repo := newRepo(t)
		CreateProfile(t, repo, "bob", "", 2, 0)

		assert.Equal(t, profile.ErrWalletExists, repo.CheckUniqueness(ctx, WalletAddress(2), "other"))
		assert.Equal(t, profile.ErrUsernameExists, repo.CheckUniqueness(ctx, WalletAddress(3), "bob"))
		assert.NoError(t, repo.CheckUniqueness(ctx, WalletAddress(3), "other"))
	})

	t.Run("create conflicts", func(t *testing.T) {
		repo := newRepo(t)
		CreateProfile(t, repo, "bob", "", 2, 0)
		now := core.Now()

		_, err := repo.CreateProfile(ctx, profile.Profile{
			WalletAddress: WalletAddress(2), Username: "other", CreatedAt: now, UpdatedAt: now,
		})
		assert.Equal(t, profile.ErrWalletExists, err)
		_, err = repo.CreateProfile(ctx, profile.Profile{
			WalletAddress: WalletAddress(3), Username: "bob", CreatedAt: now, UpdatedAt: now,
		})
		assert.Equal(t, profile.ErrUsernameExists, err)
	})

	t.Run("concurrent creates", func(t *testing.T) {
		repo := newRepo(t)
		now := core.Now()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.CreateProfile(ctx, profile.Profile{
					WalletAddress: WalletAddress(11), Username: "zoe", CreatedAt: now, UpdatedAt: now,
				})
				if err == nil {
					mu.Lock()
					created++
					mu.Unlock()
					return
				}
				assert.Contains(t, []error{profile.ErrWalletExists, profile.ErrUsernameExists}, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, created)

		got, err := repo.QueryProfiles(ctx, profile.QueryFilter{Search: "zoe"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("add pass points", func(t *testing.T) {
		repo := newRepo(t)
		p := CreateProfile(t, repo, "carol", "", 4, 0)
		at := core.Now().Add(time.Minute)

		got, award, err := repo.AddPassPoints(ctx, profile.Award{
			ProfileID: p.ID, Reason: tier.ReasonSessionCompleted, Amount: 30, CreatedAt: at,
		})
		require.NoError(t, err)
		assert.Equal(t, 30, got.PassPoints)
		assert.NotEmpty(t, award.ID)
		assert.Equal(t, 30, award.BalanceAfter)
		assert.True(t, got.UpdatedAt.Equal(at), "updated_at = %v, want %v", got.UpdatedAt, at)

		got, award, err = repo.AddPassPoints(ctx, profile.Award{
			ProfileID: p.ID, Reason: tier.ReasonGoodReview, Amount: 20, CreatedAt: at.Add(time.Second),
		})
		require.NoError(t, err)
		assert.Equal(t, 50, got.PassPoints)
		assert.Equal(t, 50, award.BalanceAfter)

		awards, err := repo.QueryAwards(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, awards, 2)
		assert.Equal(t, tier.ReasonGoodReview, awards[0].Reason, "newest first")
		assert.Equal(t, tier.ReasonSessionCompleted, awards[1].Reason)

		_, _, err = repo.AddPassPoints(ctx, profile.Award{
			ProfileID: "9b0f2d1e-4d5c-4b8e-9f1a-0c6e2d7a8b9c", Reason: tier.ReasonMilestone, Amount: 1, CreatedAt: at,
		})
		assert.Equal(t, profile.ErrNotFound, err)
	})

	t.Run("concurrent awards", func(t *testing.T) {
		repo := newRepo(t)
		p := CreateProfile(t, repo, "dave", "", 5, 0)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := repo.AddPassPoints(ctx, profile.Award{
					ProfileID: p.ID, Reason: tier.ReasonGoodReview, Amount: 20, CreatedAt: core.Now(),
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		got, err := repo.GetProfile(ctx, profile.GetFilter{ID: p.ID})
		require.NoError(t, err)
		assert.Equal(t, 400, got.PassPoints)

		awards, err := repo.QueryAwards(ctx, p.ID)
		require.NoError(t, err)
		assert.Len(t, awards, 20)
	})

	t.Run("reset pass points", func(t *testing.T) {
		repo := newRepo(t)
		p := CreateProfile(t, repo, "erin", "", 6, 700)

		got, err := repo.ResetPassPoints(ctx, p.ID, core.Now())
		require.NoError(t, err)
		assert.Zero(t, got.PassPoints)

		_, err = repo.ResetPassPoints(ctx, "9b0f2d1e-4d5c-4b8e-9f1a-0c6e2d7a8b9c", core.Now())
		assert.Equal(t, profile.ErrNotFound, err)
	})

	t.Run("query profiles", func(t *testing.T) {
		repo := newRepo(t)
		now := core.Now()
		frank := CreateProfile(t, repo, "frank", "", 7, 50, now)
		grace := CreateProfile(t, repo, "grace", "", 8, 600, now.Add(time.Second))
		heidi := CreateProfile(t, repo, "heidi", "", 9, 600, now.Add(2*time.Second))
		ivan := CreateProfile(t, repo, "ivan", "", 10, 12000, now.Add(3*time.Second))

		ids := func(profiles []profile.Profile) []string {
			res := make([]string, 0, len(profiles))
			for _, p := range profiles {
				res = append(res, p.ID)
			}
			return res
		}

		tests := []struct {
			name      string
			filter    profile.QueryFilter
			orderings []core.DBOrdering
			want      []string
		}{
			{
				name: "leaderboard", orderings: profile.DefaultOrdering,
				want: []string{ivan.ID, grace.ID, heidi.ID, frank.ID},
			},
			{
				name: "by username", orderings: []core.DBOrdering{{Field: profile.OrderUsername, Ascending: true}},
				want: []string{frank.ID, grace.ID, heidi.ID, ivan.ID},
			},
			{
				name: "points range", filter: profile.QueryFilter{MinPoints: 500, MaxPoints: 2000},
				orderings: profile.DefaultOrdering, want: []string{grace.ID, heidi.ID},
			},
			{
				name: "search", filter: profile.QueryFilter{Search: "ra"},
				orderings: profile.DefaultOrdering, want: []string{grace.ID, frank.ID},
			},
			{
				name: "search wallet", filter: profile.QueryFilter{Search: WalletAddress(9)[30:]},
				orderings: profile.DefaultOrdering, want: []string{heidi.ID},
			},
			{
				name: "limit", filter: profile.QueryFilter{Limit: 2},
				orderings: profile.DefaultOrdering, want: []string{ivan.ID, grace.ID},
			},
			{name: "no match", filter: profile.QueryFilter{Search: "zz"}, want: []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := repo.QueryProfiles(ctx, tt.filter, tt.orderings...)
				require.NoError(t, err)
				assert.Equal(t, tt.want, ids(got))
			})
		}
	})
}

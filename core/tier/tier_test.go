package tier

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_UserTier(t *testing.T) {
	tb := DefaultTable()

	tests := []struct {
		name   string
		points int
		want   string
	}{
		{name: "zero", points: 0, want: "Beginner"},
		{name: "negative is clamped", points: -5, want: "Beginner"},
		{name: "very negative", points: -1 << 40, want: "Beginner"},
		{name: "last beginner point", points: 99, want: "Beginner"},
		{name: "explorer lower bound", points: 100, want: "Explorer"},
		{name: "explorer", points: 450, want: "Explorer"},
		{name: "scholar lower bound", points: 500, want: "Scholar"},
		{name: "last scholar point", points: 1999, want: "Scholar"},
		{name: "expert", points: 2000, want: "Expert"},
		{name: "master lower bound", points: 10000, want: "Master"},
		{name: "way up", points: 1 << 50, want: "Master"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tb.UserTier(tt.points).Name)
		})
	}
}

func TestTable_UserTier_containsBalance(t *testing.T) {
	tb := DefaultTable()
	for p := 0; p <= 12000; p++ {
		matches := 0
		for _, tr := range tb.Tiers() {
			if tr.Contains(p) {
				matches++
			}
		}
		require.Equalf(t, 1, matches, "%d points fall in %d tiers", p, matches)
		require.Truef(t, tb.UserTier(p).Contains(p), "UserTier(%d) = %v", p, tb.UserTier(p))
	}
	assert.Equal(t, tb.UserTier(0), tb.UserTier(-5))
}

func TestDefaultTable_contiguous(t *testing.T) {
	tiers := DefaultTable().Tiers()
	require.NotEmpty(t, tiers)
	assert.Equal(t, 0, tiers[0].MinPoints)
	for i := 0; i < len(tiers)-1; i++ {
		assert.Equalf(t, tiers[i].MaxPoints, tiers[i+1].MinPoints, "gap after %s", tiers[i].Name)
		assert.False(t, tiers[i].IsUnbounded())
	}
	assert.True(t, tiers[len(tiers)-1].IsUnbounded())

	_, err := NewTable(tiers...)
	assert.NoError(t, err)
}

func TestTable_PassPointsForNextTier(t *testing.T) {
	tb := DefaultTable()

	tests := []struct {
		name       string
		points     int
		wantTier   string // "" for none
		wantNeeded int
	}{
		{name: "from zero", points: 0, wantTier: "Explorer", wantNeeded: 100},
		{name: "negative counts as zero", points: -20, wantTier: "Explorer", wantNeeded: 100},
		{name: "one below explorer", points: 99, wantTier: "Explorer", wantNeeded: 1},
		{name: "explorer", points: 450, wantTier: "Scholar", wantNeeded: 50},
		{name: "one below scholar", points: 499, wantTier: "Scholar", wantNeeded: 1},
		{name: "one below master", points: 9999, wantTier: "Master", wantNeeded: 1},
		{name: "master", points: 10000},
		{name: "beyond master", points: 123456},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tb.PassPointsForNextTier(tt.points)
			if tt.wantTier == "" {
				assert.Nil(t, got.Tier)
			} else if assert.NotNil(t, got.Tier) {
				assert.Equal(t, tt.wantTier, got.Tier.Name)
			}
			assert.Equal(t, tt.wantNeeded, got.PointsNeeded)
		})
	}
}

func TestTable_PassPointsForNextTier_belowBoundaries(t *testing.T) {
	tb := DefaultTable()
	for _, tr := range tb.Tiers()[1:] {
		got := tb.PassPointsForNextTier(tr.MinPoints - 1)
		require.NotNil(t, got.Tier)
		assert.Equal(t, tr.Name, got.Tier.Name)
		assert.Equal(t, 1, got.PointsNeeded)
	}
}

func TestTable_Progress(t *testing.T) {
	tb := DefaultTable()

	tests := []struct {
		name   string
		points int
		want   float64
		wantOk bool
	}{
		{name: "start", points: 0, want: 0, wantOk: true},
		{name: "half beginner", points: 50, want: 50, wantOk: true},
		{name: "explorer quarter", points: 200, want: 25, wantOk: true},
		{name: "negative", points: -10, want: 0, wantOk: true},
		{name: "master", points: 20000, wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tb.Progress(tt.points)
			assert.Equal(t, tt.wantOk, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTable_Standing(t *testing.T) {
	tb := DefaultTable()

	st := tb.Standing(450)
	assert.Equal(t, 450, st.PassPoints)
	assert.Equal(t, "Explorer", st.Tier.Name)
	require.NotNil(t, st.Next.Tier)
	assert.Equal(t, "Scholar", st.Next.Tier.Name)
	assert.Equal(t, 50, st.Next.PointsNeeded)
	require.NotNil(t, st.Progress)
	assert.InDelta(t, 87.5, *st.Progress, 1e-9)

	st = tb.Standing(10000)
	assert.Equal(t, "Master", st.Tier.Name)
	assert.Nil(t, st.Next.Tier)
	assert.Zero(t, st.Next.PointsNeeded)
	assert.Nil(t, st.Progress)

	assert.Equal(t, 0, tb.Standing(-3).PassPoints)
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []Tier
		wantErr error
	}{
		{name: "empty", wantErr: ErrEmptyTable},
		{
			name:    "single unbounded tier",
			tiers:   []Tier{{Name: "Only", MaxPoints: Unbounded}},
			wantErr: nil,
		},
		{
			name:    "does not start at zero",
			tiers:   []Tier{{Name: "A", MinPoints: 10, MaxPoints: Unbounded}},
			wantErr: ErrTableStart,
		},
		{
			name:    "gap",
			tiers:   []Tier{{Name: "A", MaxPoints: 10}, {Name: "B", MinPoints: 11, MaxPoints: Unbounded}},
			wantErr: ErrTableGap,
		},
		{
			name:    "overlap",
			tiers:   []Tier{{Name: "A", MaxPoints: 10}, {Name: "B", MinPoints: 5, MaxPoints: Unbounded}},
			wantErr: ErrTableGap,
		},
		{
			name:    "empty range",
			tiers:   []Tier{{Name: "A", MaxPoints: 0}, {Name: "B", MinPoints: 0, MaxPoints: Unbounded}},
			wantErr: ErrEmptyRange,
		},
		{
			name:    "bounded last tier",
			tiers:   []Tier{{Name: "A", MaxPoints: 10}, {Name: "B", MinPoints: 10, MaxPoints: 20}},
			wantErr: ErrTableOpenEnded,
		},
		{
			name:    "no name",
			tiers:   []Tier{{MaxPoints: Unbounded}},
			wantErr: ErrNoName,
		},
		{
			name:    "duplicate name",
			tiers:   []Tier{{Name: "A", MaxPoints: 10}, {Name: "A", MinPoints: 10, MaxPoints: Unbounded}},
			wantErr: ErrDuplicateName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := NewTable(tt.tiers...)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tiers, tb.Tiers())
		})
	}
}

func TestNewTable_copiesInput(t *testing.T) {
	tiers := []Tier{{Name: "A", MaxPoints: 10}, {Name: "B", MinPoints: 10, MaxPoints: Unbounded}}
	tb, err := NewTable(tiers...)
	require.NoError(t, err)

	tiers[0].Name = "changed"
	assert.Equal(t, "A", tb.UserTier(0).Name)

	got := tb.Tiers()
	got[0].Name = "changed too"
	assert.Equal(t, "A", tb.UserTier(0).Name)
}

func TestTable_ByName(t *testing.T) {
	tb := DefaultTable()

	tr, ok := tb.ByName("Scholar")
	assert.True(t, ok)
	assert.Equal(t, Tier{Name: "Scholar", MinPoints: 500, MaxPoints: 2000}, tr)

	_, ok = tb.ByName("scholar")
	assert.False(t, ok)
}

func TestTier_JSON(t *testing.T) {
	data, err := json.Marshal([]Tier{{Name: "A", MaxPoints: 10}, {Name: "B", MinPoints: 10, MaxPoints: Unbounded}})
	require.NoError(t, err)
	assert.JSONEq(
		t,
		`[{"name":"A","min_points":0,"max_points":10},{"name":"B","min_points":10,"max_points":null}]`,
		string(data),
	)

	var tiers []Tier
	require.NoError(t, json.Unmarshal(data, &tiers))
	assert.True(t, tiers[1].IsUnbounded())
	assert.Equal(t, 10, tiers[0].MaxPoints)
}

// Package tier computes Pass Points tiers, progress and award amounts.
//
// Everything here is a pure function over a caller supplied balance and an
// immutable Table. Nothing is persisted and nothing is shared, so every
// function is safe for concurrent use.
package tier

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// Unbounded is the MaxPoints of the last tier of a Table.
const Unbounded = math.MaxInt

var (
	ErrEmptyTable     = errors.New("tier table is empty")
	ErrTableStart     = errors.New("first tier must start at 0 points")
	ErrTableGap       = errors.New("tiers must be contiguous")
	ErrEmptyRange     = errors.New("tier range must not be empty")
	ErrTableOpenEnded = errors.New("last tier must be unbounded")
	ErrNoName         = errors.New("tier name is required")
	ErrDuplicateName  = errors.New("tier names must be unique")
)

// Tier is a named [MinPoints, MaxPoints) bracket of the Pass Points range.
type Tier struct {
	Name      string
	MinPoints int
	MaxPoints int // Unbounded for the last tier
}

func (t Tier) IsUnbounded() bool { return t.MaxPoints == Unbounded }

// Contains reports whether points fall within the tier's range.
func (t Tier) Contains(points int) bool {
	return points >= t.MinPoints && (t.IsUnbounded() || points < t.MaxPoints)
}

type tierJSON struct {
	Name      string `json:"name"`
	MinPoints int    `json:"min_points"`
	MaxPoints *int   `json:"max_points"` // null when unbounded
}

func (t Tier) MarshalJSON() ([]byte, error) {
	tj := tierJSON{Name: t.Name, MinPoints: t.MinPoints}
	if !t.IsUnbounded() {
		maxPoints := t.MaxPoints
		tj.MaxPoints = &maxPoints
	}
	return json.Marshal(tj)
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	var tj tierJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}
	t.Name = tj.Name
	t.MinPoints = tj.MinPoints
	t.MaxPoints = Unbounded
	if tj.MaxPoints != nil {
		t.MaxPoints = *tj.MaxPoints
	}
	return nil
}

// Table is an ordered sequence of tiers covering [0, +∞) with no gaps and no overlaps.
// Build custom tables with NewTable, which enforces this. The zero Table has no tiers and must not be queried.
type Table struct {
	tiers []Tier
}

// NewTable validates tiers and returns them as a Table.
func NewTable(tiers ...Tier) (Table, error) {
	if len(tiers) == 0 {
		return Table{}, ErrEmptyTable
	}
	names := make(map[string]struct{}, len(tiers))
	for i, t := range tiers {
		if t.Name == "" {
			return Table{}, errors.Wrapf(ErrNoName, "tier #%d", i)
		}
		if _, dup := names[t.Name]; dup {
			return Table{}, errors.Wrapf(ErrDuplicateName, "tier %q", t.Name)
		}
		names[t.Name] = struct{}{}

		if t.MaxPoints <= t.MinPoints {
			return Table{}, errors.Wrapf(ErrEmptyRange, "tier %q [%d, %d)", t.Name, t.MinPoints, t.MaxPoints)
		}
		if i == 0 {
			if t.MinPoints != 0 {
				return Table{}, errors.Wrapf(ErrTableStart, "tier %q starts at %d", t.Name, t.MinPoints)
			}
		} else if prev := tiers[i-1]; prev.MaxPoints != t.MinPoints {
			return Table{}, errors.Wrapf(
				ErrTableGap, "tier %q ends at %d but %q starts at %d", prev.Name, prev.MaxPoints, t.Name, t.MinPoints,
			)
		}
	}
	if last := tiers[len(tiers)-1]; !last.IsUnbounded() {
		return Table{}, errors.Wrapf(ErrTableOpenEnded, "tier %q ends at %d", last.Name, last.MaxPoints)
	}

	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return Table{tiers: cp}, nil
}

// DefaultTable returns the StudyMate tiers.
func DefaultTable() Table {
	return Table{tiers: []Tier{
		{Name: "Beginner", MinPoints: 0, MaxPoints: 100},
		{Name: "Explorer", MinPoints: 100, MaxPoints: 500},
		{Name: "Scholar", MinPoints: 500, MaxPoints: 2000},
		{Name: "Expert", MinPoints: 2000, MaxPoints: 10000},
		{Name: "Master", MinPoints: 10000, MaxPoints: Unbounded},
	}}
}

// Tiers returns a copy of the table's tiers, in ascending order.
func (tb Table) Tiers() []Tier {
	cp := make([]Tier, len(tb.tiers))
	copy(cp, tb.tiers)
	return cp
}

func (tb Table) Len() int { return len(tb.tiers) }

// ByName returns the tier called name.
func (tb Table) ByName(name string) (Tier, bool) {
	for _, t := range tb.tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// index returns the position of the tier containing points.
func (tb Table) index(points int) int {
	points = clamp(points)
	// first tier that starts after points, minus one
	return sort.Search(len(tb.tiers), func(i int) bool { return tb.tiers[i].MinPoints > points }) - 1
}

// UserTier returns the tier containing passPoints. Negative balances count as 0.
func (tb Table) UserTier(passPoints int) Tier {
	return tb.tiers[tb.index(passPoints)]
}

// NextTier is what a balance needs to reach the following tier.
// Tier is nil when the balance is already in the last tier.
type NextTier struct {
	Tier         *Tier `json:"tier"`
	PointsNeeded int   `json:"points_needed"`
}

// PassPointsForNextTier returns the tier following passPoints' tier and how many points are missing.
func (tb Table) PassPointsForNextTier(passPoints int) NextTier {
	i := tb.index(passPoints)
	if i == len(tb.tiers)-1 {
		return NextTier{}
	}
	next := tb.tiers[i+1]
	return NextTier{Tier: &next, PointsNeeded: next.MinPoints - clamp(passPoints)}
}

// Progress returns how far passPoints went through its tier, in percent.
// ok is false in the unbounded tier, where progress is undefined.
func (tb Table) Progress(passPoints int) (percent float64, ok bool) {
	t := tb.UserTier(passPoints)
	if t.IsUnbounded() {
		return 0, false
	}
	done := float64(clamp(passPoints) - t.MinPoints)
	return done / float64(t.MaxPoints-t.MinPoints) * 100, true
}

// Standing bundles everything known about a balance.
type Standing struct {
	PassPoints int      `json:"pass_points"`
	Tier       Tier     `json:"tier"`
	Next       NextTier `json:"next"`
	Progress   *float64 `json:"progress"` // percent; null in the unbounded tier
}

func (tb Table) Standing(passPoints int) Standing {
	st := Standing{
		PassPoints: clamp(passPoints),
		Tier:       tb.UserTier(passPoints),
		Next:       tb.PassPointsForNextTier(passPoints),
	}
	if pct, ok := tb.Progress(passPoints); ok {
		st.Progress = &pct
	}
	return st
}

func clamp(points int) int {
	if points < 0 {
		return 0
	}
	return points
}

package tier

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemeYAML = `
tiers:
  - name: Rookie
    min_points: 0
    max_points: 50
    icon: "🐣"
    color: text-gray-400
    benefits:
      - Basic matching
  - name: Pro
    min_points: 50
    color: text-red-500
awards:
  session_completed: 10
`

func TestLoad(t *testing.T) {
	sc, err := Load(strings.NewReader(schemeYAML))
	require.NoError(t, err)

	wantTiers := []Tier{
		{Name: "Rookie", MinPoints: 0, MaxPoints: 50},
		{Name: "Pro", MinPoints: 50, MaxPoints: Unbounded},
	}
	if diff := cmp.Diff(wantTiers, sc.Table.Tiers()); diff != "" {
		t.Errorf("Load() tiers mismatch (-want +got):\n%s", diff)
	}

	wantDecorations := Decorations{
		"Rookie": {Icon: "🐣", Color: "text-gray-400", Benefits: []string{"Basic matching"}},
		"Pro":    {Color: "text-red-500", Benefits: []string{}},
	}
	if diff := cmp.Diff(wantDecorations, sc.Decorations); diff != "" {
		t.Errorf("Load() decorations mismatch (-want +got):\n%s", diff)
	}

	wantAwards := map[Reason]int{ReasonSessionCompleted: 10, ReasonGoodReview: 20, ReasonMilestone: 100}
	assert.Equal(t, wantAwards, sc.Awards.Amounts(), "omitted reasons keep their default")
	_, err = sc.Awards.Award("bogus")
	assert.True(t, IsUnknownReason(err))
}

func TestLoad_defaultAwards(t *testing.T) {
	sc, err := Load(strings.NewReader("tiers:\n  - name: Only\n    min_points: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAwards().Amounts(), sc.Awards.Amounts())
	assert.Equal(t, "Only", sc.Table.UserTier(1<<30).Name)
}

func TestLoad_errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
	}{
		{name: "no tiers", yaml: "awards:\n  milestone: 5\n", wantErr: ErrEmptyTable},
		{
			name:    "gap",
			yaml:    "tiers:\n  - {name: A, min_points: 0, max_points: 10}\n  - {name: B, min_points: 20}\n",
			wantErr: ErrTableGap,
		},
		{
			name:    "bounded last tier",
			yaml:    "tiers:\n  - {name: A, min_points: 0, max_points: 10}\n",
			wantErr: ErrTableOpenEnded,
		},
		{
			name:    "negative award",
			yaml:    "tiers:\n  - {name: A, min_points: 0}\nawards:\n  milestone: -5\n",
			wantErr: ErrNonPositiveAward,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			assert.Equal(t, tt.wantErr, errors.Cause(err))
		})
	}

	_, err := Load(strings.NewReader("tiers:\n  - {name: A, min_points: 0, colour: red}\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = Load(strings.NewReader("tiers:\n  - {name: A, min_points: 0}\nawards:\n  session_completed: 30\n  bogus: 7\n"))
	assert.True(t, IsUnknownReason(err), "unknown award reasons are rejected, err = %v", err)
}

func TestDefaultScheme_decorationsCoverTable(t *testing.T) {
	sc := DefaultScheme()
	for _, tr := range sc.Table.Tiers() {
		_, ok := sc.Decorations[tr.Name]
		assert.Truef(t, ok, "no decoration for %s", tr.Name)
	}
	assert.Equal(t, Decoration{Benefits: []string{}}, sc.Decorations.Lookup("Unknown"))
}

func TestLoadFile(t *testing.T) {
	sc, err := LoadFile("../../config/tiers.example.yaml")
	require.NoError(t, err)

	def := DefaultScheme()
	if diff := cmp.Diff(def.Table.Tiers(), sc.Table.Tiers()); diff != "" {
		t.Errorf("example tiers drifted from the defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(def.Decorations, sc.Decorations); diff != "" {
		t.Errorf("example decorations drifted from the defaults (-want +got):\n%s", diff)
	}
	assert.Equal(t, def.Awards.Amounts(), sc.Awards.Amounts())

	_, err = LoadFile("nope.yaml")
	assert.Error(t, err)
}

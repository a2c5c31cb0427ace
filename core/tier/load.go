package tier

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scheme is a full points scheme: tiers, their decorations and award amounts.
type Scheme struct {
	Table       Table
	Decorations Decorations
	Awards      Awards
}

func DefaultScheme() Scheme {
	return Scheme{
		Table:       DefaultTable(),
		Decorations: DefaultDecorations(),
		Awards:      DefaultAwards(),
	}
}

type schemeFile struct {
	Tiers []struct {
		Name       string `yaml:"name"`
		MinPoints  int    `yaml:"min_points"`
		MaxPoints  *int   `yaml:"max_points"` // omitted on the last tier
		Decoration `yaml:",inline"`
	} `yaml:"tiers"`
	Awards map[Reason]int `yaml:"awards"` // reasons left out keep their default
}

// Load reads a YAML scheme, eg:
//
//	tiers:
//	  - name: Beginner
//	    min_points: 0
//	    max_points: 100
//	    icon: "🌱"
//	  - name: Master
//	    min_points: 100
//	awards:
//	  session_completed: 30
func Load(r io.Reader) (Scheme, error) {
	var sf schemeFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return Scheme{}, errors.Wrap(err, "decoding tier scheme")
	}

	tiers := make([]Tier, 0, len(sf.Tiers))
	decorations := make(Decorations, len(sf.Tiers))
	for _, t := range sf.Tiers {
		maxPoints := Unbounded
		if t.MaxPoints != nil {
			maxPoints = *t.MaxPoints
		}
		tiers = append(tiers, Tier{Name: t.Name, MinPoints: t.MinPoints, MaxPoints: maxPoints})

		d := t.Decoration
		if d.Benefits == nil {
			d.Benefits = []string{}
		}
		decorations[t.Name] = d
	}
	table, err := NewTable(tiers...)
	if err != nil {
		return Scheme{}, errors.Wrap(err, "building tier table")
	}

	awards, err := NewAwards(sf.Awards)
	if err != nil {
		return Scheme{}, errors.Wrap(err, "building awards")
	}
	return Scheme{Table: table, Decorations: decorations, Awards: awards}, nil
}

// LoadFile is Load on the file at path.
func LoadFile(path string) (Scheme, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scheme{}, errors.Wrap(err, "opening tier scheme")
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

package tier

// Decoration is how a tier is displayed. It has no say in tier computation.
type Decoration struct {
	Icon     string   `json:"icon" yaml:"icon"`
	Color    string   `json:"color" yaml:"color"`
	Benefits []string `json:"benefits" yaml:"benefits"`
}

// Decorations are keyed by tier name.
type Decorations map[string]Decoration

// Lookup returns the decoration of the named tier, or a blank one.
func (d Decorations) Lookup(name string) Decoration {
	if dec, ok := d[name]; ok {
		return dec
	}
	return Decoration{Benefits: []string{}}
}

func DefaultDecorations() Decorations {
	return Decorations{
		"Beginner": {
			Icon:     "🌱",
			Color:    "text-gray-500",
			Benefits: []string{"Basic matching", "Join public study sessions"},
		},
		"Explorer": {
			Icon:     "🧭",
			Color:    "text-green-500",
			Benefits: []string{"Priority matching", "Create study sessions", "Profile badge"},
		},
		"Scholar": {
			Icon:     "📚",
			Color:    "text-blue-500",
			Benefits: []string{"Advanced filters", "Host group sessions", "Scholar NFT badge"},
		},
		"Expert": {
			Icon:     "🎓",
			Color:    "text-purple-500",
			Benefits: []string{"Mentor other students", "Featured profile", "Expert NFT badge"},
		},
		"Master": {
			Icon:     "👑",
			Color:    "text-yellow-500",
			Benefits: []string{"All features unlocked", "Exclusive events", "Master NFT badge"},
		},
	}
}

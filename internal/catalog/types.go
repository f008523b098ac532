package catalog

// Subject is one browsable character in the catalog.
type Subject struct {
	Slug           string `json:"slug"`
	Name           string `json:"name"`
	NumericKey     int    `json:"numeric_key"`
	CompanionAlias string `json:"companion_alias,omitempty"`
	Versions       int    `json:"versions,omitempty"` // historical version count, 0 = none
	Skins          []Skin `json:"skins"`

	// Optional per-subject display tuning merged over the defaults.
	Display *DisplayOverride `json:"display,omitempty"`
}

// Skin is one selectable skin of a subject.
type Skin struct {
	Number      int      `json:"number"`
	Name        string   `json:"name"`
	Chromas     []int    `json:"chromas,omitempty"`
	HasForm     bool     `json:"has_form,omitempty"`
	FormIdle    string   `json:"form_idle,omitempty"` // idle override while the form is active
	ExtraModels []string `json:"extra_models,omitempty"`
}

// DisplayOverride carries hand-tuned normalization parameters for subjects
// whose assets measure badly with the default heuristics.
type DisplayOverride struct {
	TargetHeight float64 `json:"target_height,omitempty"`
	BaselineY    float64 `json:"baseline_y,omitempty"`
	IdleClip     string  `json:"idle_clip,omitempty"` // forced idle clip name
}

// Skin returns the skin with the given number, or (Skin{}, false).
func (s *Subject) Skin(number int) (Skin, bool) {
	for _, sk := range s.Skins {
		if sk.Number == number {
			return sk, true
		}
	}
	return Skin{}, false
}

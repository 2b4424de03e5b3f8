package insights

import (
	"context"
	"time"
)

// tone of generated insight text
const (
	ToneConcise  = "concise"
	ToneDetailed = "detailed"
)

// areas an insight can be about
const (
	FocusUtilization = "utilization"
	FocusFuel        = "fuel"
	FocusSafety      = "safety"
	FocusPunctuality = "punctuality"
)

// horizons an insight looks back over
const (
	HorizonDay   = "day"
	HorizonWeek  = "week"
	HorizonMonth = "month"
)

// severity of an insight
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityAction  = "action"
)

// what the dispatcher wants the assistant to surface
type Preferences struct {
	Enabled    bool     `yaml:"enabled" json:"enabled"`
	Tone       string   `yaml:"tone" json:"tone"`
	FocusAreas []string `yaml:"focus_areas" json:"focus_areas"`
	Horizon    string   `yaml:"horizon" json:"horizon"`
}

// one observation about the fleet
type Insight struct {
	ID          string    `json:"id"`
	Area        string    `json:"area"`
	Severity    string    `json:"severity"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Detail      string    `json:"detail,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

// produces insights for a set of preferences
type Source interface {
	Insights(ctx context.Context, prefs Preferences) ([]Insight, error)
}

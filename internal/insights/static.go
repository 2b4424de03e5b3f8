package insights

import (
	"context"
	"time"
)

// mock insight source standing in for an assistant backend
type StaticSource struct {
	// simulated response latency
	Delay time.Duration
	now   func() time.Time
}

func NewStaticSource(delay time.Duration) *StaticSource {
	return &StaticSource{Delay: delay, now: time.Now}
}

var staticInsights = []Insight{
	{
		ID:       "util-idle-vans",
		Area:     FocusUtilization,
		Severity: SeverityWarning,
		Title:    "Idle vehicles in the north depot",
		Summary:  "Three vans sat idle for more than 40% of shift hours.",
		Detail:   "Idle time concentrates between 13:00 and 15:00 when inbound volume drops.",
		Suggestions: []string{
			"Move one van to the central depot for afternoon shifts",
			"Batch afternoon pickups into a single route",
		},
	},
	{
		ID:       "punct-late-starts",
		Area:     FocusPunctuality,
		Severity: SeverityAction,
		Title:    "Late trip starts on Monday mornings",
		Summary:  "18% of Monday trips started more than 10 minutes late.",
		Detail:   "Most late starts share a vehicle handover at the start of the shift.",
		Suggestions: []string{
			"Schedule vehicle checks the evening before",
		},
	},
	{
		ID:       "fuel-long-idle",
		Area:     FocusFuel,
		Severity: SeverityInfo,
		Title:    "Engine idling above fleet average",
		Summary:  "Two trucks idle with the engine on 25 minutes per trip on average.",
		Suggestions: []string{
			"Share idle reports with the assigned drivers",
		},
	},
	{
		ID:       "safety-harsh-braking",
		Area:     FocusSafety,
		Severity: SeverityWarning,
		Title:    "Harsh braking cluster on the ring road",
		Summary:  "Harsh braking events doubled on one ring road segment.",
		Detail:   "Events correlate with the roadworks detour active since last week.",
		Suggestions: []string{
			"Route around the detour until the roadworks end",
		},
	},
}

func (s *StaticSource) Insights(ctx context.Context, prefs Preferences) ([]Insight, error) {
	if s.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.Delay):
		}
	}

	now := time.Now
	if s.now != nil {
		now = s.now
	}

	out := make([]Insight, 0, len(staticInsights))
	for _, in := range staticInsights {
		if !prefs.Wants(in.Area) {
			continue
		}

		if prefs.Tone == ToneConcise {
			in.Detail = ""
		}
		in.Suggestions = append([]string(nil), in.Suggestions...)
		in.GeneratedAt = now()

		out = append(out, in)
	}

	return out, nil
}

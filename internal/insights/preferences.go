package insights

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

func DefaultPreferences() Preferences {
	return Preferences{
		Enabled:    true,
		Tone:       ToneConcise,
		FocusAreas: []string{FocusPunctuality, FocusUtilization},
		Horizon:    HorizonWeek,
	}
}

// fills unset fields with defaults and drops unknown focus areas
func (p Preferences) Normalize() Preferences {
	def := DefaultPreferences()

	if p.Tone != ToneConcise && p.Tone != ToneDetailed {
		p.Tone = def.Tone
	}

	switch p.Horizon {
	case HorizonDay, HorizonWeek, HorizonMonth:
	default:
		p.Horizon = def.Horizon
	}

	known := []string{FocusUtilization, FocusFuel, FocusSafety, FocusPunctuality}
	areas := make([]string, 0, len(p.FocusAreas))

	for _, a := range p.FocusAreas {
		a = strings.ToLower(strings.TrimSpace(a))
		if slices.Contains(known, a) && !slices.Contains(areas, a) {
			areas = append(areas, a)
		}
	}
	sort.Strings(areas)
	p.FocusAreas = areas

	return p
}

// cache key; preferences that normalize the same share a key
func (p Preferences) Key() string {
	n := p.Normalize()
	return fmt.Sprintf("%t|%s|%s|%s", n.Enabled, n.Tone, n.Horizon, strings.Join(n.FocusAreas, ","))
}

func (p Preferences) Wants(area string) bool {
	if len(p.FocusAreas) == 0 {
		return true
	}
	return slices.Contains(p.FocusAreas, area)
}

// shared, mutable preferences for the running console
type Context struct {
	mu    sync.RWMutex
	prefs Preferences
}

func NewContext(prefs Preferences) *Context {
	return &Context{prefs: prefs.Normalize()}
}

func (c *Context) Preferences() Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.prefs
	p.FocusAreas = slices.Clone(p.FocusAreas)
	return p
}

// applies fn to a copy of the preferences and stores the normalized result
func (c *Context) Update(fn func(*Preferences)) Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.prefs
	p.FocusAreas = slices.Clone(p.FocusAreas)
	fn(&p)
	c.prefs = p.Normalize()

	return c.prefs
}

func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefs = DefaultPreferences()
}

// reads preferences from a YAML file. a missing file yields the defaults.
func LoadPreferences(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}

	prefs := DefaultPreferences()
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return Preferences{}, fmt.Errorf("failed to parse preferences: %w", err)
	}

	return prefs.Normalize(), nil
}

func SavePreferences(path string, prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	data, err := yaml.Marshal(prefs.Normalize())
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}

	return nil
}

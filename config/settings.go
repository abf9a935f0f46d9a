// Package config holds the viewer's user-facing options: the live shading
// settings the control panel edits, and the file and flag configuration
// of the viewer binary.
package config

import (
	"errors"
	"fmt"
	stdmath "math"
	"sync"

	"pbr-viewer/shading"
)

// NumLights is the number of point lights exposed to the user.
const NumLights = shading.DefaultLights

// RGB is an 8-bit display-encoded color.
type RGB [3]uint8

var White = RGB{255, 255, 255}

type LightSettings struct {
	Color     RGB     `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

// Settings mirrors the control panel. BRDF/IBL and Reinhard/ACES behave as
// radio pairs: exactly one of each must be set.
type Settings struct {
	BRDF     bool `yaml:"brdf"`
	IBL      bool `yaml:"ibl"`
	Reinhard bool `yaml:"reinhard"`
	ACES     bool `yaml:"aces"`

	Albedo RGB                      `yaml:"albedo"`
	Lights [NumLights]LightSettings `yaml:"lights"`
}

// DefaultSettings selects IBL with ACES, a white albedo and four white
// lights at intensity 0.5.
func DefaultSettings() Settings {
	s := Settings{
		IBL:    true,
		ACES:   true,
		Albedo: White,
	}
	for i := range s.Lights {
		s.Lights[i] = LightSettings{Color: White, Intensity: 0.5}
	}
	return s
}

// SelectLighting checks one lighting option and unchecks the other.
func (s *Settings) SelectLighting(mode shading.LightingMode) {
	s.BRDF = mode == shading.LightingBRDF
	s.IBL = mode == shading.LightingIBL
}

// SelectToneMapping checks one tone mapping option and unchecks the other.
func (s *Settings) SelectToneMapping(tone shading.ToneMapping) {
	s.Reinhard = tone == shading.ToneReinhard
	s.ACES = tone == shading.ToneACES
}

func (s Settings) Lighting() shading.LightingMode {
	if s.IBL {
		return shading.LightingIBL
	}
	return shading.LightingBRDF
}

func (s Settings) ToneMapping() shading.ToneMapping {
	if s.Reinhard {
		return shading.ToneReinhard
	}
	return shading.ToneACES
}

var (
	ErrLightingExclusive    = errors.New("config: exactly one of brdf and ibl must be set")
	ErrToneMappingExclusive = errors.New("config: exactly one of reinhard and aces must be set")
)

func (s Settings) Validate() error {
	if s.BRDF == s.IBL {
		return ErrLightingExclusive
	}
	if s.Reinhard == s.ACES {
		return ErrToneMappingExclusive
	}
	for i, l := range s.Lights {
		v := float64(l.Intensity)
		if v < 0 || stdmath.IsNaN(v) || stdmath.IsInf(v, 0) {
			return fmt.Errorf("config: light %d: invalid intensity %v", i, l.Intensity)
		}
	}
	return nil
}

// Source supplies a consistent copy of the settings once per frame.
type Source interface {
	Snapshot() Settings
}

// Store is a Source that can be edited from other goroutines, e.g. by
// hotkey handlers or a file watcher.
type Store struct {
	mu sync.Mutex
	s  Settings
}

func NewStore(s Settings) *Store {
	return &Store{s: s}
}

func (st *Store) Snapshot() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s
}

// Update applies fn to a copy and keeps the result only if it validates.
func (st *Store) Update(fn func(*Settings)) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := st.s
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	st.s = next
	return nil
}

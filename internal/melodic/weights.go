package melodic

import (
	"fmt"
	"slices"
)

// Weights assigns a score to each Movement. Higher weights make the search
// prefer that transition when two paths have the same length.
//
// The field tags use the movement names so weights can be set from config
// files:
//
//	weights:
//	  perfect_match: 50
//	  tone_boost: 2
type Weights struct {
	PerfectMatch int `json:"perfect_match" yaml:"perfect_match"`
	EnergyBoost  int `json:"energy_boost" yaml:"energy_boost"`
	EnergyDrop   int `json:"energy_drop" yaml:"energy_drop"`
	EnergySwitch int `json:"energy_switch" yaml:"energy_switch"`
	MoodBoost    int `json:"mood_boost" yaml:"mood_boost"`
	MoodDrop     int `json:"mood_drop" yaml:"mood_drop"`
	EnergyRaise  int `json:"energy_raise" yaml:"energy_raise"`
	DomKey       int `json:"dom_key" yaml:"dom_key"`
	SubDomKey    int `json:"sub_dom_key" yaml:"sub_dom_key"`
	ToneBoost    int `json:"tone_boost" yaml:"tone_boost"`
	ToneDrop     int `json:"tone_drop" yaml:"tone_drop"`
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		PerfectMatch: 35,
		EnergyBoost:  10,
		EnergyDrop:   10,
		EnergySwitch: 10,
		MoodBoost:    5,
		MoodDrop:     5,
		EnergyRaise:  5,
		DomKey:       10,
		SubDomKey:    10,
		ToneBoost:    0,
		ToneDrop:     0,
	}
}

func (w *Weights) field(m Movement) *int {
	switch m {
	case PerfectMatch:
		return &w.PerfectMatch
	case EnergyBoost:
		return &w.EnergyBoost
	case EnergyDrop:
		return &w.EnergyDrop
	case EnergySwitch:
		return &w.EnergySwitch
	case MoodBoost:
		return &w.MoodBoost
	case MoodDrop:
		return &w.MoodDrop
	case EnergyRaise:
		return &w.EnergyRaise
	case DomKey:
		return &w.DomKey
	case SubDomKey:
		return &w.SubDomKey
	case ToneBoost:
		return &w.ToneBoost
	case ToneDrop:
		return &w.ToneDrop
	}
	return nil
}

// Weight returns the weight of m. Unknown movements weigh 0.
func (w Weights) Weight(m Movement) int {
	if f := w.field(m); f != nil {
		return *f
	}
	return 0
}

// Set returns a copy of w with the weight of m replaced.
func (w Weights) Set(m Movement, weight int) Weights {
	if f := w.field(m); f != nil {
		*f = weight
	}
	return w
}

// ParseOverrides returns a copy of w with the named weights replaced.
// Names are movement names as accepted by ParseMovement. The first unknown
// name, in sorted order, fails the whole call with ErrUnknownMovement.
func (w Weights) ParseOverrides(overrides map[string]int) (Weights, error) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	slices.Sort(names)

	out := w
	for _, name := range names {
		m, err := ParseMovement(name)
		if err != nil {
			return w, fmt.Errorf("weight override: %w", err)
		}
		out = out.Set(m, overrides[name])
	}
	return out, nil
}

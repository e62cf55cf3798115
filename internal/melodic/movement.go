package melodic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/keymix/internal/model"
)

// ErrUnknownMovement is returned when a movement name is not recognized.
var ErrUnknownMovement = errors.New("unknown movement")

// Movement is a kind of harmonic transition between two keys.
type Movement int

const (
	// PerfectMatch keeps the same key.
	PerfectMatch Movement = iota

	// EnergyBoost moves one step clockwise, same letter.
	EnergyBoost

	// EnergyDrop moves one step counter-clockwise, same letter.
	EnergyDrop

	// EnergySwitch keeps the number and flips the letter.
	EnergySwitch

	// MoodBoost moves three steps clockwise and flips the letter.
	MoodBoost

	// MoodDrop moves three steps counter-clockwise and flips the letter.
	MoodDrop

	// EnergyRaise moves seven steps clockwise, same letter.
	EnergyRaise

	// DomKey moves one step clockwise and flips the letter.
	DomKey

	// SubDomKey moves one step counter-clockwise and flips the letter.
	SubDomKey

	// ToneBoost moves two steps clockwise, same letter.
	ToneBoost

	// ToneDrop moves two steps counter-clockwise, same letter.
	ToneDrop

	movementCount
)

var movementNames = [movementCount]string{
	PerfectMatch: "perfect_match",
	EnergyBoost:  "energy_boost",
	EnergyDrop:   "energy_drop",
	EnergySwitch: "energy_switch",
	MoodBoost:    "mood_boost",
	MoodDrop:     "mood_drop",
	EnergyRaise:  "energy_raise",
	DomKey:       "dom_key",
	SubDomKey:    "sub_dom_key",
	ToneBoost:    "tone_boost",
	ToneDrop:     "tone_drop",
}

// Movements returns every movement in declaration order.
func Movements() []Movement {
	all := make([]Movement, 0, movementCount)
	for m := PerfectMatch; m < movementCount; m++ {
		all = append(all, m)
	}
	return all
}

// String returns the snake_case name, e.g. "perfect_match".
func (m Movement) String() string {
	if m < 0 || m >= movementCount {
		return fmt.Sprintf("movement(%d)", int(m))
	}
	return movementNames[m]
}

// ParseMovement returns the movement with the given snake_case name.
// Matching ignores case, and dashes are accepted in place of underscores.
func ParseMovement(name string) (Movement, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for m, n := range movementNames {
		if n == normalized {
			return Movement(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMovement, name)
}

// Classify returns the movement from start to end. The boolean is false
// when the two keys are not harmonically compatible.
//
// The forward distance is measured clockwise on the wheel, so 12A to 1A is
// a distance of 1 and 1A to 12A a distance of 11.
func Classify(start, end model.Key) (Movement, bool) {
	delta := ((end.Number() - 1) - (start.Number() - 1) + 12) % 12

	if start.Letter() == end.Letter() {
		switch delta {
		case 0:
			return PerfectMatch, true
		case 1:
			return EnergyBoost, true
		case 11:
			return EnergyDrop, true
		case 2:
			return ToneBoost, true
		case 10:
			return ToneDrop, true
		case 7:
			return EnergyRaise, true
		}
		return 0, false
	}

	switch delta {
	case 0:
		return EnergySwitch, true
	case 1:
		return DomKey, true
	case 11:
		return SubDomKey, true
	case 3:
		return MoodBoost, true
	case 9:
		return MoodDrop, true
	}
	return 0, false
}

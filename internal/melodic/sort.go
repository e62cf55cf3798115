package melodic

import (
	"github.com/handiism/keymix/internal/model"
	"github.com/sirupsen/logrus"
)

// Sort orders tracks into the best harmonic sequence found by Search.
//
// The returned slice holds the same values as tracks, in play order; nothing
// is copied or mutated. Tracks without a key, or with no compatible
// neighbour, are left out. An empty result means no transition exists.
func Sort[T Keyed](tracks []T, opts ...Option) []T {
	o := newOptions(opts)
	g := BuildGraph(tracks, o.weights)
	o.log.WithFields(logrus.Fields{
		"tracks": len(tracks),
		"pairs":  len(g.pairs),
	}).Info("melodic sort")

	res := search(g, o)
	return Pick(tracks, res.Path)
}

// Pick returns tracks[i] for every i in path.
func Pick[T any](tracks []T, path []int) []T {
	out := make([]T, 0, len(path))
	for _, i := range path {
		out = append(out, tracks[i])
	}
	return out
}

// Transition describes the move between two consecutive tracks.
type Transition struct {
	From     model.Key
	To       model.Key
	Movement Movement
	Weight   int

	// Compatible is false when the two keys do not classify, which only
	// happens for sequences not produced by Sort.
	Compatible bool
}

// Transitions explains each consecutive move of an ordered track list.
// Tracks without a key are skipped.
func Transitions[T Keyed](tracks []T, w Weights) []Transition {
	var keys []model.Key
	for _, t := range tracks {
		if k, ok := t.ResolvedKey(); ok {
			keys = append(keys, k)
		}
	}

	var out []Transition
	for i := 1; i < len(keys); i++ {
		m, ok := Classify(keys[i-1], keys[i])
		tr := Transition{From: keys[i-1], To: keys[i], Movement: m, Compatible: ok}
		if ok {
			tr.Weight = w.Weight(m)
		}
		out = append(out, tr)
	}
	return out
}

package melodic

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// DefaultLimit is the beam width used when no limit is given.
const DefaultLimit = 100

// Option configures Search and Sort.
type Option func(*options)

type options struct {
	limit   int
	weights Weights
	log     logrus.FieldLogger
}

func newOptions(opts []Option) options {
	o := options{
		limit:   DefaultLimit,
		weights: DefaultWeights(),
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.limit < 1 {
		o.limit = DefaultLimit
	}
	return o
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// WithLimit sets the beam width. Values below 1 select DefaultLimit.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithWeights sets the weight table used by Sort to build the graph.
// Search scores with the weights already stored in the graph.
func WithWeights(w Weights) Option {
	return func(o *options) { o.weights = w }
}

// WithLogger sets the logger for per-round diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Result is the outcome of Search.
type Result struct {
	// Path is the winning sequence of track indices, empty when no edge exists.
	Path []int

	// Score is the cumulative weight of Path.
	Score int

	// Layers is the number of expansion rounds that produced paths.
	Layers int
}

// Empty reports whether no path was found.
func (r Result) Empty() bool { return len(r.Path) == 0 }

// step is one node of a path. Paths that share a prefix share its steps.
type step struct {
	vertex int
	prev   *step
	length int
	score  int
}

func (s *step) contains(v int) bool {
	for p := s; p != nil; p = p.prev {
		if p.vertex == v {
			return true
		}
	}
	return false
}

func (s *step) indices() []int {
	out := make([]int, s.length)
	for p, i := s, s.length-1; p != nil; p, i = p.prev, i-1 {
		out[i] = p.vertex
	}
	return out
}

// Search finds a long, high-scoring simple path through g.
//
// The search starts with one two-track path per edge and grows every path
// by one track per round, keeping at most the limit best-scoring paths
// after each round. It stops when a round cannot grow any path and returns
// the longest path of the last round, preferring the higher score and then
// the earlier path.
//
// Search is deterministic: ties in score keep the order in which the paths
// were produced.
func Search(g *Graph, opts ...Option) Result {
	return search(g, newOptions(opts))
}

func search(g *Graph, o options) Result {
	log := o.log.WithField("limit", o.limit)

	if g == nil || g.Empty() {
		log.Debug("search: no edges")
		return Result{}
	}

	frontier := make([]*step, 0, len(g.pairs))
	for _, p := range g.pairs {
		root := &step{vertex: p.Start, length: 1}
		frontier = append(frontier, &step{vertex: p.End, prev: root, length: 2, score: p.Weight})
	}
	frontier = trim(frontier, o.limit)
	log.WithFields(logrus.Fields{"pairs": len(g.pairs), "paths": len(frontier)}).Debug("search: seeded")

	layers := 0
	for {
		next := expand(g, frontier)
		if len(next) == 0 {
			break
		}
		log.WithFields(logrus.Fields{
			"layer":    layers,
			"paths":    len(frontier),
			"expanded": len(next),
		}).Trace("search: expanded layer")

		frontier = trim(next, o.limit)
		layers++
	}

	best := frontier[0]
	for _, s := range frontier[1:] {
		if s.length > best.length || (s.length == best.length && s.score > best.score) {
			best = s
		}
	}

	log.WithFields(logrus.Fields{
		"layers": layers,
		"length": best.length,
		"score":  best.score,
	}).Debug("search: finished")

	return Result{Path: best.indices(), Score: best.score, Layers: layers}
}

// expand grows every path in frontier by each outgoing edge of its last
// track that leads to a track not yet on the path.
func expand(g *Graph, frontier []*step) []*step {
	type child struct {
		parent *step
		vertex int
	}

	var next []*step
	seen := make(map[child]struct{})
	for _, s := range frontier {
		for _, p := range g.Outgoing(s.vertex) {
			if s.contains(p.End) {
				continue
			}
			c := child{parent: s, vertex: p.End}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			next = append(next, &step{
				vertex: p.End,
				prev:   s,
				length: s.length + 1,
				score:  s.score + p.Weight,
			})
		}
	}
	return next
}

// trim keeps the limit highest-scoring paths. Equal scores keep their order.
func trim(paths []*step, limit int) []*step {
	if len(paths) <= limit {
		return paths
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].score > paths[j].score
	})
	kept := make([]*step, limit)
	copy(kept, paths[:limit])
	return kept
}

package melodic

import "github.com/handiism/keymix/internal/model"

// Keyed is implemented by anything that may carry a key. *model.Track
// implements it.
type Keyed interface {
	ResolvedKey() (model.Key, bool)
}

// Pair is a directed edge of the compatibility graph: moving from track
// Start to track End is the given Movement and scores Weight.
type Pair struct {
	Start    int
	End      int
	Weight   int
	Movement Movement
}

type edge struct {
	start, end int
}

// Graph is the directed compatibility graph of a track list. Vertices are
// indices into the input. Pairs keep their build order: ascending Start,
// then ascending End.
type Graph struct {
	size    int
	pairs   []Pair
	out     [][]Pair
	weights map[edge]int
}

// BuildGraph emits a Pair for every ordered pair of distinct keyed tracks
// whose keys classify to a movement. Tracks without a key get no edges.
func BuildGraph[T Keyed](tracks []T, w Weights) *Graph {
	g := &Graph{
		size:    len(tracks),
		out:     make([][]Pair, len(tracks)),
		weights: make(map[edge]int),
	}

	keys := make([]model.Key, len(tracks))
	keyed := make([]bool, len(tracks))
	for i, t := range tracks {
		keys[i], keyed[i] = t.ResolvedKey()
	}

	for i := range tracks {
		if !keyed[i] {
			continue
		}
		for j := range tracks {
			if i == j || !keyed[j] {
				continue
			}
			m, ok := Classify(keys[i], keys[j])
			if !ok {
				continue
			}
			p := Pair{Start: i, End: j, Weight: w.Weight(m), Movement: m}
			g.pairs = append(g.pairs, p)
			g.out[i] = append(g.out[i], p)
			g.weights[edge{i, j}] = p.Weight
		}
	}

	return g
}

// Size returns the number of vertices, keyed or not.
func (g *Graph) Size() int { return g.size }

// Pairs returns every edge in build order. The slice must not be modified.
func (g *Graph) Pairs() []Pair { return g.pairs }

// Empty reports whether the graph has no edges.
func (g *Graph) Empty() bool { return len(g.pairs) == 0 }

// Outgoing returns the edges leaving i in build order.
func (g *Graph) Outgoing(i int) []Pair {
	if i < 0 || i >= len(g.out) {
		return nil
	}
	return g.out[i]
}

// Weight returns the weight of the edge i -> j.
func (g *Graph) Weight(i, j int) (int, bool) {
	w, ok := g.weights[edge{i, j}]
	return w, ok
}

// Score sums the edge weights along path. The boolean is false if two
// consecutive indices are not joined by an edge.
func (g *Graph) Score(path []int) (int, bool) {
	total := 0
	for k := 1; k < len(path); k++ {
		w, ok := g.Weight(path[k-1], path[k])
		if !ok {
			return 0, false
		}
		total += w
	}
	return total, true
}

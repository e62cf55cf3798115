// Package melodic orders tracks into a harmonically pleasing sequence using
// their keys in Camelot notation.
//
// # Movements
//
// Moving from one key to another is classified into a Movement by the
// forward distance on the Camelot wheel and whether the letter changes:
//
//	m, ok := melodic.Classify(model.MustKey(7, model.LetterA), model.MustKey(8, model.LetterA))
//	// m = melodic.EnergyBoost, ok = true
//
// Key pairs that fit none of the eleven movements are not compatible and
// never become an edge.
//
// # Graph and search
//
// BuildGraph turns a track list into a directed graph where each edge is a
// compatible transition weighted by Weights. Search walks that graph with a
// bounded-width beam and returns the longest path found, breaking length ties
// by cumulative weight:
//
//	g := melodic.BuildGraph(tracks, melodic.DefaultWeights())
//	res := melodic.Search(g, melodic.WithLimit(200))
//	// res.Path holds indices into tracks
//
// The beam keeps at most Limit partial paths per round, so results are good
// but not guaranteed optimal. For a fixed input and limit the result is fully
// deterministic.
//
// # Sorting
//
// Sort does all of the above and maps the winning path back onto the input:
//
//	sorted := melodic.Sort(tracks)
//	for _, step := range melodic.Transitions(sorted, melodic.DefaultWeights()) {
//	    fmt.Println(step.From, "->", step.To, step.Movement)
//	}
//
// Tracks without a key are left out of the result.
package melodic

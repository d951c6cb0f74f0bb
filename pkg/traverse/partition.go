package traverse

import "slices"

// DefaultMaxPerBand is the default cap on nodes per layout band. One
// configurable value feeds every consumer: DOT ranks, the dataset, and
// the viewer.
const DefaultMaxPerBand = 20

// Bands is the partitioned form of BFS levels: an ordered list of bands,
// each no larger than the configured cap, plus a node→band-index map.
// Band indices increase with BFS distance; splitting a level never
// interleaves it with another level's bands.
type Bands struct {
	Groups [][]int
	Index  map[int]int
}

// Band returns the band index assigned to id, or 0 if the id was never
// partitioned.
func (b *Bands) Band(id int) int { return b.Index[id] }

// Partition re-chunks each level into consecutive bands of at most
// maxPerBand nodes. Levels are sorted by id before chunking, so the same
// input always reproduces the same split. The final chunk of a split
// level may be smaller than the cap. A non-positive cap leaves levels
// unsplit.
func Partition(levels [][]int, maxPerBand int) *Bands {
	b := &Bands{Index: make(map[int]int)}

	for _, level := range levels {
		sorted := slices.Clone(level)
		slices.Sort(sorted)

		chunk := maxPerBand
		if chunk <= 0 {
			chunk = len(sorted)
		}
		for start := 0; start < len(sorted); start += chunk {
			end := min(start+chunk, len(sorted))
			band := sorted[start:end]
			for _, id := range band {
				b.Index[id] = len(b.Groups)
			}
			b.Groups = append(b.Groups, band)
		}
	}

	return b
}

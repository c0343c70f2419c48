// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package diff

import (
	"maps"

	"github.com/petar-djukic/go-refiner/pkg/types"
)

// pair is one step of a sibling alignment. Exactly one side is nil for an
// insertion or a deletion.
type pair struct {
	old *types.ComponentNode
	new *types.ComponentNode
}

// matchScore scores pairing a with b, or returns -1 when they cannot pair.
// Only nodes of the same type pair; equal text and equal attributes break
// ties between candidates.
func matchScore(a, b *types.ComponentNode) int {
	if a.Type != b.Type {
		return -1
	}
	score := 4
	if a.Text == b.Text {
		score += 2
	}
	if maps.Equal(a.Attributes, b.Attributes) && maps.Equal(a.Style, b.Style) {
		score++
	}
	return score
}

// align pairs two sibling sequences by maximum total match score, keeping
// order. Siblings that shift position because of an insertion or removal
// still pair with their counterparts.
func align(oldKids, newKids []*types.ComponentNode) []pair {
	n, m := len(oldKids), len(newKids)

	// best[i][j] is the best score aligning oldKids[i:] with newKids[j:].
	best := make([][]int, n+1)
	for i := range best {
		best[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			v := max(best[i+1][j], best[i][j+1])
			if s := matchScore(oldKids[i], newKids[j]); s >= 0 {
				v = max(v, s+best[i+1][j+1])
			}
			best[i][j] = v
		}
	}

	pairs := make([]pair, 0, max(n, m))
	i, j := 0, 0
	for i < n && j < m {
		if s := matchScore(oldKids[i], newKids[j]); s >= 0 && best[i][j] == s+best[i+1][j+1] {
			pairs = append(pairs, pair{old: oldKids[i], new: newKids[j]})
			i++
			j++
			continue
		}
		if best[i][j] == best[i+1][j] {
			pairs = append(pairs, pair{old: oldKids[i]})
			i++
			continue
		}
		pairs = append(pairs, pair{new: newKids[j]})
		j++
	}
	for ; i < n; i++ {
		pairs = append(pairs, pair{old: oldKids[i]})
	}
	for ; j < m; j++ {
		pairs = append(pairs, pair{new: newKids[j]})
	}
	return pairs
}

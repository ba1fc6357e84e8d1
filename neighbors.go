package hll

import (
	"container/heap"
	"math"
	"sort"
)

// NearestNeighbors scans anchors and returns the indices of the up to k
// entries whose value is closest to probe, ordered nearest-first. Ties are
// broken by lower index first. The returned slice has length min(k,
// len(anchors)).
//
// This mirrors the bounded ordered-structure approach from the original
// nearest-neighbor routine this package is modeled on: a fixed-size
// max-heap (here: container/heap) tracking the k best candidates seen so
// far, trimming the single farthest one whenever the heap would grow past
// k. That keeps the whole scan at O(n log k) instead of sorting the full
// anchor array.
func NearestNeighbors(anchors []float64, probe float64, k int) []int {
	if len(anchors) == 0 || k <= 0 {
		return nil
	}

	h := make(candidateHeap, 0, k+1)
	heap.Init(&h)

	for i, a := range anchors {
		heap.Push(&h, candidate{index: i, distance: math.Abs(a - probe)})

		if h.Len() > k {
			heap.Pop(&h)
		}
	}

	result := make([]candidate, len(h))
	copy(result, h)

	sort.Slice(result, func(i, j int) bool {
		if result[i].distance != result[j].distance {
			return result[i].distance < result[j].distance
		}
		return result[i].index < result[j].index
	})

	indices := make([]int, len(result))
	for i, c := range result {
		indices[i] = c.index
	}

	return indices
}

type candidate struct {
	index    int
	distance float64
}

// candidateHeap is a max-heap ordered so that the single worst candidate
// (greatest distance, ties broken by the greater index) is always at the
// root — the element that heap.Pop discards when the heap overflows k.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	// "Less" here means "worse" (belongs closer to the root, first to be
	// evicted), which is the inverse of distance order.
	if h[i].distance != h[j].distance {
		return h[i].distance > h[j].distance
	}
	return h[i].index > h[j].index
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

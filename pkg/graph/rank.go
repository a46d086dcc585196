package graph

// TopK keeps the K heaviest (id, weight) pairs seen so far in O(K) memory.
//
// The slots are kept in ascending weight order and start out zeroed, so slot 0 always
// holds the lightest survivor. Empty slots carry id NoVertex and are skipped by
// Descending.
type TopK struct {
	ids     []VertexID
	weights []uint32
}

// NewTopK creates a TopK with k slots.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{
		ids:     make([]VertexID, k),
		weights: make([]uint32, k),
	}
}

// Offer considers (id, w). If w is at least the lightest held weight, the lightest
// pair is dropped and (id, w) is inserted at its sorted position.
func (t *TopK) Offer(id VertexID, w uint32) {
	k := len(t.weights)
	if k == 0 || w < t.weights[0] {
		return
	}
	pos := 1
	for pos < k && w >= t.weights[pos] {
		pos++
	}
	pos--
	copy(t.ids[:pos], t.ids[1:pos+1])
	copy(t.weights[:pos], t.weights[1:pos+1])
	t.ids[pos] = id
	t.weights[pos] = w
}

// Descending returns the held pairs heaviest first, without empty slots.
func (t *TopK) Descending() WeightedList {
	var wl WeightedList
	for i := len(t.ids) - 1; i >= 0; i-- {
		if t.ids[i] == NoVertex {
			continue
		}
		wl.IDs = append(wl.IDs, t.ids[i])
		wl.Weights = append(wl.Weights, t.weights[i])
	}
	return wl
}

// ciura is Ciura's empirical gap sequence for shell sort.
var ciura = [...]int{701, 301, 132, 57, 23, 10, 4, 1}

// ShellSort sorts wl in place by descending weight, moving ids along with their
// weights. Gaps above 701 are derived by repeated multiplication by 2.25 until the
// next one would reach the list length.
//
// Each gapped pass only moves an element past strictly lighter ones, but passes with
// different gaps can still reorder equal weights. The order of ties is unspecified.
func ShellSort(wl WeightedList) {
	n := len(wl.IDs)
	h := ciura[0]
	for nx := h * 9 / 4; nx < n; nx = h * 9 / 4 {
		h = nx
	}
	for ; h > ciura[0]; h = h * 4 / 9 {
		gapPass(wl, h)
	}
	for _, gap := range ciura {
		gapPass(wl, gap)
	}
}

func gapPass(wl WeightedList, gap int) {
	for i := gap; i < len(wl.IDs); i++ {
		wi, di := wl.Weights[i], wl.IDs[i]
		j := i
		for ; j >= gap && wi > wl.Weights[j-gap]; j -= gap {
			wl.Weights[j] = wl.Weights[j-gap]
			wl.IDs[j] = wl.IDs[j-gap]
		}
		wl.Weights[j] = wi
		wl.IDs[j] = di
	}
}

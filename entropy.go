package wfc

// entropyCoord is a priority-queue element ordering cells by ascending
// entropy: smaller entropy sorts first (highest priority). Stale entries
// (a coord pushed before its cell's entropy last changed, or whose cell has
// since collapsed) are tolerated — they are discarded on pop, never acted
// on (spec.md §4.4/§4.7).
type entropyCoord struct {
	entropy float64
	coord   Vector2
}

// entropyHeap implements container/heap.Interface as a min-heap on entropy,
// the same hand-rolled-slice idiom used for priority queues elsewhere in
// this codebase's lineage (a Dijkstra/Prim node queue).
type entropyHeap []entropyCoord

func (h entropyHeap) Len() int            { return len(h) }
func (h entropyHeap) Less(i, j int) bool  { return h[i].entropy < h[j].entropy }
func (h entropyHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entropyHeap) Push(x interface{}) { *h = append(*h, x.(entropyCoord)) }
func (h *entropyHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

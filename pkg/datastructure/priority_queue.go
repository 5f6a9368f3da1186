package datastructure

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T
}

func NewPriorityQueueNode[T any](rank float64, item T) PriorityQueueNode[T] {
	return PriorityQueueNode[T]{Rank: rank, Item: item}
}

// MinHeap binary heap priorityqueue. There is no DecreaseKey: the search
// inserts a fresh node whenever it finds a better rank for the same item, so
// the heap can hold several nodes for one logical item and the caller must
// discard re-pops of items it already settled. The order in which equal-rank
// nodes are popped is unspecified.
type MinHeap[T any] struct {
	heap []PriorityQueueNode[T]
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

// parent get index of the parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index of the left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index of the right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

// heapifyUp maintain the heap property. swap with the parent while it has a
// bigger rank, O(logN) tree height.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.heap[index].Rank < h.heap[h.parent(index)].Rank {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]

		index = h.parent(index)
	}
}

// heapifyDown maintain the heap property. swap with the smaller child while one
// of the children has a smaller rank, O(logN) tree height.
func (h *MinHeap[T]) heapifyDown(index int) {
	smallest := index
	left := h.leftChild(index)
	right := h.rightChild(index)

	if left < len(h.heap) && h.heap[left].Rank < h.heap[smallest].Rank {
		smallest = left
	}
	if right < len(h.heap) && h.heap[right].Rank < h.heap[smallest].Rank {
		smallest = right
	}
	if smallest != index {
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]

		h.heapifyDown(smallest)
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

// Size current number of nodes in the heap, duplicates included.
func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// GetMin peek the minimum rank node without popping it (index 0).
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], bool) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, false
	}
	return h.heap[0], true
}

// Insert push a new node. O(logN).
func (h *MinHeap[T]) Insert(key PriorityQueueNode[T]) {
	h.heap = append(h.heap, key)
	h.heapifyUp(h.Size() - 1)
}

// ExtractMin pop the minimum rank node (index 0). O(logN).
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], bool) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, false
	}
	root := h.heap[0]
	h.heap[0] = h.heap[h.Size()-1]
	h.heap = h.heap[:h.Size()-1]
	h.heapifyDown(0)

	return root, true
}

package ws

// RingBuffer is a fixed-size circular buffer. It keeps the most recent lifecycle events so
// joining viewers can replay them.
type RingBuffer[T any] struct {
	data []T
	head int // next write position
	size int // current number of elements
}

// NewRingBuffer creates a new ring buffer with the given capacity
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{data: make([]T, capacity)}
}

// Add appends an item, overwriting the oldest when full
func (rb *RingBuffer[T]) Add(item T) {
	rb.data[rb.head] = item
	rb.head = (rb.head + 1) % len(rb.data)
	if rb.size < len(rb.data) {
		rb.size++
	}
}

// GetAll returns all items oldest first
func (rb *RingBuffer[T]) GetAll() []T {
	if rb.size == 0 {
		return nil
	}
	result := make([]T, rb.size)
	if rb.size < len(rb.data) {
		copy(result, rb.data[:rb.size])
	} else {
		// full: head points at the oldest element
		n := copy(result, rb.data[rb.head:])
		copy(result[n:], rb.data[:rb.head])
	}
	return result
}

// Len returns the current number of elements
func (rb *RingBuffer[T]) Len() int {
	return rb.size
}

// Clear removes all elements
func (rb *RingBuffer[T]) Clear() {
	var zero T
	for i := range rb.data {
		rb.data[i] = zero
	}
	rb.head = 0
	rb.size = 0
}

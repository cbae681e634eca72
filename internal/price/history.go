package price

import (
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultHistoryCapacity is the number of samples kept when no capacity is configured.
const DefaultHistoryCapacity = 100

// History is a bounded, insertion ordered sequence of price values.
// When full, the oldest value is evicted.
type History struct {
	mu       sync.RWMutex
	capacity int
	values   []decimal.Decimal
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &History{
		mu:       sync.RWMutex{},
		capacity: capacity,
		values:   make([]decimal.Decimal, 0, capacity),
	}
}

// Push appends a value, evicting the oldest one on overflow.
func (h *History) Push(value decimal.Decimal) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.values) == h.capacity {
		copy(h.values, h.values[1:])
		h.values = h.values[:h.capacity-1]
	}

	h.values = append(h.values, value)
}

// Values returns a copy of the history, oldest first.
func (h *History) Values() []decimal.Decimal {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]decimal.Decimal, len(h.values))
	copy(out, h.values)

	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.values)
}

func (h *History) Capacity() int {
	return h.capacity
}

package core

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBudgetExhausted is returned by Budget.Spend once the step budget is used up.
var ErrBudgetExhausted = errors.New("step budget exhausted")

// Budget enforces a maximum number of driver steps per run.
type Budget struct {
	max  int
	used int
	mu   sync.Mutex
}

// NewBudget creates a budget of max steps. If max <= 0, unlimited steps are allowed.
func NewBudget(max int) *Budget {
	if max < 0 {
		max = 0
	}
	return &Budget{max: max}
}

// Spend consumes one step and returns an error if the budget was already exhausted.
func (b *Budget) Spend() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("%w: %d steps", ErrBudgetExhausted, b.max)
	}

	b.used++

	return nil
}

// Used returns the number of steps spent.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.used
}

// Remaining returns how many steps are left before hitting the limit.
func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max == 0 {
		return -1 // unlimited
	}

	return b.max - b.used
}

// Exhausted reports whether no step is left.
func (b *Budget) Exhausted() bool { return b.Remaining() == 0 }

package sim

import (
	"context"
	"fmt"
	"sync"

	"econsim/core"
	"econsim/internal/util"
)

// Compute is a volatile core.Compute implementation metering a prepaid pool
// of compute hours. Consuming more than the remaining pool drains it to zero
// rather than failing, matching the time-decaying resource semantics.
type Compute struct {
	mu          sync.Mutex
	hours       float64
	costPerHour float64
}

// NewCompute constructs a meter with the given prepaid hours.
func NewCompute(hours, costPerHour float64) *Compute {
	return &Compute{hours: hours, costPerHour: costPerHour}
}

// Status implements core.Compute.
func (c *Compute) Status(_ context.Context) (core.ComputeStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.ComputeStatus{HoursRemaining: c.hours, CostPerHour: c.costPerHour}, nil
}

// ConsumeTime implements core.Compute.
func (c *Compute) ConsumeTime(_ context.Context, hours float64) error {
	if hours < 0 {
		return fmt.Errorf("sim: negative consume request %.2f", hours)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hours = util.ClampNonNegative(c.hours - hours)
	return nil
}

// AddFunds implements core.Compute converting money into hours at the
// configured rate.
func (c *Compute) AddFunds(_ context.Context, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("sim: negative funding amount %.2f", amount)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.costPerHour > 0 {
		c.hours += amount / c.costPerHour
	}
	return nil
}

package doctor

import (
	"context"
	"fmt"
	"time"
)

// CountFunc fetches the node list once and returns how many nodes it holds.
type CountFunc func(ctx context.Context) (int, error)

// DashboardCheck fetches the node list the way the dashboard view does.
type DashboardCheck struct {
	Address string
	Count   CountFunc
	Timeout time.Duration
}

func (c *DashboardCheck) Name() string     { return "dashboard_nodes" }
func (c *DashboardCheck) Category() string { return CategoryDashboard }

func (c *DashboardCheck) Run(ctx context.Context) CheckResult {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := c.Count(ctx)
	if err != nil {
		return failFromError(c.Name(), err, "Make sure the cluster is up and the dashboard port is reachable (default 8265)")
	}

	latency := time.Since(start).Round(time.Millisecond)
	if n == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s answered in %s but reported no nodes", c.Address, latency),
			Suggestion: "The cluster may still be starting",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s reported %d node%s in %s", c.Address, n, pluralize(n), latency),
	}
}

func (c *DashboardCheck) Fix() error {
	return nil
}

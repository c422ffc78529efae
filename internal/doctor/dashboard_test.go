package doctor

import (
	"context"
	"testing"
	"time"

	"github.com/rileyhilliard/raytop/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestDashboardCheck(t *testing.T) {
	ctx := context.Background()
	count := func(n int, err error) CountFunc {
		return func(context.Context) (int, error) { return n, err }
	}

	r := (&DashboardCheck{Address: "http://head:8265", Count: count(3, nil)}).Run(ctx)
	assert.Equal(t, StatusPass, r.Status)
	assert.Contains(t, r.Message, "http://head:8265 reported 3 nodes in")

	r = (&DashboardCheck{Address: "http://head:8265", Count: count(0, nil)}).Run(ctx)
	assert.Equal(t, StatusWarn, r.Status)
	assert.Contains(t, r.Message, "reported no nodes")

	apiErr := errors.New(errors.ErrAPI, "Dashboard returned 404 Not Found for /nodes", "Is the address pointing at the cluster dashboard?")
	r = (&DashboardCheck{Address: "http://head:8265", Count: count(0, apiErr)}).Run(ctx)
	assert.Equal(t, StatusFail, r.Status)
	assert.Equal(t, "Dashboard returned 404 Not Found for /nodes", r.Message)
	assert.Equal(t, "Is the address pointing at the cluster dashboard?", r.Suggestion)
}

func TestDashboardCheck_Timeout(t *testing.T) {
	check := &DashboardCheck{
		Address: "http://head:8265",
		Timeout: 20 * time.Millisecond,
		Count: func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	}

	r := check.Run(context.Background())
	assert.Equal(t, StatusFail, r.Status)
	assert.Contains(t, r.Message, "deadline exceeded")
	assert.Contains(t, r.Suggestion, "8265")
}

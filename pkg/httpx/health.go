package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient, events.Bus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the set of dependencies to check in the health endpoint.
// A nil Redis checker means the cache is disabled and is reported as such.
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
}

const (
	componentOK          = "ok"
	componentUnreachable = "unreachable"
	componentDisabled    = "disabled"

	checkTimeout = 2 * time.Second
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	EventBus string `json:"event_bus"`
}

// HealthHandler returns an http.HandlerFunc that checks all registered
// HealthCheckers and reports degraded status if any of them fail.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := healthResponse{
			Database: check(ctx, checks.Database),
			Redis:    check(ctx, checks.Redis),
			EventBus: check(ctx, checks.EventBus),
		}

		resp.Status = "ok"
		status := http.StatusOK
		for _, c := range []string{resp.Database, resp.Redis, resp.EventBus} {
			if c == componentUnreachable {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, resp)
	}
}

// LivenessHandler reports that the process is serving requests without checking dependencies.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func check(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return componentDisabled
	}
	if err := c.Ping(ctx); err != nil {
		return componentUnreachable
	}
	return componentOK
}

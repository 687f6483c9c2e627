// Package ports defines the interfaces between the application core and
// its adapters. Implementations live under adapters/.
package ports

import (
	"context"
	"time"

	"github.com/cosmozoom/tilegate/domain/tile"
)

// Clock abstracts time for testability. Date validation depends on the
// current UTC calendar date, so tests inject a fixed clock.
type Clock interface {
	Now() time.Time
}

// Fetcher performs the single outbound GET for one tile. The timeout is
// profile-scoped and enforced even if the upstream never closes the
// connection; cancellation of ctx (client disconnect) aborts the fetch.
// Fetchers never retry: one GET per request is the cost model.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) tile.Outcome
}

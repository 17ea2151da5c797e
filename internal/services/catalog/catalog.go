// Package catalog fetches and maintains the pool catalog the advisor
// allocates against. Sources produce flat pool records from protocol
// APIs or local files; the refresher keeps a cached copy up to date.
package catalog

import (
	"context"

	"github.com/unwraplabs/tyrion/internal/domain"
)

// Source produces the current pool catalog.
type Source interface {
	Pools(ctx context.Context) ([]domain.PoolRecord, error)
}

package database

import (
	"context"
	"io"

	"github.com/openswoop/hooscheds/pkg/catalog"
)

// Sink is the store the import replaces. Implementations must be safe for
// concurrent use.
type Sink interface {
	io.Closer
	// Clear deletes every row of a table and reports how many went.
	Clear(ctx context.Context, table string) (int64, error)
	Insert(ctx context.Context, row catalog.Row) error
}

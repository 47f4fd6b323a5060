// Package directory provides read-only access to the user table backing
// the demo: either a fixed in-memory list or a remote spreadsheet read
// over HTTP. Rows are never written back.
package directory

import (
	"context"

	"bank-demo/internal/model"
)

type Directory interface {
	// FetchAll returns every row of the user table. Failures to reach a
	// remote table wrap model.ErrDirectoryUnavailable.
	FetchAll(ctx context.Context) ([]model.DirectoryEntry, error)
}

package directory

import (
	"context"

	"bank-demo/internal/model"
)

// StaticDirectory serves a fixed user table from memory. It is the
// fallback when no remote sheet is configured.
type StaticDirectory struct {
	entries []model.DirectoryEntry
}

func NewStaticDirectory(entries []model.DirectoryEntry) *StaticDirectory {
	copied := make([]model.DirectoryEntry, len(entries))
	copy(copied, entries)
	return &StaticDirectory{entries: copied}
}

// NewDemoDirectory returns the built-in demo user table.
func NewDemoDirectory() *StaticDirectory {
	return NewStaticDirectory([]model.DirectoryEntry{
		{Username: "demo", Password: "demo", Balance: "5000.00", AccountName: "Demo User"},
		{Username: "test", Password: "test", Balance: "2500.50", AccountName: "Test User"},
		{Username: "admin", Password: "admin", Balance: "10000.00", AccountName: "Administrator"},
	})
}

func (d *StaticDirectory) FetchAll(ctx context.Context) ([]model.DirectoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]model.DirectoryEntry, len(d.entries))
	copy(out, d.entries)
	return out, nil
}

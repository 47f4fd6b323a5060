package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDemoDirectoryRows(t *testing.T) {
	t.Parallel()

	entries, err := NewDemoDirectory().FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "demo", entries[0].Username)
	require.Equal(t, "5000.00", entries[0].Balance)
	require.Equal(t, "Test User", entries[1].AccountName)
}

func TestStaticDirectoryReturnsCopies(t *testing.T) {
	t.Parallel()

	dir := NewDemoDirectory()

	first, err := dir.FetchAll(context.Background())
	require.NoError(t, err)
	first[0].Balance = "tampered"

	second, err := dir.FetchAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, "5000.00", second[0].Balance)
}

func TestStaticDirectoryRespectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDemoDirectory().FetchAll(ctx)
	require.Error(t, err)
}

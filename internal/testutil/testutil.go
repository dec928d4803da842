package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replaylens/replaylens/internal/store"
)

// NewTestStore creates an in-memory report archive with all migrations
// applied.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	return st
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

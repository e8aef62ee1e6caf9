package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telar/internal/order/saga/sagalog"
)

func openTestLog(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "saga.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepository_AppendAndFindBySagaID(t *testing.T) {
	repo := openTestLog(t)
	ctx := context.Background()

	entries := []sagalog.Entry{
		{SagaID: "saga-1", Status: sagalog.StatusStarted},
		{SagaID: "saga-1", Status: sagalog.StatusStepDone, CurrentStep: "create_order_header"},
		{SagaID: "saga-1", Status: sagalog.StatusCompleted},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Append(ctx, entry))
	}

	found, err := repo.FindBySagaID(ctx, "saga-1")
	require.NoError(t, err)
	require.Len(t, found, 3)

	// Insertion order is preserved.
	assert.Equal(t, sagalog.StatusStarted, found[0].Status)
	assert.Equal(t, sagalog.StatusStepDone, found[1].Status)
	assert.Equal(t, "create_order_header", found[1].CurrentStep)
	assert.Equal(t, sagalog.StatusCompleted, found[2].Status)

	for _, entry := range found {
		assert.Equal(t, "saga-1", entry.SagaID)
		assert.False(t, entry.UpdatedAt.IsZero())
	}
}

func TestRepository_FindBySagaID_FiltersOtherSagas(t *testing.T) {
	repo := openTestLog(t)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, sagalog.Entry{SagaID: "saga-1", Status: sagalog.StatusStarted}))
	require.NoError(t, repo.Append(ctx, sagalog.Entry{SagaID: "saga-2", Status: sagalog.StatusStarted}))

	found, err := repo.FindBySagaID(ctx, "saga-1")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "saga-1", found[0].SagaID)
}

func TestRepository_FindBySagaID_Unknown(t *testing.T) {
	repo := openTestLog(t)

	found, err := repo.FindBySagaID(context.Background(), "no-such-saga")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRepository_Append_PreservesErrorAndTimestamp(t *testing.T) {
	repo := openTestLog(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, repo.Append(ctx, sagalog.Entry{
		SagaID:      "saga-3",
		Status:      sagalog.StatusFailed,
		CurrentStep: "decrement_stock",
		ErrorMsg:    "insufficient stock for product 2",
		UpdatedAt:   at,
	}))

	found, err := repo.FindBySagaID(ctx, "saga-3")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, sagalog.StatusFailed, found[0].Status)
	assert.Equal(t, "decrement_stock", found[0].CurrentStep)
	assert.Equal(t, "insufficient stock for product 2", found[0].ErrorMsg)
	assert.True(t, found[0].UpdatedAt.Equal(at))
}

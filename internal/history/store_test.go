package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"circuitsight/apimodels"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, &apimodels.AnalysisResponse{
		ID:      "first",
		Success: true,
		Analysis: &apimodels.CircuitAnalysis{
			CircuitType:     "RC Circuit",
			Solution:        "tau = 10ms",
			ConfidenceLevel: 0.9,
		},
		ProcessingTime: 2.5,
	})
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	err = store.Save(ctx, &apimodels.AnalysisResponse{
		ID:             "second",
		Success:        false,
		ErrorMessage:   "model unavailable",
		ProcessingTime: 0.1,
	})
	assert.NoError(t, err)

	records, err := store.Recent(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	// newest first
	assert.Equal(t, "second", records[0].ID)
	assert.False(t, records[0].Success)
	assert.Equal(t, "model unavailable", records[0].ErrorMessage)

	assert.Equal(t, "first", records[1].ID)
	assert.True(t, records[1].Success)
	assert.Equal(t, "RC Circuit", records[1].CircuitType)
	assert.Equal(t, "tau = 10ms", records[1].Solution)
	assert.InDelta(t, 0.9, records[1].Confidence, 1e-9)
	assert.False(t, records[1].CreatedAt.IsZero())
}

func TestRecentHonorsLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := store.Save(ctx, &apimodels.AnalysisResponse{
			ID:      string(rune('a' + i)),
			Success: true,
		})
		assert.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	records, err := store.Recent(ctx, 3)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestRecentOnEmptyStore(t *testing.T) {
	store := openTestStore(t)

	records, err := store.Recent(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, records)
}

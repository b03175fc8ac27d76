package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessor_Process(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("Sequential", func(t *testing.T) {
		p, err := NewProcessor[int](10)
		require.NoError(t, err)

		var seen [][]int
		var indexes []int
		callback := func(_ context.Context, batch []int, batchIndex int) error {
			seen = append(seen, append([]int(nil), batch...))
			indexes = append(indexes, batchIndex)
			return nil
		}

		require.NoError(t, p.Process(context.Background(), items, callback))
		require.Len(t, seen, 3)
		assert.Equal(t, []int{0, 1, 2}, indexes)
		assert.Equal(t, items[0:10], seen[0])
		assert.Equal(t, items[10:20], seen[1])
		assert.Equal(t, items[20:25], seen[2])
	})

	t.Run("BatchSizeOne", func(t *testing.T) {
		p, err := NewProcessor[int](1)
		require.NoError(t, err)

		var batches int
		err = p.Process(context.Background(), items[:4], func(_ context.Context, batch []int, _ int) error {
			assert.Len(t, batch, 1)
			batches++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 4, batches)
	})

	t.Run("ErrorHandling", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		var calls int
		callback := func(_ context.Context, _ []int, batchIndex int) error {
			calls++
			if batchIndex == 1 {
				return errors.New("fail")
			}
			return nil
		}

		err := p.Process(context.Background(), items, callback)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch 1 failed")
		assert.Equal(t, 2, calls, "processing stops at the first failing batch")
	})

	t.Run("Cancelled", func(t *testing.T) {
		p, _ := NewProcessor[int](10)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := p.Process(ctx, items, func(context.Context, []int, int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		p, _ := NewProcessor[int](DefaultBatchSize)
		err := p.Process(context.Background(), nil, nil)
		assert.Equal(t, ErrEmptyItems, err)
	})

	t.Run("NilCallback", func(t *testing.T) {
		p, _ := NewProcessor[int](DefaultBatchSize)
		err := p.Process(context.Background(), items, nil)
		assert.Equal(t, ErrNilCallback, err)
	})

	t.Run("InvalidBatchSize", func(t *testing.T) {
		_, err := NewProcessor[int](0)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
		_, err = NewProcessor[int](-5)
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})
}

func TestProcessor_ProgressCallback(t *testing.T) {
	items := make([]string, 11)
	p, err := NewProcessor[string](10)
	require.NoError(t, err)

	var snaps []ProgressSnapshot
	p.WithProgressCallback(func(progress *Progress) {
		snaps = append(snaps, progress.Snapshot())
	})

	require.NoError(t, p.Process(context.Background(), items, func(context.Context, []string, int) error {
		return nil
	}))

	require.Len(t, snaps, 2)
	assert.Equal(t, 10, snaps[0].ProcessedItems)
	assert.Equal(t, 1, snaps[0].ProcessedBatches)
	assert.Equal(t, 11, snaps[1].ProcessedItems)
	assert.Equal(t, 2, snaps[1].TotalBatches)
	assert.InDelta(t, 100.0, snaps[1].PercentComplete, 0.001)
}

func TestProgress(t *testing.T) {
	p := NewProgress(100, 10, 10)

	assert.Equal(t, 0.0, p.PercentComplete())
	assert.False(t, p.IsComplete())

	p.AddProcessed(10)
	assert.Equal(t, 10.0, p.PercentComplete())
	assert.Equal(t, 10, p.ProcessedItems)
	assert.Equal(t, 1, p.ProcessedBatches)

	p.AddProcessed(90)
	assert.Equal(t, 100.0, p.PercentComplete())
	assert.True(t, p.IsComplete())
	assert.GreaterOrEqual(t, p.ElapsedTime().Nanoseconds(), int64(0))

	snap := p.Snapshot()
	assert.Equal(t, p.TotalItems, snap.TotalItems)
	assert.Equal(t, p.ProcessedItems, snap.ProcessedItems)
	assert.Equal(t, 10, snap.BatchSize)
}

func TestProgress_ZeroItems(t *testing.T) {
	p := NewProgress(0, 0, 10)
	assert.Equal(t, 0.0, p.PercentComplete())
	assert.True(t, p.IsComplete())
}

func TestProcessor_CalculateBatches(t *testing.T) {
	p, _ := NewProcessor[int](10)
	batches := p.CalculateBatches(25)
	require.Len(t, batches, 3)
	assert.Equal(t, [2]int{0, 10}, batches[0])
	assert.Equal(t, [2]int{10, 20}, batches[1])
	assert.Equal(t, [2]int{20, 25}, batches[2])
	assert.Equal(t, 10, p.GetBatchSize())

	assert.Empty(t, p.CalculateBatches(0))
	assert.Equal(t, [][2]int{{0, 10}}, p.CalculateBatches(10))
}

func TestProcessor_BatchIndex(t *testing.T) {
	p, _ := NewProcessor[int](10)
	assert.Equal(t, 0, p.BatchIndex(0))
	assert.Equal(t, 0, p.BatchIndex(9))
	assert.Equal(t, 1, p.BatchIndex(10))
	assert.Equal(t, 2, p.BatchIndex(25))
}

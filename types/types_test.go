package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeights_Total(t *testing.T) {
	t.Run("sums all weights", func(t *testing.T) {
		w := Weights{"control": 50, "treatment": 30, "holdout": 20}
		require.Equal(t, uint64(100), w.Total())
	})

	t.Run("does not require a sum of 100", func(t *testing.T) {
		w := Weights{"a": 1, "b": 2}
		require.Equal(t, uint64(3), w.Total())
	})

	t.Run("empty table totals zero", func(t *testing.T) {
		require.Equal(t, uint64(0), Weights{}.Total())
	})
}

func TestWeights_Variants(t *testing.T) {
	w := Weights{"zebra": 10, "alpha": 10, "mid": 10}

	// Canonical order is lexicographic regardless of map iteration order.
	for range 10 {
		require.Equal(t, []string{"alpha", "mid", "zebra"}, w.Variants())
	}
}

func TestWeights_Validate(t *testing.T) {
	t.Run("accepts a usable table", func(t *testing.T) {
		require.NoError(t, Weights{"true": 50, "false": 50}.Validate())
	})

	t.Run("accepts zero-weight variants alongside positive ones", func(t *testing.T) {
		require.NoError(t, Weights{"off": 0, "on": 100}.Validate())
	})

	t.Run("rejects empty table", func(t *testing.T) {
		err := Weights{}.Validate()
		require.ErrorIs(t, err, ErrInvalidWeights)
	})

	t.Run("rejects zero total weight", func(t *testing.T) {
		err := Weights{"a": 0, "b": 0}.Validate()
		require.ErrorIs(t, err, ErrInvalidWeights)
	})
}

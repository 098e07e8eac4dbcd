package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noveng05/splits/registry"
	"github.com/noveng05/splits/types"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()

	t.Run("serves the configured splits", func(t *testing.T) {
		client := registry.NewStatic(types.SplitRegistry{
			"blue_button": {"false": 50, "true": 50},
		})

		got, err := client.FetchSplitRegistry(ctx)
		require.NoError(t, err)
		require.Equal(t, types.SplitRegistry{
			"blue_button": {"false": 50, "true": 50},
		}, got)
	})

	t.Run("returns copies", func(t *testing.T) {
		client := registry.NewStatic(types.SplitRegistry{
			"blue_button": {"false": 50, "true": 50},
		})

		got, err := client.FetchSplitRegistry(ctx)
		require.NoError(t, err)
		got["blue_button"]["true"] = 0

		again, err := client.FetchSplitRegistry(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(50), again["blue_button"]["true"])
	})

	t.Run("unknown visitor has an empty registry", func(t *testing.T) {
		client := registry.NewStatic(types.SplitRegistry{})

		got, err := client.FetchAssignmentRegistry(ctx, "nobody")
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("serves per-visitor assignments", func(t *testing.T) {
		client := registry.NewStatic(types.SplitRegistry{})
		client.SetAssignments("visitor-1", types.AssignmentRegistry{"blue_button": "true"})

		got, err := client.FetchAssignmentRegistry(ctx, "visitor-1")
		require.NoError(t, err)
		require.Equal(t, types.AssignmentRegistry{"blue_button": "true"}, got)
	})

	t.Run("update splits replaces the registry", func(t *testing.T) {
		client := registry.NewStatic(types.SplitRegistry{
			"blue_button": {"false": 50, "true": 50},
		})
		client.UpdateSplits(types.SplitRegistry{
			"checkout_flow": {"classic": 100},
		})

		got, err := client.FetchSplitRegistry(ctx)
		require.NoError(t, err)
		require.NotContains(t, got, "blue_button")
		require.Contains(t, got, "checkout_flow")
	})
}

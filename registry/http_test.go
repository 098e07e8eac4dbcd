package registry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noveng05/splits/registry"
	splitstesting "github.com/noveng05/splits/testing"
	"github.com/noveng05/splits/types"
)

func TestHTTPFetchSplitRegistry(t *testing.T) {
	srv := splitstesting.StartRegistryServer(t, types.SplitRegistry{
		"blue_button":   {"false": 50, "true": 50},
		"checkout_flow": {"classic": 75, "one_page": 25},
	})
	client := registry.NewHTTP(srv.URL())

	got, err := client.FetchSplitRegistry(context.Background())
	require.NoError(t, err)
	require.Equal(t, types.SplitRegistry{
		"blue_button":   {"false": 50, "true": 50},
		"checkout_flow": {"classic": 75, "one_page": 25},
	}, got)
}

func TestHTTPFetchAssignmentRegistry(t *testing.T) {
	srv := splitstesting.StartRegistryServer(t, types.SplitRegistry{})
	srv.SetAssignments("visitor-1", types.AssignmentRegistry{"blue_button": "true"})
	client := registry.NewHTTP(srv.URL())

	t.Run("known visitor", func(t *testing.T) {
		got, err := client.FetchAssignmentRegistry(context.Background(), "visitor-1")
		require.NoError(t, err)
		require.Equal(t, types.AssignmentRegistry{"blue_button": "true"}, got)
	})

	t.Run("unknown visitor gets an empty registry", func(t *testing.T) {
		got, err := client.FetchAssignmentRegistry(context.Background(), "nobody")
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestHTTPCreateIdentifier(t *testing.T) {
	srv := splitstesting.StartRegistryServer(t, types.SplitRegistry{})
	srv.SetIdentity("user-42", types.IdentifierResult{
		ID:          "canonical-id",
		Assignments: types.AssignmentRegistry{"blue_button": "true"},
	})
	client := registry.NewHTTP(srv.URL())

	result, err := client.CreateIdentifier(context.Background(), "myapp_user_id", "visitor-1", "user-42")
	require.NoError(t, err)
	require.Equal(t, "canonical-id", result.ID)
	require.Equal(t, types.AssignmentRegistry{"blue_button": "true"}, result.Assignments)

	calls := srv.IdentifierCalls()
	require.Len(t, calls, 1)
	require.Equal(t, "myapp_user_id", calls[0].IdentifierType)
	require.Equal(t, "visitor-1", calls[0].VisitorID)
	require.Equal(t, "user-42", calls[0].Value)
}

func TestHTTPErrors(t *testing.T) {
	t.Run("unreachable endpoint", func(t *testing.T) {
		client := registry.NewHTTP("http://127.0.0.1:1")

		_, err := client.FetchSplitRegistry(context.Background())
		require.Error(t, err)
	})

	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		client := registry.NewHTTP(srv.URL)
		_, err := client.FetchSplitRegistry(context.Background())
		require.ErrorContains(t, err, "unexpected status 500")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		t.Cleanup(srv.Close)

		client := registry.NewHTTP(srv.URL)
		_, err := client.FetchSplitRegistry(context.Background())
		require.ErrorContains(t, err, "decode response")
	})

	t.Run("cancelled context", func(t *testing.T) {
		srv := splitstesting.StartRegistryServer(t, types.SplitRegistry{})
		client := registry.NewHTTP(srv.URL())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.FetchSplitRegistry(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

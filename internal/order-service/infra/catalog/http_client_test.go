package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
)

func TestValidateProducts(t *testing.T) {
	var gotIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/products/validate", r.URL.Path)

		var req validateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotIDs = req.IDs

		_ = json.NewEncoder(w).Encode([]domain.Product{
			{ID: "P1", Name: "First", Price: 10},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 2*time.Second, nil)
	products, err := client.ValidateProducts(context.Background(), []string{"P1", "missing"})
	require.NoError(t, err)

	assert.Equal(t, []string{"P1", "missing"}, gotIDs)
	require.Len(t, products, 1)
	assert.Equal(t, "First", products[0].Name)
}

func TestValidateProducts_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 2*time.Second, nil)
	_, err := client.ValidateProducts(context.Background(), []string{"P1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindRemoteUnavailable, domain.KindOf(err))
}

func TestValidateProducts_Unreachable(t *testing.T) {
	// Closed port: the dial fails immediately.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, time.Second, nil)
	_, err := client.ValidateProducts(context.Background(), []string{"P1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindRemoteUnavailable, domain.KindOf(err))
}

func TestValidateProducts_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client := NewHTTPClient(server.URL, 50*time.Millisecond, nil)
	start := time.Now()
	_, err := client.ValidateProducts(context.Background(), []string{"P1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindRemoteUnavailable, domain.KindOf(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNoop_AcceptsEverything(t *testing.T) {
	products, err := NewNoop().ValidateProducts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.Zero(t, products[0].Price)
}

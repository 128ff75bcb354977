package erpclient

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mietwerk/mietwerk-go/erptest"
	"github.com/mietwerk/mietwerk-go/respcache"
)

type listResult struct {
	Data []map[string]any `json:"data"`
}

func newTestClient(t *testing.T, store *respcache.Memory, opts ...ClientOption) (*Client, *erptest.Server) {
	t.Helper()
	server := erptest.New()
	t.Cleanup(server.Close)

	base := []ClientOption{WithBaseURL(server.BaseURL())}
	if store != nil {
		base = append(base, WithCache(store))
	}
	return New(append(base, opts...)...), server
}

func TestGetServesSecondReadFromCache(t *testing.T) {
	store := respcache.NewMemory()
	client, server := newTestClient(t, store)

	var first listResult
	resp, err := client.Get(context.Background(), "/api/v1/properties", nil, &first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FromCache {
		t.Fatalf("first read must come from the network")
	}
	if len(first.Data) == 0 {
		t.Fatalf("expected fixture rows")
	}

	var second listResult
	resp, err = client.Get(context.Background(), "/api/v1/properties", nil, &second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.FromCache {
		t.Fatalf("second read must come from the cache")
	}
	if server.Hits("/api/v1/properties") != 1 {
		t.Fatalf("expected a single network call, got %d", server.Hits("/api/v1/properties"))
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("cached payload differs from live payload: %s vs %s", a, b)
	}
}

func TestGetParamOrderSharesEntry(t *testing.T) {
	store := respcache.NewMemory()
	client, server := newTestClient(t, store)

	if _, err := client.Get(context.Background(), "/api/v1/invoices", map[string]string{"page": "1", "status": "open"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := client.Get(context.Background(), "/api/v1/invoices", map[string]string{"status": "open", "page": "1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.FromCache {
		t.Fatalf("reordered params must hit the same entry")
	}
	if server.Hits("/api/v1/invoices") != 1 {
		t.Fatalf("expected a single network call, got %d", server.Hits("/api/v1/invoices"))
	}
}

func TestUncacheablePathBypassesCache(t *testing.T) {
	store := respcache.NewMemory()
	policy := respcache.TTLPolicy{
		Rules:   []respcache.TTLRule{{PathPrefix: "/api/v1/properties"}},
		Default: 5 * time.Minute,
	}
	client, server := newTestClient(t, store, WithPolicy(policy))

	for i := 0; i < 2; i++ {
		if _, err := client.Get(context.Background(), "/api/v1/dashboard/stats", nil, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if server.Hits("/api/v1/dashboard/stats") != 2 {
		t.Fatalf("uncacheable path must always hit the network")
	}
	if store.Len() != 0 {
		t.Fatalf("uncacheable responses must not be stored")
	}
}

func TestAuthFailureFlushesCache(t *testing.T) {
	store := respcache.NewMemory()
	store.Set("/api/v1/properties", nil, json.RawMessage(`{"data":[]}`), time.Minute)
	store.Set("/api/v1/tenants", nil, json.RawMessage(`{"data":[]}`), time.Minute)

	server := erptest.New(erptest.WithToken("secret"))
	defer server.Close()
	client := New(WithBaseURL(server.BaseURL()), WithCache(store), WithToken("stale-token"))

	_, err := client.Get(context.Background(), "/api/v1/users/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("401 must flush every cached entry, %d remain", store.Len())
	}
}

func TestBearerTokenAttached(t *testing.T) {
	server := erptest.New(erptest.WithToken("secret"))
	defer server.Close()
	client := New(WithBaseURL(server.BaseURL()))
	client.SetToken("secret")

	var me map[string]any
	if _, err := client.Get(context.Background(), "/api/v1/users/me", nil, &me); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if me["id"] != "usr-1" {
		t.Fatalf("unexpected user payload: %#v", me)
	}
}

func TestMutationInvalidatesAffectedReads(t *testing.T) {
	store := respcache.NewMemory()
	client, server := newTestClient(t, store)

	var before listResult
	if _, err := client.Get(context.Background(), "/api/v1/invoices", nil, &before); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invoice := map[string]any{"id": "inv-3", "status": "open", "amount": 99.0}
	if _, err := client.Post(context.Background(), "/api/v1/invoices", invoice, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var after listResult
	resp, err := client.Get(context.Background(), "/api/v1/invoices", nil, &after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.FromCache {
		t.Fatalf("mutation must have invalidated the cached list")
	}
	if server.Hits("/api/v1/invoices") != 2 {
		t.Fatalf("expected a refetch after the mutation, got %d hits", server.Hits("/api/v1/invoices"))
	}
	if len(after.Data) != len(before.Data)+1 {
		t.Fatalf("expected the new invoice in the refetched list")
	}
}

func TestManualInvalidate(t *testing.T) {
	store := respcache.NewMemory()
	client, server := newTestClient(t, store)

	if _, err := client.Get(context.Background(), "/api/v1/tenants", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed := client.InvalidateCache("/api/v1/tenants"); removed != 1 {
		t.Fatalf("expected 1 invalidated entry, got %d", removed)
	}
	if _, err := client.Get(context.Background(), "/api/v1/tenants", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server.Hits("/api/v1/tenants") != 2 {
		t.Fatalf("expected a refetch after manual invalidation")
	}
}

func TestTransportFailure(t *testing.T) {
	client := New(WithBaseURL("http://127.0.0.1:1"), WithTimeout(time.Second))

	_, err := client.Get(context.Background(), "/api/v1/properties", nil, nil)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestAPIErrorCarriesStatus(t *testing.T) {
	client, _ := newTestClient(t, nil)

	_, err := client.Delete(context.Background(), "/api/v1/invoices/does-not-exist", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != 404 {
		t.Fatalf("expected status 404, got %d", apiErr.Status)
	}
	if apiErr.RequestID == "" {
		t.Fatalf("expected a request id on the error")
	}
}

func TestContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/api/v1/properties", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrUnreachable) {
		t.Fatalf("cancellation must not masquerade as a transport failure")
	}
}

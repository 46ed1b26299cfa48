//go:build integration

package integration_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/restadmin/internal/client"
	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

// TestIntegration_HealthEndpointAccessible verifies that GET /health
// returns HTTP 200 with a healthy status.
func TestIntegration_HealthEndpointAccessible(t *testing.T) {
	t.Parallel()

	base := serverURL()
	skipIfServiceUnavailable(t, base+"/health")

	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Expected status healthy, got %q", health.Status)
	}
}

// TestIntegration_ProductLifecycle creates, edits and deletes a product
// through the API client.
func TestIntegration_ProductLifecycle(t *testing.T) {
	c := newClient(t)
	ctx := testContext(t)
	title := uniqueName("product")

	created, err := c.Products().Create(ctx, model.ProductDraft{Title: title, Images: "https://img.example/p.png", Price: 10})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID <= 0 || created.Title != title {
		t.Fatalf("created = %+v", created)
	}
	t.Cleanup(func() { _ = c.Products().Delete(ctx, created.ID) })

	fetched, err := c.Products().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *fetched != *created {
		t.Errorf("Get() = %+v, want %+v", fetched, created)
	}

	draft := created.Draft()
	draft.Price = 12.5
	updated, err := c.Products().Update(ctx, draft.WithID(created.ID))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Price != 12.5 {
		t.Errorf("updated price = %v, want 12.5", updated.Price)
	}

	if err := c.Products().Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err = c.Products().Get(ctx, created.ID)
	var apiErr *client.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("Get() after delete error = %v, want 404", err)
	}
}

// TestIntegration_ProductStoreReconciles checks that a fetch after a write
// shows the server's view.
func TestIntegration_ProductStoreReconciles(t *testing.T) {
	c := newClient(t)
	ctx := testContext(t)

	products, err := store.NewResourceStore[model.Product, model.ProductDraft]("products", c.Products(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewResourceStore() error = %v", err)
	}

	created, err := products.Create(ctx, model.ProductDraft{Title: uniqueName("store"), Images: "x", Price: 1})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Products().Delete(ctx, created.ID) })

	if err := products.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	found := false
	for _, p := range products.State().Items {
		if p.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("created product %d missing after Fetch", created.ID)
	}
}

// TestIntegration_UserPaginationHeaders verifies the json-server paging
// contract of GET /users.
func TestIntegration_UserPaginationHeaders(t *testing.T) {
	c := newClient(t)
	ctx := testContext(t)

	var ids []int
	for i := 0; i < 3; i++ {
		u, err := c.Users().Create(ctx, model.UserDraft{
			FirstName: "Integration", LastName: uniqueName("user"),
			Email: "integration@example.com", Username: "integration", Phone: "555",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, u.ID)
	}
	t.Cleanup(func() {
		for _, id := range ids {
			_ = c.Users().Delete(ctx, id)
		}
	})

	page, err := c.Users().ListPage(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListPage() error = %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("page items = %d, want 2", len(page.Items))
	}
	if page.Total < 3 {
		t.Errorf("total = %d, want at least 3", page.Total)
	}

	resp, err := http.Get(serverURL() + "/users?_page=1&_limit=2")
	if err != nil {
		t.Fatalf("GET /users error = %v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.Header.Get("X-Total-Count") == "" {
		t.Error("X-Total-Count header missing")
	}
}

// TestIntegration_ValidationRejected verifies that invalid payloads are
// answered with 400 and a message.
func TestIntegration_ValidationRejected(t *testing.T) {
	c := newClient(t)
	ctx := testContext(t)

	_, err := c.Users().Create(ctx, model.UserDraft{
		FirstName: "A", LastName: "B", Email: "not-an-email", Username: "u", Phone: "1",
	})

	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *client.Error", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || !strings.Contains(apiErr.Message, "email") {
		t.Errorf("error = %+v, want 400 mentioning email", apiErr)
	}
}

// TestIntegration_CORSPreflight verifies that browsers may call the API
// from another origin.
func TestIntegration_CORSPreflight(t *testing.T) {
	t.Parallel()

	base := serverURL()
	skipIfServiceUnavailable(t, base+"/health")

	req, err := http.NewRequest(http.MethodOptions, base+"/users/1", nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodDelete)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS error = %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("Access-Control-Allow-Origin header missing")
	}
}

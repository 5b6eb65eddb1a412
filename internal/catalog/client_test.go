package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestClient_QueryOrder(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
		want string
	}{
		{
			"all filters in fixed order",
			func() error { _, err := c.Items(ctx, "survivor", "power", "flashlight"); return err },
			"role=survivor&type=power&item_type=flashlight",
		},
		{
			"absent filters omitted",
			func() error { _, err := c.Items(ctx, "", "power", ""); return err },
			"type=power",
		},
		{
			"no filters no query",
			func() error { _, err := c.Perks(ctx, ""); return err },
			"",
		},
		{
			"addons role and item_type",
			func() error { _, err := c.Addons(ctx, "survivor", "medkit"); return err },
			"role=survivor&item_type=medkit",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotQuery != tt.want {
				t.Errorf("query = %q, want %q", gotQuery, tt.want)
			}
		})
	}
}

func TestClient_Characters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/characters" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.RawQuery; got != "role=survivor" {
			t.Errorf("query = %q, want role=survivor", got)
		}
		w.Write([]byte(`[{"id":1,"name":"Dwight","story":"<b>Hi</b>"}]`))
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	chars, err := c.Characters(context.Background(), "survivor")
	if err != nil {
		t.Fatalf("Characters: %v", err)
	}
	if len(chars) != 1 || chars[0].Name != "Dwight" {
		t.Errorf("unexpected characters: %+v", chars)
	}
	if chars[0].ID.String() != "1" {
		t.Errorf("id = %q, want 1", chars[0].ID)
	}
}

func TestClient_ItemsOrderedByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"zeta":  {"item_type":"medkit","name":"Z","rarity":"common"},
			"alpha": {"item_type":"medkit","name":"A","rarity":"common"}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	items, err := c.Items(context.Background(), "survivor", "", "")
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 2 || items[0].Name != "A" || items[1].Name != "Z" {
		t.Errorf("expected id-ordered items, got %+v", items)
	}
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "catalog exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	_, err := c.Perks(context.Background(), "killer")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", apiErr.Status, http.StatusBadGateway)
	}
	if apiErr.Payload != "catalog exploded" {
		t.Errorf("payload = %q", apiErr.Payload)
	}
}

func TestClient_EmptyErrorBodyDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, zaptest.NewLogger(t))
	_, err := c.Characters(context.Background(), "")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Payload != "Unknown error" {
		t.Errorf("payload = %q, want default", apiErr.Payload)
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, zaptest.NewLogger(t))
	_, err := c.Characters(context.Background(), "survivor")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}
	if apiErr.Payload != "Unknown error" {
		t.Errorf("payload = %q, want default", apiErr.Payload)
	}
	if apiErr.Unwrap() == nil {
		t.Error("expected wrapped transport error")
	}
}

// Package catalog is a thin client over the upstream game-data catalog API.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"fogsmith/internal/transform"
)

// DefaultBaseURL is the public catalog endpoint.
const DefaultBaseURL = "https://dbd.tricky.lol/api"

// APIError carries the upstream status code and error payload of a failed
// catalog request. Transport failures report status 500 with the default
// payload.
type APIError struct {
	Status  int
	Payload string
	cause   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog request failed with status %d: %s", e.Status, e.Payload)
}

func (e *APIError) Unwrap() error { return e.cause }

// Client issues read-only requests against the catalog API. No retries:
// retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// New creates a catalog client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Characters fetches characters, optionally filtered by role.
func (c *Client) Characters(ctx context.Context, role string) ([]transform.Character, error) {
	var chars []transform.Character
	if err := c.get(ctx, "/characters", query(role, "", ""), &chars); err != nil {
		return nil, err
	}
	return chars, nil
}

// Items fetches items filtered by any of role, type and item_type.
// The result is ordered by catalog id.
func (c *Client) Items(ctx context.Context, role, typ, itemType string) ([]transform.CatalogItem, error) {
	byID, err := c.ItemsByID(ctx, role, typ, itemType)
	if err != nil {
		return nil, err
	}
	return sortedByID(byID), nil
}

// ItemsByID fetches items keyed by their catalog id, as needed for the
// killer power join.
func (c *Client) ItemsByID(ctx context.Context, role, typ, itemType string) (map[string]transform.CatalogItem, error) {
	var byID map[string]transform.CatalogItem
	if err := c.get(ctx, "/items", query(role, typ, itemType), &byID); err != nil {
		return nil, err
	}
	return byID, nil
}

// Addons fetches add-ons filtered by role and item_type, ordered by catalog id.
func (c *Client) Addons(ctx context.Context, role, itemType string) ([]transform.CatalogItem, error) {
	var byID map[string]transform.CatalogItem
	if err := c.get(ctx, "/addons", query(role, "", itemType), &byID); err != nil {
		return nil, err
	}
	return sortedByID(byID), nil
}

// Perks fetches perks, optionally filtered by role, ordered by catalog id.
func (c *Client) Perks(ctx context.Context, role string) ([]transform.CatalogPerk, error) {
	var byID map[string]transform.CatalogPerk
	if err := c.get(ctx, "/perks", query(role, "", ""), &byID); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(byID))
	for k := range byID {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	perks := make([]transform.CatalogPerk, 0, len(byID))
	for _, k := range keys {
		perks = append(perks, byID[k])
	}
	return perks, nil
}

// query assembles the query string with parameters in role, type, item_type
// order. Absent parameters are omitted entirely.
func query(role, typ, itemType string) string {
	var params []string
	if role != "" {
		params = append(params, "role="+url.QueryEscape(role))
	}
	if typ != "" {
		params = append(params, "type="+url.QueryEscape(typ))
	}
	if itemType != "" {
		params = append(params, "item_type="+url.QueryEscape(itemType))
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + strings.Join(params, "&")
}

func (c *Client) get(ctx context.Context, endpoint, query string, out any) error {
	u := c.baseURL + endpoint + query

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debug("catalog request", zap.String("url", u))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: http.StatusInternalServerError, Payload: "Unknown error", cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: http.StatusInternalServerError, Payload: "Unknown error", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload := strings.TrimSpace(string(body))
		if payload == "" {
			payload = "Unknown error"
		}
		return &APIError{Status: resp.StatusCode, Payload: payload}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// sortedByID flattens an id-keyed map into a slice ordered by id, so grouped
// artifacts come out deterministic run to run.
func sortedByID(byID map[string]transform.CatalogItem) []transform.CatalogItem {
	keys := make([]string, 0, len(byID))
	for k := range byID {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]transform.CatalogItem, 0, len(byID))
	for _, k := range keys {
		items = append(items, byID[k])
	}
	return items
}

package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// Client keeps one current vector per entity id in a single collection.
// Candidates and jobs share the collection and are told apart by a kind
// payload field.
type Client struct {
	baseURL    string
	collection string
	vectorSize int
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
}

func New(baseURL, collection string, vectorSize int) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		vectorSize: vectorSize,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// UpsertEntity replaces the vector for one entity id: any existing point for
// the id is deleted first, then a single fresh point is inserted. Running it
// twice with the same content leaves exactly one vector for the id. A failure
// between delete and insert leaves the entity unindexed; callers retry the
// whole upsert.
func (c *Client) UpsertEntity(ctx context.Context, snapshot domain.EntitySnapshot, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for entity %s", snapshot.EntityID)
	}
	if err := c.ensureCollection(ctx); err != nil {
		return err
	}

	if err := c.deleteByEntityID(ctx, snapshot.EntityID); err != nil {
		return err
	}

	point := map[string]any{
		"id":     uuid.NewString(),
		"vector": vector,
		"payload": map[string]any{
			"entity_id": snapshot.EntityID,
			"kind":      string(snapshot.Kind),
			"name":      snapshot.Name,
			"skills":    snapshot.Skills,
			"location":  snapshot.Location,
			"text":      snapshot.Text,
		},
	}
	reqBody := map[string]any{"points": []any{point}}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	return c.send(ctx, http.MethodPut, url, reqBody, nil, "upsert")
}

func (c *Client) deleteByEntityID(ctx context.Context, entityID string) error {
	reqBody := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "entity_id",
					"match": map[string]any{"value": entityID},
				},
			},
		},
	}
	url := fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.baseURL, c.collection)
	return c.send(ctx, http.MethodPost, url, reqBody, nil, "delete")
}

// Search returns up to limit entities of the given kind ordered by descending
// cosine similarity. Scores are returned raw; thresholding belongs to the
// caller.
func (c *Client) Search(ctx context.Context, queryVector []float32, limit int, kind domain.EntityKind) ([]domain.SemanticHit, error) {
	if err := c.ensureCollection(ctx); err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
		"filter": map[string]any{
			"must": []map[string]any{
				{
					"key":   "kind",
					"match": map[string]any{"value": string(kind)},
				},
			},
		},
	}

	var searchResp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	if err := c.send(ctx, http.MethodPost, url, reqBody, &searchResp, "search"); err != nil {
		return nil, domain.WrapError(domain.ErrIndexUnavailable, "vector search", err)
	}

	out := make([]domain.SemanticHit, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		entityID := stringPayload(r.Payload, "entity_id")
		out = append(out, domain.SemanticHit{
			EntityID:   entityID,
			Similarity: r.Score,
			Snapshot: domain.EntitySnapshot{
				EntityID: entityID,
				Kind:     domain.EntityKind(stringPayload(r.Payload, "kind")),
				Name:     stringPayload(r.Payload, "name"),
				Skills:   stringSlicePayload(r.Payload, "skills"),
				Location: stringPayload(r.Payload, "location"),
				Text:     stringPayload(r.Payload, "text"),
			},
		})
	}
	return out, nil
}

// ensureCollection lazily creates the collection with the configured
// dimensionality and cosine distance so a fresh deployment needs no manual
// index setup.
func (c *Client) ensureCollection(ctx context.Context) error {
	c.ensureMu.Lock()
	if c.ensuredCollection {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	reqBody := map[string]any{
		"vectors": map[string]any{
			"size":     c.vectorSize,
			"distance": "Cosine",
		},
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	err := c.send(ctx, http.MethodPut, url, reqBody, nil, "ensure collection")
	// 409 means the collection already exists (depends on version/config).
	var statusErr *httpStatusError
	if err != nil && !(asStatusError(err, &statusErr) && statusErr.statusCode == http.StatusConflict) {
		return err
	}

	c.ensureMu.Lock()
	c.ensuredCollection = true
	c.ensureMu.Unlock()
	return nil
}

type httpStatusError struct {
	operation  string
	statusCode int
	status     string
	body       string
}

func (e *httpStatusError) Error() string {
	if strings.TrimSpace(e.body) == "" {
		return fmt.Sprintf("qdrant %s status: %s", e.operation, e.status)
	}
	return fmt.Sprintf("qdrant %s status: %s: %s", e.operation, e.status, strings.TrimSpace(e.body))
}

func asStatusError(err error, target **httpStatusError) bool {
	se, ok := err.(*httpStatusError)
	if ok {
		*target = se
	}
	return ok
}

func (c *Client) send(ctx context.Context, method, url string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s body: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &httpStatusError{
			operation:  operation,
			statusCode: resp.StatusCode,
			status:     resp.Status,
			body:       string(raw),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func stringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func stringSlicePayload(payload map[string]any, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Package zerodb implements the typed HTTP client for the ZeroDB remote data
// platform.
//
// This file defines the domain-specific convenience operations over
// Client.Request. Each method fixes the HTTP verb and path and reshapes the
// JSON body; none adds error-handling logic beyond what Request already
// provides.
package zerodb

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
)

//
// Table operations
//

// TableCreate creates a table with the given schema definition.
func (c *Client) TableCreate(ctx context.Context, tableName string, schema map[string]any) (map[string]any, error) {
	log.Info().Str("table", tableName).Msg("creating table")
	return c.Request(ctx, http.MethodPost, "/tables", map[string]any{
		"name":   tableName,
		"schema": schema,
	}, nil)
}

// TableInsert inserts rows into a table. A single row is sent as a bare
// object; multiple rows are wrapped in a "rows" envelope, matching the
// service contract.
func (c *Client) TableInsert(ctx context.Context, tableName string, rows []map[string]any) (map[string]any, error) {
	log.Info().Str("table", tableName).Int("rows", len(rows)).Msg("inserting rows")
	var body any
	if len(rows) == 1 {
		body = rows[0]
	} else {
		body = map[string]any{"rows": rows}
	}
	return c.Request(ctx, http.MethodPost, "/tables/"+tableName+"/rows", body, nil)
}

// TableQuery returns rows matching the optional filters, bounded by limit
// and offset. The service names its result field inconsistently; both
// "rows" and "data" are accepted.
func (c *Client) TableQuery(ctx context.Context, tableName string, filters map[string]any, limit, offset int) ([]map[string]any, error) {
	log.Info().Str("table", tableName).Interface("filters", filters).Msg("querying table")
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	body := map[string]any{}
	if len(filters) > 0 {
		body["filters"] = filters
	}

	resp, err := c.Request(ctx, http.MethodPost, "/tables/"+tableName+"/query", body, query)
	if err != nil {
		return nil, err
	}
	return unwrapList(resp, "rows", "data"), nil
}

// TableUpdate updates all rows matching filters with the given column values.
func (c *Client) TableUpdate(ctx context.Context, tableName string, filters, update map[string]any) (map[string]any, error) {
	log.Info().Str("table", tableName).Interface("filters", filters).Msg("updating table")
	return c.Request(ctx, http.MethodPatch, "/tables/"+tableName+"/rows", map[string]any{
		"filters": filters,
		"update":  update,
	}, nil)
}

// TableDelete deletes all rows matching filters.
func (c *Client) TableDelete(ctx context.Context, tableName string, filters map[string]any) (map[string]any, error) {
	log.Info().Str("table", tableName).Interface("filters", filters).Msg("deleting from table")
	return c.Request(ctx, http.MethodDelete, "/tables/"+tableName+"/rows", map[string]any{
		"filters": filters,
	}, nil)
}

//
// Vector operations
//

// Vector is one embedding with its identity and optional metadata.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float64      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// VectorUpsert inserts or replaces vectors in a namespace.
func (c *Client) VectorUpsert(ctx context.Context, namespace string, vectors []Vector) (map[string]any, error) {
	log.Info().Str("namespace", namespace).Int("vectors", len(vectors)).Msg("upserting vectors")
	return c.Request(ctx, http.MethodPost, "/vectors/upsert", map[string]any{
		"vectors":   vectors,
		"namespace": namespace,
	}, nil)
}

// VectorSearch returns up to limit vectors similar to queryVector above the
// given similarity threshold. Accepts either "matches" or "results" as the
// payload field.
func (c *Client) VectorSearch(ctx context.Context, namespace string, queryVector []float64, limit int, threshold float64) ([]map[string]any, error) {
	log.Info().Str("namespace", namespace).Msg("searching vectors")
	resp, err := c.Request(ctx, http.MethodPost, "/vectors/search", map[string]any{
		"vector":    queryVector,
		"namespace": namespace,
		"top_k":     limit,
		"threshold": threshold,
	}, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList(resp, "matches", "results"), nil
}

//
// Event operations
//

// EventCreate records an audit event on the platform.
func (c *Client) EventCreate(ctx context.Context, eventType, entityType, entityID, actorID, actorType string, payload map[string]any) (map[string]any, error) {
	log.Info().
		Str("event_type", eventType).
		Str("entity_type", entityType).
		Str("entity_id", entityID).
		Msg("creating event")
	return c.Request(ctx, http.MethodPost, "/events", map[string]any{
		"type":        eventType,
		"entity_type": entityType,
		"entity_id":   entityID,
		"actor_id":    actorID,
		"actor_type":  actorType,
		"data":        payload,
	}, nil)
}

// EventList returns events matching the optional filters, most recent first,
// bounded by limit. Accepts either "events" or "data" as the payload field.
func (c *Client) EventList(ctx context.Context, filters map[string]string, limit int) ([]map[string]any, error) {
	log.Info().Interface("filters", filters).Msg("listing events")
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	for k, v := range filters {
		query.Set(k, v)
	}
	resp, err := c.Request(ctx, http.MethodGet, "/events", nil, query)
	if err != nil {
		return nil, err
	}
	return unwrapList(resp, "events", "data"), nil
}

//
// File operations
//

// FileUploadURL requests a pre-signed URL for uploading a file.
func (c *Client) FileUploadURL(ctx context.Context, fileName, contentType, folder string) (map[string]any, error) {
	log.Info().Str("file", fileName).Msg("requesting upload url")
	body := map[string]any{
		"filename":     fileName,
		"content_type": contentType,
	}
	if folder != "" {
		body["folder"] = folder
	}
	return c.Request(ctx, http.MethodPost, "/files", body, nil)
}

// FileDownloadURL requests a pre-signed URL for downloading a stored file.
func (c *Client) FileDownloadURL(ctx context.Context, fileID string, expiresIn int) (map[string]any, error) {
	log.Info().Str("file_id", fileID).Msg("requesting download url")
	return c.Request(ctx, http.MethodPost, "/files/"+fileID+"/presigned-url", map[string]any{
		"expires_in": expiresIn,
		"operation":  "download",
	}, nil)
}

//
// Memory operations
//

// MemoryStore persists one memory item (conversation turn or context).
func (c *Client) MemoryStore(ctx context.Context, content, role, sessionID string, metadata map[string]any) (map[string]any, error) {
	log.Info().Str("session_id", sessionID).Msg("storing memory")
	if metadata == nil {
		metadata = map[string]any{}
	}
	return c.Request(ctx, http.MethodPost, "/memory", map[string]any{
		"content":    content,
		"role":       role,
		"session_id": sessionID,
		"metadata":   metadata,
	}, nil)
}

// MemorySearch returns up to limit memories semantically similar to query.
// Accepts either "memories" or "results" as the payload field.
func (c *Client) MemorySearch(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	log.Info().Msg("searching memories")
	resp, err := c.Request(ctx, http.MethodPost, "/memory/search", map[string]any{
		"query": query,
		"limit": limit,
	}, nil)
	if err != nil {
		return nil, err
	}
	return unwrapList(resp, "memories", "results"), nil
}

// unwrapList extracts the result list from a response object whose payload
// field goes by either of two names. A missing or malformed payload yields
// an empty list.
func unwrapList(resp map[string]any, primary, fallback string) []map[string]any {
	v, ok := resp[primary]
	if !ok {
		v, ok = resp[fallback]
	}
	if !ok {
		return []map[string]any{}
	}
	items, ok := v.([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

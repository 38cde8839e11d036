//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertError checks the status, code and message of an error response and closes the body.
func AssertError(t *testing.T, resp *http.Response, status int, code, message string) {
	t.Helper()
	AssertStatus(t, resp, status)
	var errResp struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Success {
		t.Errorf("expected success=false")
	}
	if errResp.Code != code {
		t.Errorf("expected error code %q, got %q (message: %s)", code, errResp.Code, errResp.Message)
	}
	if message != "" && errResp.Message != message {
		t.Errorf("expected message %q, got %q", message, errResp.Message)
	}
}

// AssertAdminCount checks how many rows the admins table holds.
func AssertAdminCount(t *testing.T, env *TestEnv, expected int) {
	t.Helper()
	if got := env.count(t, "SELECT count(*) FROM admins"); got != expected {
		t.Errorf("admins: expected %d rows, got %d", expected, got)
	}
}

// AssertVideoLinkRows checks how many rows the video_link table holds.
func AssertVideoLinkRows(t *testing.T, env *TestEnv, expected int) {
	t.Helper()
	if got := env.count(t, "SELECT count(*) FROM video_link"); got != expected {
		t.Errorf("video_link: expected %d rows, got %d", expected, got)
	}
}

// StoredVideoLinks returns every link value held in the video_link table.
func StoredVideoLinks(t *testing.T, env *TestEnv) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := env.Pool.Query(ctx, "SELECT link FROM video_link ORDER BY id")
	if err != nil {
		t.Fatalf("StoredVideoLinks: %v", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			t.Fatalf("StoredVideoLinks: scan: %v", err)
		}
		links = append(links, link)
	}
	return links
}

// OutboxEventTypes lists queued outbox event types in insertion order.
func OutboxEventTypes(t *testing.T, env *TestEnv) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := env.Pool.Query(ctx, "SELECT event_type FROM event_outbox ORDER BY id")
	if err != nil {
		t.Fatalf("OutboxEventTypes: %v", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var et string
		if err := rows.Scan(&et); err != nil {
			t.Fatalf("OutboxEventTypes: scan: %v", err)
		}
		types = append(types, et)
	}
	return types
}

func (env *TestEnv) count(t *testing.T, query string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int
	if err := env.Pool.QueryRow(ctx, query).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/linkdesk/videolink/internal/app"
	"github.com/linkdesk/videolink/internal/repository"
)

// BootstrapMainAdmin runs the startup bootstrap with TestMainAdminPassword.
func (env *TestEnv) BootstrapMainAdmin() {
	env.t.Helper()
	env.BootstrapMainAdminWith(TestMainAdminPassword)
}

// BootstrapMainAdminWith runs the startup bootstrap with the given password.
func (env *TestEnv) BootstrapMainAdminWith(password string) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.BootstrapMainAdmin(ctx, env.Pool, env.Hasher, password, discardLogger()); err != nil {
		env.t.Fatalf("BootstrapMainAdmin: %v", err)
	}
}

// SeedAdmin inserts an admin directly, bypassing /add-admin.
func (env *TestEnv) SeedAdmin(username, password string) {
	env.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hash, err := env.Hasher.Hash(password)
	if err != nil {
		env.t.Fatalf("SeedAdmin: hash: %v", err)
	}
	if _, err := repository.NewPgAdminRepository().Create(ctx, env.Pool, username, hash); err != nil {
		env.t.Fatalf("SeedAdmin: %v", err)
	}
}

// GET performs a GET request.
func (env *TestEnv) GET(path string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodGet, path, nil)
}

// POST performs a POST request with a JSON body.
func (env *TestEnv) POST(path string, body any) *http.Response {
	env.t.Helper()
	return env.do(http.MethodPost, path, body)
}

// DELETE performs a DELETE request with a JSON body.
func (env *TestEnv) DELETE(path string, body any) *http.Response {
	env.t.Helper()
	return env.do(http.MethodDelete, path, body)
}

// OPTIONS performs an OPTIONS request.
func (env *TestEnv) OPTIONS(path string) *http.Response {
	env.t.Helper()
	return env.do(http.MethodOptions, path, nil)
}

func (env *TestEnv) do(method, path string, body any) *http.Response {
	env.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			env.t.Fatalf("%s %s: encode: %v", method, path, err)
		}
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &buf)
	if err != nil {
		env.t.Fatalf("%s %s: new request: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		env.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// PostStatus sends a JSON POST and returns the status code. It never touches
// the test, so it is safe to call from other goroutines.
func (env *TestEnv) PostStatus(path string, body any) (int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, err
	}
	resp, err := http.Post(env.Server.URL+path, "application/json", &buf)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// SetVideoLink posts a new link and fails the test unless it succeeds.
func (env *TestEnv) SetVideoLink(username, password, link string) {
	env.t.Helper()
	resp := env.POST("/video-link", map[string]string{
		"username": username, "password": password, "newVideoLink": link,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		env.t.Fatalf("SetVideoLink: expected 200, got %d", resp.StatusCode)
	}
}

// VideoLink returns the link reported by GET /video-link.
func (env *TestEnv) VideoLink() string {
	env.t.Helper()
	resp := env.GET("/video-link")
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		env.t.Fatalf("VideoLink: expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		VideoLink string `json:"videoLink"`
	}
	DecodeJSON(env.t, resp, &result)
	return result.VideoLink
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/app"
	"github.com/wadjakorntonsri/go-3dnav/pkg/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Mode    string          `json:"mode"`
	Total   int             `json:"total"`
}

func send(t *testing.T, client *http.Client, method, url string, payload interface{}) (int, envelope) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, url, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestIntegration(t *testing.T) {
	dataFile := filepath.Join(t.TempDir(), "links.json")
	cfg := &config.Config{
		AppEnv:             "development",
		StorageMode:        "file",
		DataFile:           dataFile,
		JWTSecret:          "integration",
		AdminEmail:         "admin@3dnav.top",
		FrontendURL:        "http://localhost/",
		LoginRatePerMinute: 10,
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)

	server := httptest.NewServer(a.Handler())
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := server.Client()
	client.Jar = jar

	// Bootstrap and log in
	status, env := send(t, client, "POST", server.URL+"/api/admin/setup", nil)
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, "file", env.Mode)

	status, env = send(t, client, "POST", server.URL+"/auth/login", map[string]string{
		"email": "admin@3dnav.top", "password": "admin123456",
	})
	require.Equal(t, http.StatusOK, status, env.Error)

	// Create persists to the data file
	status, env = send(t, client, "POST", server.URL+"/api/links", map[string]interface{}{
		"title": "X", "url": "https://x.test", "category": "software",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, "file", env.Mode)
	assert.Equal(t, "link created", env.Message)

	var created struct {
		ID       string `json:"id"`
		Featured bool   `json:"featured"`
		Order    int    `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "11", created.ID)

	raw, err := os.ReadFile(dataFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "https://x.test")

	// List
	status, env = send(t, client, "GET", server.URL+"/api/links", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 11, env.Total)

	// Delete
	status, _ = send(t, client, "DELETE", server.URL+"/api/links/5", nil)
	require.Equal(t, http.StatusOK, status)
	status, env = send(t, client, "GET", server.URL+"/api/links", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 10, env.Total)

	// Lose the data file: the next write degrades to memory and keeps counting ids
	require.NoError(t, os.Remove(dataFile))
	status, env = send(t, client, "POST", server.URL+"/api/links", map[string]interface{}{
		"title": "Y", "url": "https://y.test", "category": "tools",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	assert.Equal(t, "memory-fallback", env.Mode)
	assert.Contains(t, env.Message, "lost on restart")
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "12", created.ID)

	status, env = send(t, client, "GET", server.URL+"/api/environment", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "memory-fallback", env.Mode)
}

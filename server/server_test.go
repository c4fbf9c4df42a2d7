package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewminawijekoon/rpal/internal/config"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()

	apiKeyHash, err := HashAPIKey("correct-horse-battery-staple")
	require.NoError(t, err)

	cfg := config.ServerConfig{
		JWTSecret:     "test-signing-secret",
		APIKeyHash:    apiKeyHash,
		AuditDBPath:   filepath.Join(t.TempDir(), "audit.db"),
		TokenTTLHours: 1,
	}

	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return srv, "correct-horse-battery-staple"
}

func issueTestToken(t *testing.T, srv *Server, apiKey string) string {
	t.Helper()

	body, _ := json.Marshal(tokenRequest{APIKey: apiKey})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func Test_HandleIssueToken_rejectsWrongAPIKey(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(tokenRequest{APIKey: "wrong-key"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_HandleRun_requiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(runRequest{Source: "Print (1+1)"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_HandleRun_executesAuthenticatedProgram(t *testing.T) {
	srv, apiKey := newTestServer(t)
	tok := issueTestToken(t, srv, apiKey)

	body, _ := json.Marshal(runRequest{Source: "let x = 5 in Print (x + 3)"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp runResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "8", resp.Output)
	assert.Empty(t, resp.Error)
}

func Test_HandleRun_reportsRuntimeErrorAsUnprocessableEntity(t *testing.T) {
	srv, apiKey := newTestServer(t)
	tok := issueTestToken(t, srv, apiKey)

	body, _ := json.Marshal(runRequest{Source: "Print (undefined_name)"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp runResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func Test_HandleInfo_isUnauthenticatedButReportsVersion(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, PathPrefix+"/info", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp infoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Version)
	assert.False(t, resp.Authenticated)
}

func Test_HandleGetRun_returnsRecordedRun(t *testing.T) {
	srv, apiKey := newTestServer(t)
	tok := issueTestToken(t, srv, apiKey)

	body, _ := json.Marshal(runRequest{Source: "Print (1+1)"})
	req := httptest.NewRequest(http.MethodPost, PathPrefix+"/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var runResp runResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runResp))
	require.NotEmpty(t, runResp.RunID)

	req2 := httptest.NewRequest(http.MethodGet, PathPrefix+"/run/"+runResp.RunID, nil)
	req2.Header.Set("Authorization", "Bearer "+tok)
	w2 := httptest.NewRecorder()
	srv.ServeHTTP(w2, req2)
	require.Equal(t, http.StatusOK, w2.Code)

	var auditResp auditResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &auditResp))
	assert.True(t, auditResp.Success)

	req3 := httptest.NewRequest(http.MethodGet, PathPrefix+"/run/does-not-exist", nil)
	req3.Header.Set("Authorization", "Bearer "+tok)
	w3 := httptest.NewRecorder()
	srv.ServeHTTP(w3, req3)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}

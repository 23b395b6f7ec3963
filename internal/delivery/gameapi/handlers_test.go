package gameapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbridge/internal/client"
	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

type nopLogger struct{}

func (nopLogger) Error(format string, v ...interface{}) {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Debug(format string, v ...interface{}) {}

type stubSyncService struct {
	mu       sync.Mutex
	enqueued []models.PermissionSyncRequest
}

func (s *stubSyncService) Enqueue(req models.PermissionSyncRequest) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueued = append(s.enqueued, req)
	return true
}

func (s *stubSyncService) Run(ctx context.Context) {}

// fakeIdentity emulates the identity service endpoints the game side talks to.
func fakeIdentity(t *testing.T, linkedSteamIDs map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/link", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Code    string `json:"code"`
			SteamID string `json:"steamId"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Code == "validcode1" {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Account linked successfully"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "Invalid or expired code"})
	})
	mux.HandleFunc("GET /api/check/", func(w http.ResponseWriter, r *http.Request) {
		steamID := strings.TrimPrefix(r.URL.Path, "/api/check/")
		if discordID, ok := linkedSteamIDs[steamID]; ok {
			json.NewEncoder(w).Encode(map[string]interface{}{"linked": true, "discordId": discordID})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"linked": false})
	})
	mux.HandleFunc("POST /api/request-sync", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "Permission sync requested"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, linked map[string]string) (http.Handler, *stubSyncService, *repository.Roster, *repository.PermissionStore) {
	t.Helper()
	identity := fakeIdentity(t, linked)
	sync := &stubSyncService{}
	roster := repository.NewRoster()
	perms := repository.NewPermissionStore()
	r := NewRouter(sync, client.NewIdentityClient(identity.URL), roster, perms, nopLogger{})
	return r, sync, roster, perms
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSyncPermissionsAccepted(t *testing.T) {
	r, sync, _, _ := newTestRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/sync-permissions",
		`{"steamId":"s1","discordRoles":["r1","r2"]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	require.Len(t, sync.enqueued, 1)
	assert.Equal(t, "s1", sync.enqueued[0].SteamID)
	assert.Equal(t, []string{"r1", "r2"}, sync.enqueued[0].DiscordRoles)
}

func TestSyncPermissionsMissingSteamID(t *testing.T) {
	r, sync, _, _ := newTestRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/sync-permissions", `{"discordRoles":["r1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sync.enqueued)
}

func TestPlayerJoinAndLeave(t *testing.T) {
	r, _, roster, _ := newTestRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/players/join", `{"steamId":"s1","steamName":"Alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, roster.IsOnline("s1"))

	rec = doRequest(t, r, http.MethodPost, "/api/players/leave", `{"steamId":"s1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, roster.IsOnline("s1"))
}

func TestPlayerGroups(t *testing.T) {
	r, _, _, perms := newTestRouter(t, nil)
	require.NoError(t, perms.AddToGroup("s1", "vip"))

	rec := doRequest(t, r, http.MethodGet, "/api/players/s1/groups", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		SteamID string   `json:"steamId"`
		Groups  []string `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"vip"}, resp.Groups)
}

func TestLinkCommandFlow(t *testing.T) {
	r, _, _, _ := newTestRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/link",
		`{"code":"validcode1","steamId":"s1","steamName":"Alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestLinkCommandRejectsShortCode(t *testing.T) {
	r, _, _, _ := newTestRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/link",
		`{"code":"short","steamId":"s1","steamName":"Alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLinkCommandInvalidCode(t *testing.T) {
	r, _, _, _ := newTestRouter(t, nil)

	rec := doRequest(t, r, http.MethodPost, "/api/link",
		`{"code":"wrongcode1","steamId":"s1","steamName":"Alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestRoleSyncRequiresLink(t *testing.T) {
	r, _, _, _ := newTestRouter(t, map[string]string{"linked": "d1"})

	rec := doRequest(t, r, http.MethodPost, "/api/rolesync", `{"steamId":"unlinked"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)

	rec = doRequest(t, r, http.MethodPost, "/api/rolesync", `{"steamId":"linked"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestLinkStatusProxiesCheck(t *testing.T) {
	r, _, _, _ := newTestRouter(t, map[string]string{"s1": "d1"})

	rec := doRequest(t, r, http.MethodGet, "/api/link-status/s1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp client.CheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Linked)
	assert.Equal(t, "d1", resp.DiscordID)
}

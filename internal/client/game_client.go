package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"linkbridge/internal/models"
)

// GameClient is the identity-side client for the game service. Pushes are
// fire-and-forget: a failed push is logged by the caller, never retried here.
type GameClient struct {
	baseURL string
	http    *http.Client
}

func NewGameClient(baseURL string) *GameClient {
	return &GameClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *GameClient) SyncPermissions(req *models.PermissionSyncRequest) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode sync request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+"/api/sync-permissions", "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to reach game service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("game service rejected sync push: %s", resp.Status)
	}
	return nil
}

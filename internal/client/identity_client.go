package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 10 * time.Second

// IdentityClient is the game-side client for the identity service API.
type IdentityClient struct {
	baseURL string
	http    *http.Client
}

func NewIdentityClient(baseURL string) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type LinkResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CheckResponse struct {
	Linked    bool   `json:"linked"`
	DiscordID string `json:"discordId,omitempty"`
	SteamName string `json:"steamName,omitempty"`
}

// Link redeems a code on behalf of an in-game player. A rejected code comes
// back as a LinkResponse with Success false, not as an error; errors mean the
// identity service could not be reached at all.
func (c *IdentityClient) Link(code, steamID, steamName string) (*LinkResponse, error) {
	body := map[string]string{
		"code":      code,
		"steamId":   steamID,
		"steamName": steamName,
	}

	var out LinkResponse
	if err := c.postJSON("/api/link", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *IdentityClient) Check(steamID string) (*CheckResponse, error) {
	resp, err := c.http.Get(c.baseURL + "/api/check/" + url.PathEscape(steamID))
	if err != nil {
		return nil, fmt.Errorf("failed to reach identity service: %w", err)
	}
	defer resp.Body.Close()

	var out CheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode check response: %w", err)
	}
	return &out, nil
}

// RequestSync asks the identity service to push the player's current roles.
func (c *IdentityClient) RequestSync(steamID string) error {
	var out LinkResponse
	return c.postJSON("/api/request-sync", map[string]string{"steamId": steamID}, &out)
}

func (c *IdentityClient) postJSON(path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to reach identity service: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

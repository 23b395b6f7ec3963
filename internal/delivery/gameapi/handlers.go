package gameapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkbridge/internal/application"
	"linkbridge/internal/client"
	"linkbridge/internal/models"
	"linkbridge/internal/repository"
)

const codeLength = 10

type Handler struct {
	sync     application.PermissionSyncService
	identity *client.IdentityClient
	roster   *repository.Roster
	perms    *repository.PermissionStore
	logger   application.Logger
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type playerRequest struct {
	SteamID   string `json:"steamId"`
	SteamName string `json:"steamName"`
}

type linkRequest struct {
	Code      string `json:"code"`
	SteamID   string `json:"steamId"`
	SteamName string `json:"steamName"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "ok"})
}

// syncPermissions accepts a role push from the identity service. Processing is
// asynchronous; the 202 only acknowledges receipt.
func (h *Handler) syncPermissions(w http.ResponseWriter, r *http.Request) {
	var req models.PermissionSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}

	h.sync.Enqueue(req)
	writeJSON(w, http.StatusAccepted, apiResponse{Success: true, Message: "Permission sync queued"})
}

func (h *Handler) playerJoin(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}

	h.roster.Join(req.SteamID, req.SteamName)
	h.logger.Debug("Player %s (%s) joined", req.SteamName, req.SteamID)

	// Re-sync on join so a player linked while offline picks up their group.
	if err := h.identity.RequestSync(req.SteamID); err != nil {
		h.logger.Warn("Failed to request sync for joining player %s: %v", req.SteamID, err)
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Player registered"})
}

func (h *Handler) playerLeave(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}

	h.roster.Leave(req.SteamID)
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Player removed"})
}

func (h *Handler) playerGroups(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steamID")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"steamId": steamID,
		"groups":  h.perms.GroupsOf(steamID),
	})
}

// link runs the in-game /link command flow: redeem the code on the identity
// service, then ask it to push the player's roles.
func (h *Handler) link(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}
	if len(req.Code) != codeLength {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Invalid code format"})
		return
	}

	result, err := h.identity.Link(req.Code, req.SteamID, req.SteamName)
	if err != nil {
		h.logger.Error("Failed to link Steam ID %s: %v", req.SteamID, err)
		writeJSON(w, http.StatusBadGateway, apiResponse{Message: "Could not reach the Discord bot, try again later"})
		return
	}
	if !result.Success {
		writeJSON(w, http.StatusOK, *result)
		return
	}

	if err := h.identity.RequestSync(req.SteamID); err != nil {
		h.logger.Warn("Linked Steam ID %s but sync request failed: %v", req.SteamID, err)
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Account linked successfully"})
}

func (h *Handler) linkStatus(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steamID")

	status, err := h.identity.Check(steamID)
	if err != nil {
		h.logger.Error("Failed to check link for Steam ID %s: %v", steamID, err)
		writeJSON(w, http.StatusBadGateway, apiResponse{Message: "Could not reach the Discord bot, try again later"})
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// roleSync runs the in-game /rolesync command flow.
func (h *Handler) roleSync(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}

	status, err := h.identity.Check(req.SteamID)
	if err != nil {
		h.logger.Error("Failed to check link for Steam ID %s: %v", req.SteamID, err)
		writeJSON(w, http.StatusBadGateway, apiResponse{Message: "Could not reach the Discord bot, try again later"})
		return
	}
	if !status.Linked {
		writeJSON(w, http.StatusOK, apiResponse{Message: "Account is not linked, get a code from the Discord bot first"})
		return
	}

	if err := h.identity.RequestSync(req.SteamID); err != nil {
		h.logger.Error("Failed to request sync for Steam ID %s: %v", req.SteamID, err)
		writeJSON(w, http.StatusBadGateway, apiResponse{Message: "Could not reach the Discord bot, try again later"})
		return
	}
	writeJSON(w, http.StatusAccepted, apiResponse{Success: true, Message: "Role sync requested"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

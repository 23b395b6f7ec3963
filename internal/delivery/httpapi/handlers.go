package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkbridge/internal/application"
	"linkbridge/internal/models"
)

type Handler struct {
	links  application.LinkService
	logger application.Logger
}

type linkRequest struct {
	Code      string `json:"code"`
	SteamID   string `json:"steamId"`
	SteamName string `json:"steamName"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type checkResponse struct {
	Linked    bool   `json:"linked"`
	DiscordID string `json:"discordId,omitempty"`
	SteamName string `json:"steamName,omitempty"`
}

type accountResponse struct {
	Linked  bool                `json:"linked"`
	Account *models.AccountLink `json:"account,omitempty"`
}

type syncRequest struct {
	SteamID string `json:"steamId"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "ok"})
}

func (h *Handler) link(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" || req.SteamID == "" || req.SteamName == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}

	_, err := h.links.RedeemCode(req.Code, req.SteamID, req.SteamName)
	switch {
	case errors.Is(err, application.ErrInvalidCode):
		writeJSON(w, http.StatusNotFound, apiResponse{Message: "Invalid or expired code"})
	case errors.Is(err, application.ErrSteamTaken):
		writeJSON(w, http.StatusConflict, apiResponse{Message: "This Steam account is already linked to another Discord account"})
	case err != nil:
		h.logger.Error("Link request failed for Steam ID %s: %v", req.SteamID, err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Message: "Something went wrong, try again later"})
	default:
		writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Account linked successfully"})
	}
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	steamID := chi.URLParam(r, "steamID")

	link, err := h.links.GetLinkBySteamID(steamID)
	if err != nil {
		h.logger.Error("Check failed for Steam ID %s: %v", steamID, err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Message: "Something went wrong, try again later"})
		return
	}
	if link == nil {
		writeJSON(w, http.StatusOK, checkResponse{Linked: false})
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Linked: true, DiscordID: link.DiscordID, SteamName: link.SteamName})
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	discordID := chi.URLParam(r, "discordID")

	link, err := h.links.GetLinkByDiscordID(discordID)
	if err != nil {
		h.logger.Error("Account lookup failed for Discord ID %s: %v", discordID, err)
		writeJSON(w, http.StatusInternalServerError, apiResponse{Message: "Something went wrong, try again later"})
		return
	}
	if link == nil {
		writeJSON(w, http.StatusOK, accountResponse{Linked: false})
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{Linked: true, Account: link})
}

func (h *Handler) requestSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SteamID == "" {
		writeJSON(w, http.StatusBadRequest, apiResponse{Message: "Missing required fields"})
		return
	}

	h.links.RequestSync(req.SteamID)
	writeJSON(w, http.StatusAccepted, apiResponse{Success: true, Message: "Permission sync requested"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

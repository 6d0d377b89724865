package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tanmayshinde-006/ProjexFlow/logging"
	"github.com/tanmayshinde-006/ProjexFlow/models"
	"github.com/tanmayshinde-006/ProjexFlow/services"
	"github.com/tanmayshinde-006/ProjexFlow/web"
)

type UserHandler struct {
	Service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{Service: service}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	user, token, err := h.Service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: USER_REGISTERED, Description: New user registered: %s", user.Email)
	respondData(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	user, token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.Service.GetByID(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var update services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	user, err := h.Service.UpdateProfile(r.Context(), userID, &update)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	if err := h.Service.UpdatePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, web.Response{Success: true, Message: "Password updated successfully"})
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	_, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	users, err := h.Service.ListUsers(r.Context(), role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, users)
}

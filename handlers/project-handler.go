package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tanmayshinde-006/ProjexFlow/logging"
	"github.com/tanmayshinde-006/ProjexFlow/models"
	"github.com/tanmayshinde-006/ProjexFlow/services"
	"github.com/tanmayshinde-006/ProjexFlow/web"
)

type ProjectHandler struct {
	Service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{Service: service}
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	created, err := h.Service.CreateProject(r.Context(), userID, &project)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_CREATED, Description: Project %s created by %s", created.ID.Hex(), userID.Hex())
	respondData(w, http.StatusCreated, created)
}

func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projects, err := h.Service.GetProjects(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.Service.GetProject(r.Context(), projectID, userID, role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var update services.ProjectUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	project, err := h.Service.UpdateProject(r.Context(), projectID, userID, role, &update)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Service.DeleteProject(r.Context(), projectID, userID, role); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: PROJECT_DELETED, Description: Project %s deleted by %s", projectID.Hex(), userID.Hex())
	respondData(w, http.StatusOK, struct{}{})
}

type addMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	project, err := h.Service.AddMember(r.Context(), projectID, userID, role, req.Email, req.Role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	targetID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.Service.RemoveMember(r.Context(), projectID, userID, targetID, role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, project)
}

func (h *ProjectHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	progress, err := h.Service.RecalculateProgress(r.Context(), projectID, userID, role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, map[string]int{"progress": progress})
}

// RegisterRoutes wires the project endpoints onto the router.
func (h *ProjectHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/projects", h.CreateProject).Methods(http.MethodPost)
	r.HandleFunc("/api/projects", h.GetProjects).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}", h.GetProject).Methods(http.MethodGet)
	r.HandleFunc("/api/projects/{id}", h.UpdateProject).Methods(http.MethodPut)
	r.HandleFunc("/api/projects/{id}", h.DeleteProject).Methods(http.MethodDelete)
	r.HandleFunc("/api/projects/{id}/members", h.AddMember).Methods(http.MethodPost)
	r.HandleFunc("/api/projects/{id}/members/{userId}", h.RemoveMember).Methods(http.MethodDelete)
	r.HandleFunc("/api/projects/{id}/progress", h.UpdateProgress).Methods(http.MethodPut)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tanmayshinde-006/ProjexFlow/logging"
	"github.com/tanmayshinde-006/ProjexFlow/services"
	"github.com/tanmayshinde-006/ProjexFlow/web"
)

type TaskHandler struct {
	Service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{Service: service}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var input services.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	task, err := h.Service.CreateTask(r.Context(), userID, role, &input)
	if err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s by %s", task.ID.Hex(), task.Project.Hex(), userID.Hex())
	respondData(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	task, err := h.Service.GetTask(r.Context(), taskID, userID, role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var update services.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	task, err := h.Service.UpdateTask(r.Context(), taskID, userID, role, &update)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Service.DeleteTask(r.Context(), taskID, userID, role); err != nil {
		respondError(w, err)
		return
	}

	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted by %s", taskID.Hex(), userID.Hex())
	respondData(w, http.StatusOK, struct{}{})
}

type addCommentRequest struct {
	Text string `json:"text"`
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	comments, err := h.Service.AddComment(r.Context(), taskID, userID, role, req.Text)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, comments)
}

type addSubtaskRequest struct {
	Title string `json:"title"`
}

func (h *TaskHandler) AddSubtask(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req addSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	subtasks, err := h.Service.AddSubtask(r.Context(), taskID, userID, role, req.Title)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, subtasks)
}

type updateSubtaskRequest struct {
	// Pointer so an explicit false is distinguishable from a missing field.
	Completed *bool `json:"completed"`
}

func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	taskID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	subtaskID, err := pathID(r, "subtaskId")
	if err != nil {
		respondError(w, err)
		return
	}

	var req updateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteJSON(w, http.StatusBadRequest, web.Response{Success: false, Message: "Invalid request payload"})
		return
	}

	subtasks, err := h.Service.UpdateSubtask(r.Context(), taskID, subtaskID, userID, role, req.Completed)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, subtasks)
}

func (h *TaskHandler) GetProjectTasks(w http.ResponseWriter, r *http.Request) {
	userID, role, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	projectID, err := pathID(r, "projectId")
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.Service.GetProjectTasks(r.Context(), projectID, userID, role)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	userID, _, err := requester(r)
	if err != nil {
		respondError(w, err)
		return
	}

	tasks, err := h.Service.GetMyTasks(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondData(w, http.StatusOK, tasks)
}

// RegisterRoutes wires the task endpoints onto the router. The static
// /api/tasks/me and /api/tasks/project/{projectId} routes must register
// before /api/tasks/{id} so mux does not swallow them as ids.
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/tasks", h.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/me", h.GetMyTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/project/{projectId}", h.GetProjectTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", h.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", h.UpdateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id}", h.DeleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/{id}/comments", h.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}/subtasks", h.AddSubtask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id}/subtasks/{subtaskId}", h.UpdateSubtask).Methods(http.MethodPut)
}

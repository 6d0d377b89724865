package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gorilla/mux"

	"github.com/tanmayshinde-006/ProjexFlow/logging"
	"github.com/tanmayshinde-006/ProjexFlow/middleware"
	"github.com/tanmayshinde-006/ProjexFlow/services"
	"github.com/tanmayshinde-006/ProjexFlow/web"
)

func respondData(w http.ResponseWriter, status int, data interface{}) {
	web.WriteJSON(w, status, web.Response{Success: true, Data: data})
}

// statusForError maps a service error kind to an HTTP status. Unknown
// errors become 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidOperation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Unexpected store or encoding failure: log it, hide it.
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		message = "Server Error"
	}
	web.WriteJSON(w, status, web.Response{Success: false, Message: message})
}

// requester pulls the authenticated user's id and role out of the request
// context populated by the JWT middleware.
func requester(r *http.Request) (primitive.ObjectID, string, error) {
	idStr, ok := middleware.UserID(r)
	if !ok {
		return primitive.NilObjectID, "", fmt.Errorf("%w: authentication required", services.ErrUnauthenticated)
	}
	role, _ := middleware.Role(r)

	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, "", fmt.Errorf("%w: invalid token subject", services.ErrUnauthenticated)
	}
	return id, role, nil
}

func pathID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid %s", services.ErrValidation, name)
	}
	return id, nil
}

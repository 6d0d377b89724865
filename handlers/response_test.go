package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmayshinde-006/ProjexFlow/services"
	"github.com/tanmayshinde-006/ProjexFlow/web"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: project not found", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not authorized", services.ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("%w: log in", services.ErrUnauthenticated), http.StatusUnauthorized},
		{fmt.Errorf("%w: name required", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: owner cannot be removed", services.ErrInvalidOperation), http.StatusBadRequest},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), "error: %v", tt.err)
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("mongo: socket was unexpectedly closed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body web.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Server Error", body.Message)
}

func TestRespondError_KeepsKindMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, fmt.Errorf("%w: project owner cannot be removed", services.ErrInvalidOperation))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body web.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Contains(t, body.Message, "project owner cannot be removed")
}

func TestRespondData_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondData(rec, http.StatusOK, map[string]int{"progress": 67})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 67, body.Data["progress"])
}

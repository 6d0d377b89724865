package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanmayshinde-006/ProjexFlow/models"
)

func TestStatusChangeFields_StampsCompletedAtOnce(t *testing.T) {
	task := &models.Task{Status: models.StatusInProgress}
	now := time.Now()

	set := statusChangeFields(task, models.StatusCompleted, now)
	assert.Equal(t, models.StatusCompleted, set["status"])
	assert.Equal(t, now, set["completedAt"])
}

func TestStatusChangeFields_DoesNotOverwriteCompletedAt(t *testing.T) {
	first := time.Now().Add(-time.Hour)
	task := &models.Task{Status: models.StatusCompleted, CompletedAt: &first}

	// Re-completing an already-completed task keeps the original timestamp.
	set := statusChangeFields(task, models.StatusCompleted, time.Now())
	assert.Equal(t, models.StatusCompleted, set["status"])
	_, stamped := set["completedAt"]
	assert.False(t, stamped)
}

func TestStatusChangeFields_MovingAwayKeepsCompletedAt(t *testing.T) {
	first := time.Now().Add(-time.Hour)
	task := &models.Task{Status: models.StatusCompleted, CompletedAt: &first}

	set := statusChangeFields(task, models.StatusInProgress, time.Now())
	assert.Equal(t, models.StatusInProgress, set["status"])
	_, stamped := set["completedAt"]
	assert.False(t, stamped)
	assert.NotContains(t, set, "completedAt")
}

func TestResolveAssignee(t *testing.T) {
	// An empty assignedTo means unassigned, not an error.
	id, err := resolveAssignee("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = resolveAssignee("652f1f77bcf86cd799439011")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, "652f1f77bcf86cd799439011", id.Hex())

	_, err = resolveAssignee("not-an-object-id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestValidateTaskFields(t *testing.T) {
	due := time.Now().Add(24 * time.Hour)

	assert.NoError(t, validateTaskFields("Write docs", "Document the API", due))

	err := validateTaskFields("", "desc", due)
	assert.True(t, errors.Is(err, ErrValidation))

	err = validateTaskFields("title", "", due)
	assert.True(t, errors.Is(err, ErrValidation))

	err = validateTaskFields("title", "desc", time.Time{})
	assert.True(t, errors.Is(err, ErrValidation))

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	err = validateTaskFields(string(long), "desc", due)
	assert.True(t, errors.Is(err, ErrValidation))
}

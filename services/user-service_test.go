package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("ana@example.com"))

	for _, bad := range []string{"", "plainaddress", "@example.com", "ana@"} {
		err := validateEmail(bad)
		assert.True(t, errors.Is(err, ErrValidation), "email: %q", bad)
	}
}

func TestLogin_UnknownEmailIsInvalidCredentials(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown email", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		svc := NewUserService(mt.Coll, nil)
		_, _, err := svc.Login(context.Background(), "ghost@example.com", "hunter2")
		assert.ErrorIs(mt, err, ErrUnauthenticated)
	})
}

func TestLogin_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("store failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11600,
			Name:    "InterruptedAtShutdown",
			Message: "interrupted at shutdown",
		}))

		// An outage must surface as a server error, not a 401.
		svc := NewUserService(mt.Coll, nil)
		_, _, err := svc.Login(context.Background(), "ana@example.com", "hunter2")
		require.Error(mt, err)
		assert.False(mt, errors.Is(err, ErrUnauthenticated))
	})
}

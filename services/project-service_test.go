package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/tanmayshinde-006/ProjexFlow/models"
)

func TestValidateProjectFields(t *testing.T) {
	start := time.Now()
	end := start.Add(30 * 24 * time.Hour)

	assert.NoError(t, validateProjectFields("Website Redesign", "Rebuild the marketing site", start, end))

	err := validateProjectFields("", "desc", start, end)
	assert.True(t, errors.Is(err, ErrValidation))

	err = validateProjectFields("   ", "desc", start, end)
	assert.True(t, errors.Is(err, ErrValidation))

	err = validateProjectFields("name", "", start, end)
	assert.True(t, errors.Is(err, ErrValidation))

	err = validateProjectFields("name", "desc", time.Time{}, end)
	assert.True(t, errors.Is(err, ErrValidation))

	err = validateProjectFields("name", "desc", start, time.Time{})
	assert.True(t, errors.Is(err, ErrValidation))

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'x'
	}
	err = validateProjectFields("name", string(long), start, end)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestProjectUpdate_SetFieldsDropsMembers(t *testing.T) {
	// A client trying to rewrite membership through the update route gets
	// the field silently dropped, not an error.
	payload := `{"name":"New Name","members":[{"user":"652f1f77bcf86cd799439011","role":"owner"}]}`

	var update ProjectUpdate
	require.NoError(t, json.Unmarshal([]byte(payload), &update))

	set, err := update.setFields()
	require.NoError(t, err)

	assert.Equal(t, "New Name", set["name"])
	assert.NotContains(t, set, "members")
}

func TestProjectUpdate_SetFieldsValidates(t *testing.T) {
	empty := ""
	update := ProjectUpdate{Name: &empty}
	_, err := update.setFields()
	assert.True(t, errors.Is(err, ErrValidation))

	badStatus := `{"status":"launched"}`
	var u2 ProjectUpdate
	require.NoError(t, json.Unmarshal([]byte(badStatus), &u2))
	_, err = u2.setFields()
	assert.True(t, errors.Is(err, ErrValidation))
}

func projectDoc(projectID primitive.ObjectID, members []models.Member) bson.D {
	memberDocs := bson.A{}
	for _, m := range members {
		memberDocs = append(memberDocs, bson.D{
			{Key: "user", Value: m.User},
			{Key: "role", Value: m.Role},
			{Key: "joinedAt", Value: m.JoinedAt},
		})
	}
	return bson.D{
		{Key: "_id", Value: projectID},
		{Key: "name", Value: "Website Redesign"},
		{Key: "description", Value: "Rebuild the marketing site"},
		{Key: "members", Value: memberDocs},
	}
}

func TestCreateProject_CreatorIsSoleOwnerMember(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		svc := NewProjectService(mt.Coll, mt.Coll, mt.Coll)
		creator := primitive.NewObjectID()
		intruder := primitive.NewObjectID()

		project := &models.Project{
			Name:        "Website Redesign",
			Description: "Rebuild the marketing site",
			StartDate:   time.Now(),
			EndDate:     time.Now().Add(30 * 24 * time.Hour),
			// Client-supplied members and progress must be ignored.
			Members:  []models.Member{{User: intruder, Role: models.MemberOwner}},
			Progress: 80,
		}

		created, err := svc.CreateProject(context.Background(), creator, project)
		require.NoError(mt, err)
		require.Len(mt, created.Members, 1)
		assert.Equal(mt, creator, created.Members[0].User)
		assert.Equal(mt, models.MemberOwner, created.Members[0].Role)
		assert.Equal(mt, creator, created.CreatedBy)
		assert.Equal(mt, 0, created.Progress)
	})
}

func TestRemoveMember_OwnerCannotBeRemoved(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	projectID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	manager := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	members := []models.Member{
		{User: owner, Role: models.MemberOwner},
		{User: manager, Role: models.MemberManager},
	}

	mt.Run("as manager", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, projectDoc(projectID, members)))

		svc := NewProjectService(mt.Coll, mt.Coll, mt.Coll)
		_, err := svc.RemoveMember(context.Background(), projectID, manager, owner, models.RoleMember)
		assert.ErrorIs(mt, err, ErrInvalidOperation)
	})

	mt.Run("as admin", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, projectDoc(projectID, members)))

		// Even a global admin cannot remove the owner.
		svc := NewProjectService(mt.Coll, mt.Coll, mt.Coll)
		_, err := svc.RemoveMember(context.Background(), projectID, admin, owner, models.RoleAdmin)
		assert.ErrorIs(mt, err, ErrInvalidOperation)
	})
}

func TestAddMember_Guards(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	projectID := primitive.NewObjectID()
	owner := primitive.NewObjectID()
	existing := primitive.NewObjectID()
	members := []models.Member{
		{User: owner, Role: models.MemberOwner},
		{User: existing, Role: models.MemberRegular},
	}

	mt.Run("duplicate member", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, projectDoc(projectID, members)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: existing},
				{Key: "name", Value: "Ana"},
				{Key: "email", Value: "ana@example.com"},
			}),
		)

		svc := NewProjectService(mt.Coll, mt.Coll, mt.Coll)
		_, err := svc.AddMember(context.Background(), projectID, owner, models.RoleMember, "ana@example.com", "")
		assert.ErrorIs(mt, err, ErrInvalidOperation)
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, projectDoc(projectID, members)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		svc := NewProjectService(mt.Coll, mt.Coll, mt.Coll)
		_, err := svc.AddMember(context.Background(), projectID, owner, models.RoleMember, "ghost@example.com", "")
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestDeleteProject_CascadesToTasks(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cascade", func(mt *mtest.T) {
		projectID := primitive.NewObjectID()
		owner := primitive.NewObjectID()

		ns := mt.DB.Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, projectDoc(projectID, []models.Member{
				{User: owner, Role: models.MemberOwner},
			})),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		svc := NewProjectService(mt.Coll, mt.Coll, mt.Coll)
		require.NoError(mt, svc.DeleteProject(context.Background(), projectID, owner, models.RoleMember))

		// The task delete must be issued alongside the project delete.
		deletes := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "delete" {
				deletes++
			}
		}
		assert.Equal(mt, 2, deletes)
	})
}

func TestProjectUpdate_SetFieldsPartial(t *testing.T) {
	budget := 2500.0
	update := ProjectUpdate{Budget: &budget}

	set, err := update.setFields()
	require.NoError(t, err)

	assert.Equal(t, budget, set["budget"])
	assert.NotContains(t, set, "name")
	assert.NotContains(t, set, "description")
	assert.NotContains(t, set, "progress")
}

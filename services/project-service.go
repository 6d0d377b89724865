package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tanmayshinde-006/ProjexFlow/models"
	"github.com/tanmayshinde-006/ProjexFlow/policies"
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	UsersCollection    *mongo.Collection
}

func NewProjectService(projectsCollection, tasksCollection, usersCollection *mongo.Collection) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projectsCollection,
		TasksCollection:    tasksCollection,
		UsersCollection:    usersCollection,
	}
}

// UserSummary is the member-facing slice of a user record.
type UserSummary struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Email  string             `bson:"email" json:"email"`
	Avatar string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

// ProjectDetail is a project with its membership and task list resolved.
type ProjectDetail struct {
	models.Project
	MemberUsers []UserSummary `json:"memberUsers"`
	Tasks       []models.Task `json:"tasks"`
}

func validateProjectFields(name, description string, startDate, endDate time.Time) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: please provide a project name", ErrValidation)
	}
	if len(name) > 100 {
		return fmt.Errorf("%w: project name cannot be more than 100 characters", ErrValidation)
	}
	if description == "" {
		return fmt.Errorf("%w: please provide a project description", ErrValidation)
	}
	if len(description) > 500 {
		return fmt.Errorf("%w: description cannot be more than 500 characters", ErrValidation)
	}
	if startDate.IsZero() {
		return fmt.Errorf("%w: please provide a start date", ErrValidation)
	}
	if endDate.IsZero() {
		return fmt.Errorf("%w: please provide an end date", ErrValidation)
	}
	return nil
}

// CreateProject inserts a new project with the creator as its sole owner
// member. Client-supplied members and progress are ignored.
func (s *ProjectService) CreateProject(ctx context.Context, creatorID primitive.ObjectID, project *models.Project) (*models.Project, error) {
	project.Name = strings.TrimSpace(project.Name)
	if err := validateProjectFields(project.Name, project.Description, project.StartDate, project.EndDate); err != nil {
		return nil, err
	}

	if project.Status == "" {
		project.Status = models.ProjectPlanning
	} else if !models.ValidProjectStatus(project.Status) {
		return nil, fmt.Errorf("%w: invalid project status %q", ErrValidation, project.Status)
	}
	if project.Priority == "" {
		project.Priority = models.PriorityMedium
	} else if !models.ValidPriority(project.Priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, project.Priority)
	}
	if project.Category == "" {
		project.Category = models.CategoryDevelopment
	} else if !models.ValidCategory(project.Category) {
		return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, project.Category)
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	now := time.Now()
	project.ID = primitive.NewObjectID()
	project.CreatedBy = creatorID
	project.CreatedAt = now
	project.UpdatedAt = now
	project.Progress = 0
	project.Members = []models.Member{
		{User: creatorID, Role: models.MemberOwner, JoinedAt: now},
	}

	result, err := s.ProjectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return project, nil
}

// GetProjects returns the projects the requester is a member of. Admins see
// only their own memberships here as well.
func (s *ProjectService) GetProjects(ctx context.Context, requesterID primitive.ObjectID) ([]models.Project, error) {
	cursor, err := s.ProjectsCollection.Find(ctx, bson.M{"members.user": requesterID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) loadProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: project not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	return &project, nil
}

// GetProject returns a single project with member users and tasks resolved.
func (s *ProjectService) GetProject(ctx context.Context, projectID, requesterID primitive.ObjectID, globalRole string) (*ProjectDetail, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to access this project", ErrPermissionDenied)
	}

	memberIDs := make([]primitive.ObjectID, 0, len(project.Members))
	for _, m := range project.Members {
		memberIDs = append(memberIDs, m.User)
	}

	userCursor, err := s.UsersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": memberIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project members: %w", err)
	}
	defer userCursor.Close(ctx)

	memberUsers := []UserSummary{}
	if err := userCursor.All(ctx, &memberUsers); err != nil {
		return nil, fmt.Errorf("failed to decode project members: %w", err)
	}

	taskCursor, err := s.TasksCollection.Find(ctx, bson.M{"project": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project tasks: %w", err)
	}
	defer taskCursor.Close(ctx)

	tasks := []models.Task{}
	if err := taskCursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode project tasks: %w", err)
	}

	return &ProjectDetail{Project: *project, MemberUsers: memberUsers, Tasks: tasks}, nil
}

// ProjectUpdate carries the updatable project fields. A nil field is left
// untouched. Members is accepted but discarded; membership changes go
// through the member endpoints only.
type ProjectUpdate struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	Status      *models.ProjectStatus `json:"status"`
	StartDate   *time.Time            `json:"startDate"`
	EndDate     *time.Time            `json:"endDate"`
	Priority    *models.Priority      `json:"priority"`
	Category    *models.Category      `json:"category"`
	Tags        *[]string             `json:"tags"`
	Budget      *float64              `json:"budget"`
	Members     json.RawMessage       `json:"members"`
}

func (u *ProjectUpdate) setFields() (bson.M, error) {
	set := bson.M{}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: please provide a project name", ErrValidation)
		}
		if len(name) > 100 {
			return nil, fmt.Errorf("%w: project name cannot be more than 100 characters", ErrValidation)
		}
		set["name"] = name
	}
	if u.Description != nil {
		if *u.Description == "" {
			return nil, fmt.Errorf("%w: please provide a project description", ErrValidation)
		}
		if len(*u.Description) > 500 {
			return nil, fmt.Errorf("%w: description cannot be more than 500 characters", ErrValidation)
		}
		set["description"] = *u.Description
	}
	if u.Status != nil {
		if !models.ValidProjectStatus(*u.Status) {
			return nil, fmt.Errorf("%w: invalid project status %q", ErrValidation, *u.Status)
		}
		set["status"] = *u.Status
	}
	if u.StartDate != nil {
		set["startDate"] = *u.StartDate
	}
	if u.EndDate != nil {
		set["endDate"] = *u.EndDate
	}
	if u.Priority != nil {
		if !models.ValidPriority(*u.Priority) {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *u.Priority)
		}
		set["priority"] = *u.Priority
	}
	if u.Category != nil {
		if !models.ValidCategory(*u.Category) {
			return nil, fmt.Errorf("%w: invalid category %q", ErrValidation, *u.Category)
		}
		set["category"] = *u.Category
	}
	if u.Tags != nil {
		set["tags"] = *u.Tags
	}
	if u.Budget != nil {
		set["budget"] = *u.Budget
	}
	return set, nil
}

// UpdateProject applies the provided fields. Requires the owner member role
// or a global admin.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, requesterID primitive.ObjectID, globalRole string, update *ProjectUpdate) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !policies.CanUpdateProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to update this project", ErrPermissionDenied)
	}

	set, err := update.setFields()
	if err != nil {
		return nil, err
	}
	set["updatedAt"] = time.Now()

	_, err = s.ProjectsCollection.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.loadProject(ctx, projectID)
}

// DeleteProject removes the project and cascades to all of its tasks.
// The task deletion and the project deletion are separate writes; a crash
// in between leaves the project without tasks, never orphaned tasks with a
// live project reference pointing nowhere new.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, requesterID primitive.ObjectID, globalRole string) error {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return err
	}

	if !policies.CanDeleteProject(project, requesterID, globalRole) {
		return fmt.Errorf("%w: not authorized to delete this project", ErrPermissionDenied)
	}

	if _, err := s.TasksCollection.DeleteMany(ctx, bson.M{"project": projectID}); err != nil {
		return fmt.Errorf("failed to delete project tasks: %w", err)
	}

	if _, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": projectID}); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AddMember invites a user to the project by email. The new member's role
// defaults to "member" when unspecified.
func (s *ProjectService) AddMember(ctx context.Context, projectID, requesterID primitive.ObjectID, globalRole, email, role string) (*models.Project, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: please provide user email", ErrValidation)
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !policies.CanManageMembers(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to add members to this project", ErrPermissionDenied)
	}

	var invitee models.User
	err = s.UsersCollection.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&invitee)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if policies.IsMember(project, invitee.ID) {
		return nil, fmt.Errorf("%w: user is already a member of this project", ErrInvalidOperation)
	}

	if role == "" {
		role = models.MemberRegular
	}
	if !models.ValidMemberRole(role) {
		return nil, fmt.Errorf("%w: invalid member role %q", ErrValidation, role)
	}

	member := models.Member{User: invitee.ID, Role: role, JoinedAt: time.Now()}
	_, err = s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{
			"$push": bson.M{"members": member},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return s.loadProject(ctx, projectID)
}

// RemoveMember removes a member from the project. The owner member can never
// be removed, regardless of who asks.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, requesterID, targetUserID primitive.ObjectID, globalRole string) (*models.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !policies.CanManageMembers(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to remove members from this project", ErrPermissionDenied)
	}

	if policies.HasRole(project, targetUserID, models.MemberOwner) {
		return nil, fmt.Errorf("%w: project owner cannot be removed", ErrInvalidOperation)
	}

	_, err = s.ProjectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user": targetUserID}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	return s.loadProject(ctx, projectID)
}

// RecalculateProgress re-derives the progress percentage on demand. Any
// project member can trigger it; this is also the repair path when a crash
// left the stored percentage stale.
func (s *ProjectService) RecalculateProgress(ctx context.Context, projectID, requesterID primitive.ObjectID, globalRole string) (int, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return 0, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return 0, fmt.Errorf("%w: not authorized to update this project", ErrPermissionDenied)
	}

	return recalculateProgress(ctx, s.TasksCollection, s.ProjectsCollection, projectID)
}

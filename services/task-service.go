package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tanmayshinde-006/ProjexFlow/models"
	"github.com/tanmayshinde-006/ProjexFlow/policies"
)

type TaskService struct {
	TasksCollection    *mongo.Collection
	ProjectsCollection *mongo.Collection
}

func NewTaskService(tasksCollection, projectsCollection *mongo.Collection) *TaskService {
	return &TaskService{
		TasksCollection:    tasksCollection,
		ProjectsCollection: projectsCollection,
	}
}

// TaskInput is the create-task request payload. AssignedTo stays a string
// here: clients send an empty string for "unassigned" and that must be
// dropped rather than rejected.
type TaskInput struct {
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Status         models.TaskStatus `json:"status"`
	Priority       models.Priority   `json:"priority"`
	DueDate        time.Time         `json:"dueDate"`
	Project        string            `json:"project"`
	AssignedTo     string            `json:"assignedTo"`
	EstimatedHours float64           `json:"estimatedHours"`
	ActualHours    float64           `json:"actualHours"`
	Tags           []string          `json:"tags"`
}

func validateTaskFields(title, description string, dueDate time.Time) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: please provide a task title", ErrValidation)
	}
	if len(title) > 100 {
		return fmt.Errorf("%w: task title cannot be more than 100 characters", ErrValidation)
	}
	if description == "" {
		return fmt.Errorf("%w: please provide a task description", ErrValidation)
	}
	if len(description) > 500 {
		return fmt.Errorf("%w: description cannot be more than 500 characters", ErrValidation)
	}
	if dueDate.IsZero() {
		return fmt.Errorf("%w: please provide a due date", ErrValidation)
	}
	return nil
}

func (s *TaskService) loadProject(ctx context.Context, projectID primitive.ObjectID) (*models.Project, error) {
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

func (s *TaskService) loadTask(ctx context.Context, taskID primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := s.TasksCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: task not found", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

// loadTaskWithProject resolves a task and its owning project for the
// membership check.
func (s *TaskService) loadTaskWithProject(ctx context.Context, taskID primitive.ObjectID) (*models.Task, *models.Project, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	project, err := s.loadProject(ctx, task.Project)
	if err != nil {
		return nil, nil, err
	}
	return task, project, nil
}

// resolveAssignee parses the optional assignedTo value. An empty string
// means unassigned and is not an error.
func resolveAssignee(assignedTo string) (*primitive.ObjectID, error) {
	if assignedTo == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(assignedTo)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid assignedTo user ID", ErrValidation)
	}
	return &id, nil
}

// CreateTask inserts a task into an existing project the creator belongs to
// and recalculates the project's progress.
func (s *TaskService) CreateTask(ctx context.Context, creatorID primitive.ObjectID, globalRole string, input *TaskInput) (*models.Task, error) {
	if input.Project == "" {
		return nil, fmt.Errorf("%w: please provide a project", ErrValidation)
	}
	projectID, err := primitive.ObjectIDFromHex(input.Project)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid project ID", ErrValidation)
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !policies.CanCreateTask(project, creatorID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to create tasks in this project", ErrPermissionDenied)
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := validateTaskFields(input.Title, input.Description, input.DueDate); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.StatusToDo
	} else if !models.ValidTaskStatus(status) {
		return nil, fmt.Errorf("%w: invalid task status %q", ErrValidation, status)
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	} else if !models.ValidPriority(priority) {
		return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, priority)
	}

	assignee, err := resolveAssignee(input.AssignedTo)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		ID:             primitive.NewObjectID(),
		Title:          input.Title,
		Description:    input.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        input.DueDate,
		Project:        projectID,
		AssignedTo:     assignee,
		CreatedBy:      creatorID,
		CreatedAt:      now,
		UpdatedAt:      now,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    input.ActualHours,
		Tags:           input.Tags,
		Attachments:    []models.Attachment{},
		Comments:       []models.Comment{},
		Subtasks:       []models.Subtask{},
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if status == models.StatusCompleted {
		task.CompletedAt = &now
	}

	result, err := s.TasksCollection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	if _, err := recalculateProgress(ctx, s.TasksCollection, s.ProjectsCollection, projectID); err != nil {
		return nil, err
	}

	return task, nil
}

// GetTask returns a single task after checking membership on its project.
func (s *TaskService) GetTask(ctx context.Context, taskID, requesterID primitive.ObjectID, globalRole string) (*models.Task, error) {
	task, project, err := s.loadTaskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to access this task", ErrPermissionDenied)
	}

	return task, nil
}

// TaskUpdate carries the updatable task fields; nil fields stay untouched.
// An explicit empty AssignedTo clears the assignee.
type TaskUpdate struct {
	Title          *string            `json:"title"`
	Description    *string            `json:"description"`
	Status         *models.TaskStatus `json:"status"`
	Priority       *models.Priority   `json:"priority"`
	DueDate        *time.Time         `json:"dueDate"`
	AssignedTo     *string            `json:"assignedTo"`
	EstimatedHours *float64           `json:"estimatedHours"`
	ActualHours    *float64           `json:"actualHours"`
	Tags           *[]string          `json:"tags"`
}

// statusChangeFields returns the $set fields for a status transition.
// completedAt is stamped only the first time a task reaches completed;
// later transitions, in either direction, leave it alone.
func statusChangeFields(task *models.Task, status models.TaskStatus, now time.Time) bson.M {
	set := bson.M{"status": status}
	if status == models.StatusCompleted && task.CompletedAt == nil {
		set["completedAt"] = now
	}
	return set
}

// UpdateTask applies the provided fields. The owning project's progress is
// recalculated only when the payload contained a status.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, requesterID primitive.ObjectID, globalRole string, update *TaskUpdate) (*models.Task, error) {
	task, project, err := s.loadTaskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to update this task", ErrPermissionDenied)
	}

	now := time.Now()
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: please provide a task title", ErrValidation)
		}
		if len(title) > 100 {
			return nil, fmt.Errorf("%w: task title cannot be more than 100 characters", ErrValidation)
		}
		set["title"] = title
	}
	if update.Description != nil {
		if *update.Description == "" {
			return nil, fmt.Errorf("%w: please provide a task description", ErrValidation)
		}
		if len(*update.Description) > 500 {
			return nil, fmt.Errorf("%w: description cannot be more than 500 characters", ErrValidation)
		}
		set["description"] = *update.Description
	}
	if update.Status != nil {
		if !models.ValidTaskStatus(*update.Status) {
			return nil, fmt.Errorf("%w: invalid task status %q", ErrValidation, *update.Status)
		}
		for k, v := range statusChangeFields(task, *update.Status, now) {
			set[k] = v
		}
	}
	if update.Priority != nil {
		if !models.ValidPriority(*update.Priority) {
			return nil, fmt.Errorf("%w: invalid priority %q", ErrValidation, *update.Priority)
		}
		set["priority"] = *update.Priority
	}
	if update.DueDate != nil {
		set["dueDate"] = *update.DueDate
	}
	if update.AssignedTo != nil {
		assignee, err := resolveAssignee(*update.AssignedTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			unset["assignedTo"] = ""
		} else {
			set["assignedTo"] = *assignee
		}
	}
	if update.EstimatedHours != nil {
		set["estimatedHours"] = *update.EstimatedHours
	}
	if update.ActualHours != nil {
		set["actualHours"] = *update.ActualHours
	}
	if update.Tags != nil {
		set["tags"] = *update.Tags
	}

	updateDoc := bson.M{"$set": set}
	if len(unset) > 0 {
		updateDoc["$unset"] = unset
	}

	if _, err := s.TasksCollection.UpdateOne(ctx, bson.M{"_id": taskID}, updateDoc); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if update.Status != nil {
		if _, err := recalculateProgress(ctx, s.TasksCollection, s.ProjectsCollection, task.Project); err != nil {
			return nil, err
		}
	}

	return s.loadTask(ctx, taskID)
}

// DeleteTask removes a task. Owners and managers of the project may delete
// any task; the task's own creator may delete it too.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, requesterID primitive.ObjectID, globalRole string) error {
	task, project, err := s.loadTaskWithProject(ctx, taskID)
	if err != nil {
		return err
	}

	if !policies.CanDeleteTask(project, task, requesterID, globalRole) {
		return fmt.Errorf("%w: not authorized to delete this task", ErrPermissionDenied)
	}

	if _, err := s.TasksCollection.DeleteOne(ctx, bson.M{"_id": taskID}); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if _, err := recalculateProgress(ctx, s.TasksCollection, s.ProjectsCollection, task.Project); err != nil {
		return err
	}

	return nil
}

// AddComment prepends a comment to the task's comment list (newest first).
// Comments do not affect project progress.
func (s *TaskService) AddComment(ctx context.Context, taskID, requesterID primitive.ObjectID, globalRole, text string) ([]models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: please provide comment text", ErrValidation)
	}

	_, project, err := s.loadTaskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to comment on this task", ErrPermissionDenied)
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      requesterID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	_, err = s.TasksCollection.UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{
			"$push": bson.M{"comments": bson.M{"$each": []models.Comment{comment}, "$position": 0}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task.Comments, nil
}

// AddSubtask appends an uncompleted subtask. Subtasks do not affect project
// progress.
func (s *TaskService) AddSubtask(ctx context.Context, taskID, requesterID primitive.ObjectID, globalRole, title string) ([]models.Subtask, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: please provide subtask title", ErrValidation)
	}

	_, project, err := s.loadTaskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to add subtasks to this task", ErrPermissionDenied)
	}

	subtask := models.Subtask{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Completed: false,
	}

	_, err = s.TasksCollection.UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{
			"$push": bson.M{"subtasks": subtask},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}

	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task.Subtasks, nil
}

// UpdateSubtask sets a subtask's completion flag. The flag must be provided
// explicitly; false is a valid value, not a missing one.
func (s *TaskService) UpdateSubtask(ctx context.Context, taskID, subtaskID, requesterID primitive.ObjectID, globalRole string, completed *bool) ([]models.Subtask, error) {
	if completed == nil {
		return nil, fmt.Errorf("%w: please provide completion status", ErrValidation)
	}

	task, project, err := s.loadTaskWithProject(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to update subtasks in this task", ErrPermissionDenied)
	}

	found := false
	for _, st := range task.Subtasks {
		if st.ID == subtaskID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: subtask not found", ErrNotFound)
	}

	_, err = s.TasksCollection.UpdateOne(ctx,
		bson.M{"_id": taskID, "subtasks._id": subtaskID},
		bson.M{"$set": bson.M{"subtasks.$.completed": *completed, "updatedAt": time.Now()}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}

	updated, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return updated.Subtasks, nil
}

// GetProjectTasks lists all tasks of a project the requester belongs to.
func (s *TaskService) GetProjectTasks(ctx context.Context, projectID, requesterID primitive.ObjectID, globalRole string) ([]models.Task, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if !policies.CanViewProject(project, requesterID, globalRole) {
		return nil, fmt.Errorf("%w: not authorized to access tasks in this project", ErrPermissionDenied)
	}

	cursor, err := s.TasksCollection.Find(ctx, bson.M{"project": projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// GetMyTasks lists tasks assigned to the requester across all projects.
// The query is already scoped to the requester, so no membership check.
func (s *TaskService) GetMyTasks(ctx context.Context, requesterID primitive.ObjectID) ([]models.Task, error) {
	cursor, err := s.TasksCollection.Find(ctx, bson.M{"assignedTo": requesterID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

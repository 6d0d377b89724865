package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "to-do"
	StatusInProgress TaskStatus = "in-progress"
	StatusInReview   TaskStatus = "in-review"
	StatusCompleted  TaskStatus = "completed"
)

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Subtask struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Completed bool               `bson:"completed" json:"completed"`
}

type Attachment struct {
	Name       string    `bson:"name" json:"name"`
	FileURL    string    `bson:"fileUrl" json:"fileUrl"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      TaskStatus          `bson:"status" json:"status"`
	Priority    Priority            `bson:"priority" json:"priority"`
	DueDate     time.Time           `bson:"dueDate" json:"dueDate"`
	Project     primitive.ObjectID  `bson:"project" json:"project"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
	// CompletedAt records the first time the task reached the completed
	// status. It is never cleared or overwritten afterwards.
	CompletedAt    *time.Time   `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	EstimatedHours float64      `bson:"estimatedHours" json:"estimatedHours"`
	ActualHours    float64      `bson:"actualHours" json:"actualHours"`
	Tags           []string     `bson:"tags" json:"tags"`
	Attachments    []Attachment `bson:"attachments" json:"attachments"`
	Comments       []Comment    `bson:"comments" json:"comments"`
	Subtasks       []Subtask    `bson:"subtasks" json:"subtasks"`
}

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusCompleted:
		return true
	}
	return false
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectOnHold     ProjectStatus = "on-hold"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Category string

const (
	CategoryDevelopment Category = "development"
	CategoryDesign      Category = "design"
	CategoryMarketing   Category = "marketing"
	CategoryResearch    Category = "research"
	CategoryOther       Category = "other"
)

// Member roles within a project. Exactly one owner exists per project,
// inserted at creation time and never removable.
const (
	MemberOwner   = "owner"
	MemberManager = "manager"
	MemberRegular = "member"
)

type Member struct {
	User     primitive.ObjectID `bson:"user" json:"user"`
	Role     string             `bson:"role" json:"role"`
	JoinedAt time.Time          `bson:"joinedAt" json:"joinedAt"`
}

type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Status      ProjectStatus      `bson:"status" json:"status"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"`
	EndDate     time.Time          `bson:"endDate" json:"endDate"`
	Members     []Member           `bson:"members" json:"members"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Category    Category           `bson:"category" json:"category"`
	Tags        []string           `bson:"tags" json:"tags"`
	Budget      float64            `bson:"budget" json:"budget"`
	// Progress is derived from task completion and is never set by clients.
	Progress int `bson:"progress" json:"progress"`
}

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidCategory(c Category) bool {
	switch c {
	case CategoryDevelopment, CategoryDesign, CategoryMarketing, CategoryResearch, CategoryOther:
		return true
	}
	return false
}

func ValidMemberRole(role string) bool {
	return role == MemberOwner || role == MemberManager || role == MemberRegular
}

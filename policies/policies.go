// Package policies holds the authorization decision functions shared by the
// project and task aggregates.
//
// Authorization rules:
//   - A user with the global "admin" account role is authorized for every
//     action regardless of project membership.
//   - Reading a project or task, listing project tasks, updating a task,
//     commenting and managing subtasks require project membership.
//   - Updating or deleting a project requires the owner member role.
//   - Managing project membership requires the owner or manager role.
//   - Deleting a task requires owner/manager, or being the task's creator.
package policies

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tanmayshinde-006/ProjexFlow/models"
)

// IsMember reports whether userID appears in the project's member list.
func IsMember(project *models.Project, userID primitive.ObjectID) bool {
	for _, m := range project.Members {
		if m.User == userID {
			return true
		}
	}
	return false
}

// HasRole reports whether userID is a member of the project with one of the
// given member roles.
func HasRole(project *models.Project, userID primitive.ObjectID, roles ...string) bool {
	for _, m := range project.Members {
		if m.User != userID {
			continue
		}
		for _, role := range roles {
			if m.Role == role {
				return true
			}
		}
	}
	return false
}

func isAdmin(globalRole string) bool {
	return globalRole == models.RoleAdmin
}

// CanViewProject covers reading a project, listing its tasks, reading and
// updating tasks, commenting and subtask management.
func CanViewProject(project *models.Project, userID primitive.ObjectID, globalRole string) bool {
	return isAdmin(globalRole) || IsMember(project, userID)
}

// CanCreateTask requires project membership.
func CanCreateTask(project *models.Project, userID primitive.ObjectID, globalRole string) bool {
	return isAdmin(globalRole) || IsMember(project, userID)
}

// CanUpdateProject requires the owner member role.
func CanUpdateProject(project *models.Project, userID primitive.ObjectID, globalRole string) bool {
	return isAdmin(globalRole) || HasRole(project, userID, models.MemberOwner)
}

// CanDeleteProject requires the owner member role.
func CanDeleteProject(project *models.Project, userID primitive.ObjectID, globalRole string) bool {
	return isAdmin(globalRole) || HasRole(project, userID, models.MemberOwner)
}

// CanManageMembers covers adding and removing project members.
func CanManageMembers(project *models.Project, userID primitive.ObjectID, globalRole string) bool {
	return isAdmin(globalRole) || HasRole(project, userID, models.MemberOwner, models.MemberManager)
}

// CanDeleteTask allows owners and managers of the owning project, the task's
// own creator, and global admins.
func CanDeleteTask(project *models.Project, task *models.Task, userID primitive.ObjectID, globalRole string) bool {
	if isAdmin(globalRole) {
		return true
	}
	if task.CreatedBy == userID {
		return true
	}
	return HasRole(project, userID, models.MemberOwner, models.MemberManager)
}

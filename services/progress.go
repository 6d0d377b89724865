package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tanmayshinde-006/ProjexFlow/models"
)

// progressPercent computes the completion percentage for a project,
// rounding the quotient half-up. A project with no tasks is at 0%.
func progressPercent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// recalculateProgress derives a project's progress from its tasks and
// persists it onto the project record. Called synchronously after every
// task mutation that can change completion state. The read-compute-write
// sequence is not atomic; a stale percentage is repaired by the next
// recalculation (PUT /api/projects/{id}/progress forces one).
func recalculateProgress(ctx context.Context, tasksCollection, projectsCollection *mongo.Collection, projectID primitive.ObjectID) (int, error) {
	cursor, err := tasksCollection.Find(ctx, bson.M{"project": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to load tasks for progress: %w", err)
	}
	defer cursor.Close(ctx)

	total := 0
	completed := 0
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return 0, fmt.Errorf("failed to decode task: %w", err)
		}
		total++
		if task.Status == models.StatusCompleted {
			completed++
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("cursor error: %w", err)
	}

	percent := progressPercent(completed, total)

	_, err = projectsCollection.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$set": bson.M{"progress": percent, "updatedAt": time.Now()}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to persist progress: %w", err)
	}

	return percent, nil
}

package models

import (
	"time"

	"github.com/taskhub/taskhub-rest/database"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

func (status TaskStatus) IsValid() bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is an owned resource. UserId is the owner's principal id, assigned at
// creation and immutable thereafter; ownership is the sole authorization
// predicate for reads, updates and deletes.
type Task struct {
	Id          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Status      TaskStatus    `bson:"status" json:"status"`
	UserId      bson.ObjectID `bson:"userId" json:"userId"`
	Created     time.Time     `bson:"created,omitempty" json:"created"`
	Modified    time.Time     `bson:"modified,omitempty" json:"modified"`
}

func (Task) GetTableName() string {
	return "tasks"
}

func (Task) GetModelName() string {
	return "Task"
}

func (Task) GetConnectorName() string {
	return "mongodb"
}

func (task Task) GetId() any {
	return task.Id
}

func (Task) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("userId", false),
		database.NewMongoCompoundIndex("userId_1_status_1", []database.IndexField{
			{Name: "userId", Order: 1},
			{Name: "status", Order: 1},
		}, false),
	}
}

// BeforeCreate applies the default status.
func (task *Task) BeforeCreate() error {
	if task.Status == "" {
		task.Status = TaskStatusPending
	}
	return nil
}

// Package models defines the persisted documents and their index
// declarations.
package models

import (
	"time"

	"github.com/taskhub/taskhub-rest/auth"
	"github.com/taskhub/taskhub-rest/database"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// User is a registered principal. The id is assigned at creation and never
// changes; the role set may grow by promotion but never shrinks. The password
// field holds the bcrypt hash and is never serialized to JSON.
type User struct {
	Id       bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username string        `bson:"username" json:"username"`
	Email    string        `bson:"email" json:"email"`
	Password string        `bson:"password" json:"-"`
	Roles    []string      `bson:"roles" json:"roles"`
	Created  time.Time     `bson:"created,omitempty" json:"created"`
	Modified time.Time     `bson:"modified,omitempty" json:"modified"`
}

func (User) GetTableName() string {
	return "users"
}

func (User) GetModelName() string {
	return "User"
}

func (User) GetConnectorName() string {
	return "mongodb"
}

func (user User) GetId() any {
	return user.Id
}

func (User) DefineMongoIndexes() []database.MongoIndexDefinition {
	return []database.MongoIndexDefinition{
		database.NewMongoSimpleIndex("username", true),
		database.NewMongoSimpleIndex("email", true),
	}
}

// Identity materializes the per-request identity for this user.
func (user *User) Identity() *auth.Identity {
	return &auth.Identity{
		UserID:   user.Id.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
	}
}

package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User owns its posts list and following set; both are mutated only through
// the atomic storage primitives, never by loading and rewriting the document.
type User struct {
	Id        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FirstName string               `bson:"first_name,omitempty" json:"firstName"`
	LastName  string               `bson:"last_name,omitempty" json:"lastName"`
	UserName  string               `bson:"user_name,omitempty" json:"userName"`
	Bio       string               `bson:"bio,omitempty" json:"bio"`
	Email     string               `bson:"email,omitempty" json:"email"`
	Password  string               `bson:"password" json:"-"`
	Posts     []primitive.ObjectID `bson:"posts" json:"posts"`
	Following []primitive.ObjectID `bson:"following" json:"following"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsFollowing(otherId primitive.ObjectID) bool {
	for _, id := range u.Following {
		if id == otherId {
			return true
		}
	}
	return false
}

// AnnotatedUser is a user as seen by another one, carrying whether the
// requester currently follows them.
type AnnotatedUser struct {
	User
	BeingFollowed bool `json:"beingFollowed"`
}

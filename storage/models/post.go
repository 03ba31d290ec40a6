package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorId  primitive.ObjectID `bson:"author_id" json:"userId"`
	Body      string             `bson:"body" json:"body"`
	ImageUrl  string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"timeStamp"`
}

// DecoratedPost is a post enriched with its author's display fields for
// presentation.
type DecoratedPost struct {
	Post
	FullName string `json:"fullName"`
	UserName string `json:"userName"`
}

package service

import (
	"context"
	"time"

	"chirp/auth"
	"chirp/domain"
	"chirp/storage/models"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Feed returns the requested user's feed. Only the owner may read it.
func (s *Service) Feed(ctx context.Context, identity auth.Identity, userId string) ([]models.DecoratedPost, error) {
	if err := auth.RequireOwner(identity, userId); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.aggregator.BuildFeed(ctx, id)
}

func (s *Service) GetPost(ctx context.Context, identity auth.Identity, postId string) (*models.Post, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.store.GetPost(ctx, id)
}

func (s *Service) CreatePost(
	ctx context.Context,
	identity auth.Identity,
	userId string,
	body string,
	imageUrl string,
) (*models.DecoratedPost, error) {
	if err := auth.RequireOwner(identity, userId); err != nil {
		return nil, err
	}
	if body == "" {
		return nil, domain.ErrInvalidInput
	}
	authorId, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	author, err := s.store.GetUserById(ctx, authorId)
	if err != nil {
		return nil, err
	}

	post, err := s.store.InsertPost(ctx, models.Post{
		AuthorId:  authorId,
		Body:      body,
		ImageUrl:  imageUrl,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	if err = s.store.AppendPostRef(ctx, authorId, post.Id); err != nil {
		return nil, err
	}

	return &models.DecoratedPost{
		Post:     *post,
		FullName: author.FullName(),
		UserName: author.UserName,
	}, nil
}

// UpdatePost requires authentication but not ownership: any authenticated
// identity may edit any post's body, matching the reference behavior.
func (s *Service) UpdatePost(
	ctx context.Context,
	identity auth.Identity,
	postId string,
	body string,
) (*models.DecoratedPost, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	post, err := s.store.UpdatePostBody(ctx, id, body)
	if err != nil {
		return nil, err
	}

	displays, err := s.store.GetUserDisplays(ctx, []primitive.ObjectID{post.AuthorId})
	if err != nil {
		return nil, err
	}
	display := displays[post.AuthorId]
	return &models.DecoratedPost{
		Post:     *post,
		FullName: display.FullName,
		UserName: display.UserName,
	}, nil
}

// DeletePost requires authentication but not ownership, matching the
// reference behavior. The post id is also pulled from its author's posts
// list.
func (s *Service) DeletePost(ctx context.Context, identity auth.Identity, postId string) (*models.Post, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	post, err := s.store.DeletePost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.store.RemovePostRef(ctx, post.AuthorId, post.Id); err != nil {
		log.Errorf("Error removing reference to deleted post %s: %v", postId, err)
	}
	return post, nil
}

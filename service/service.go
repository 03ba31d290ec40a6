package service

import (
	"context"
	"errors"
	"time"

	"chirp/auth"
	"chirp/cache"
	"chirp/domain"
	"chirp/feeds"
	"chirp/storage/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the persistent-store contract the business layer consumes. The
// follow set and posts list are mutated only through the atomic primitives
// (AddFollow/RemoveFollow/AppendPostRef/RemovePostRef).
type Store interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserById(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListOtherUsers(ctx context.Context, excludeId primitive.ObjectID) ([]models.User, error)
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, firstName, lastName, bio string) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)

	AddFollow(ctx context.Context, userId, targetId primitive.ObjectID) (bool, error)
	RemoveFollow(ctx context.Context, userId, targetId primitive.ObjectID) (bool, error)
	AppendPostRef(ctx context.Context, userId, postId primitive.ObjectID) error
	RemovePostRef(ctx context.Context, userId, postId primitive.ObjectID) error

	InsertPost(ctx context.Context, post models.Post) (*models.Post, error)
	GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByAuthors(ctx context.Context, authorIds []primitive.ObjectID) ([]models.Post, error)
	GetPostsByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	UpdatePostBody(ctx context.Context, id primitive.ObjectID, body string) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetUserDisplays(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]cache.UserDisplay, error)
}

// Service implements the authenticated operation surface on top of a Store.
type Service struct {
	store       Store
	credentials *auth.Credentials
	aggregator  *feeds.Aggregator
}

func NewService(store Store, credentials *auth.Credentials) *Service {
	return &Service{
		store:       store,
		credentials: credentials,
		aggregator:  feeds.NewAggregator(store),
	}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredential
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}
	if !s.credentials.CheckPassword(password, user.Password) {
		return nil, domain.ErrInvalidCredential
	}

	token, err := s.credentials.IssueToken(user.Id.Hex(), time.Now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

type CreateUserInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
}

func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	hashedPassword, err := s.credentials.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	return s.store.CreateUser(ctx, models.User{
		Email:     input.Email,
		Password:  hashedPassword,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		UserName:  input.UserName,
	})
}

func (s *Service) UpdateUser(
	ctx context.Context,
	identity auth.Identity,
	userId string,
	firstName, lastName, bio string,
) (*models.User, error) {
	if err := auth.RequireOwner(identity, userId); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.store.UpdateUserProfile(ctx, id, firstName, lastName, bio)
}

// DeleteUser returns the deleted user, or nil without error when no user
// exists under the given id.
func (s *Service) DeleteUser(ctx context.Context, identity auth.Identity, userId string) (*models.User, error) {
	if err := auth.RequireOwner(identity, userId); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		return nil, nil
	}

	user, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) CurrentUser(ctx context.Context, identity auth.Identity) (*models.User, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(identity.UserId)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	return s.store.GetUserById(ctx, id)
}

// ListUsers returns every other user, annotated with whether the requester
// currently follows them.
func (s *Service) ListUsers(ctx context.Context, identity auth.Identity) ([]models.AnnotatedUser, error) {
	requester, err := s.CurrentUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	users, err := s.store.ListOtherUsers(ctx, requester.Id)
	if err != nil {
		return nil, err
	}

	annotated := make([]models.AnnotatedUser, len(users))
	for i, user := range users {
		annotated[i] = models.AnnotatedUser{
			User:          user,
			BeingFollowed: requester.IsFollowing(user.Id),
		}
	}
	return annotated, nil
}

// ToggleFollowing flips the follow edge from the requester to the target:
// present is removed, absent is added, exactly one of the two per call. The
// target is not checked for existence; toggling a follow on a nonexistent
// user succeeds silently. Returns the requester's resulting following set.
func (s *Service) ToggleFollowing(
	ctx context.Context,
	identity auth.Identity,
	otherUserId string,
) ([]primitive.ObjectID, error) {
	if err := auth.RequireAuthenticated(identity); err != nil {
		return nil, err
	}
	userId, err := primitive.ObjectIDFromHex(identity.UserId)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	targetId, err := primitive.ObjectIDFromHex(otherUserId)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	added, err := s.store.AddFollow(ctx, userId, targetId)
	if err != nil {
		return nil, err
	}
	if !added {
		if _, err = s.store.RemoveFollow(ctx, userId, targetId); err != nil {
			return nil, err
		}
	}

	user, err := s.store.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}
	return user.Following, nil
}

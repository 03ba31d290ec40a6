package service

import (
	"context"
	"sync"

	"chirp/cache"
	"chirp/domain"
	"chirp/storage/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory Store with the same per-call atomicity as the
// Mongo-backed manager: every mutation of a user's embedded collections
// happens under one lock acquisition.
type memStore struct {
	mu        sync.Mutex
	users     map[primitive.ObjectID]*models.User
	posts     map[primitive.ObjectID]*models.Post
	postOrder []primitive.ObjectID
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[primitive.ObjectID]*models.User),
		posts: make(map[primitive.ObjectID]*models.Post),
	}
}

func copyUser(user *models.User) *models.User {
	copied := *user
	copied.Posts = append([]primitive.ObjectID(nil), user.Posts...)
	copied.Following = append([]primitive.ObjectID(nil), user.Following...)
	return &copied
}

func (s *memStore) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	user.Id = primitive.NewObjectID()
	user.Posts = make([]primitive.ObjectID, 0)
	user.Following = make([]primitive.ObjectID, 0)
	s.users[user.Id] = copyUser(&user)
	return &user, nil
}

func (s *memStore) GetUserById(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(user), nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memStore) ListOtherUsers(_ context.Context, excludeId primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var users []models.User
	for id, user := range s.users {
		if id != excludeId {
			users = append(users, *copyUser(user))
		}
	}
	return users, nil
}

func (s *memStore) UpdateUserProfile(
	_ context.Context,
	id primitive.ObjectID,
	firstName, lastName, bio string,
) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Bio = bio
	return copyUser(user), nil
}

func (s *memStore) DeleteUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// deletion is keyed by the email on record
	for otherId, other := range s.users {
		if other.Email == user.Email {
			delete(s.users, otherId)
			break
		}
	}
	return copyUser(user), nil
}

func (s *memStore) AddFollow(_ context.Context, userId, targetId primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userId]
	if !ok {
		return false, nil
	}
	for _, id := range user.Following {
		if id == targetId {
			return false, nil
		}
	}
	user.Following = append(user.Following, targetId)
	return true, nil
}

func (s *memStore) RemoveFollow(_ context.Context, userId, targetId primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userId]
	if !ok {
		return false, nil
	}
	for i, id := range user.Following {
		if id == targetId {
			user.Following = append(user.Following[:i], user.Following[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) AppendPostRef(_ context.Context, userId, postId primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[userId]; ok {
		user.Posts = append(user.Posts, postId)
	}
	return nil
}

func (s *memStore) RemovePostRef(_ context.Context, userId, postId primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userId]
	if !ok {
		return nil
	}
	for i, id := range user.Posts {
		if id == postId {
			user.Posts = append(user.Posts[:i], user.Posts[i+1:]...)
			break
		}
	}
	return nil
}

func (s *memStore) InsertPost(_ context.Context, post models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post.Id = primitive.NewObjectID()
	copied := post
	s.posts[post.Id] = &copied
	s.postOrder = append(s.postOrder, post.Id)
	return &post, nil
}

func (s *memStore) GetPost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (s *memStore) GetPostsByAuthors(_ context.Context, authorIds []primitive.ObjectID) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []models.Post
	for _, postId := range s.postOrder {
		post, ok := s.posts[postId]
		if !ok {
			continue
		}
		for _, authorId := range authorIds {
			if post.AuthorId == authorId {
				posts = append(posts, *post)
				break
			}
		}
	}
	return posts, nil
}

func (s *memStore) GetPostsByIds(_ context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []models.Post
	for _, postId := range s.postOrder {
		post, ok := s.posts[postId]
		if !ok {
			continue
		}
		for _, id := range ids {
			if post.Id == id {
				posts = append(posts, *post)
				break
			}
		}
	}
	return posts, nil
}

func (s *memStore) UpdatePostBody(_ context.Context, id primitive.ObjectID, body string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	post.Body = body
	copied := *post
	return &copied, nil
}

func (s *memStore) DeletePost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(s.posts, id)
	copied := *post
	return &copied, nil
}

func (s *memStore) GetUserDisplays(
	_ context.Context,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]cache.UserDisplay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	displays := make(map[primitive.ObjectID]cache.UserDisplay)
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			displays[id] = cache.UserDisplay{
				FullName: user.FullName(),
				UserName: user.UserName,
			}
		}
	}
	return displays, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chirp/cache"
	"chirp/domain"
	"chirp/storage/models"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"
const postsCollection = "posts"

// Manager is the document-store gateway. Mutations of the embedded `posts`
// and `following` collections go through single filtered update operations
// ($push guarded by the filter, $pull), so concurrent operations on the same
// user cannot lose updates the way load-modify-save would.
type Manager struct {
	dbConnection *mongo.Database
	usersCache   cache.UsersCache
}

func NewManager(
	dbConnection *mongo.Database,
	redisConnection *redis.Client,
	usersCacheExpiration time.Duration,
) *Manager {
	return &Manager{
		dbConnection: dbConnection,
		usersCache:   cache.NewUsersCache(redisConnection, usersCacheExpiration),
	}
}

func (m *Manager) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	coll := m.dbConnection.Collection(usersCollection)

	err := coll.FindOne(ctx, bson.D{{Key: "email", Value: user.Email}}).Err()
	if err == nil {
		return nil, domain.ErrAlreadyExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("looking up user by email: %w", err)
	}

	user.Posts = make([]primitive.ObjectID, 0)
	user.Following = make([]primitive.ObjectID, 0)

	result, err := coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	user.Id = result.InsertedID.(primitive.ObjectID)
	return &user, nil
}

func (m *Manager) GetUserById(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	coll := m.dbConnection.Collection(usersCollection)

	var user models.User
	err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

func (m *Manager) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	coll := m.dbConnection.Collection(usersCollection)

	var user models.User
	err := coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return &user, nil
}

func (m *Manager) ListOtherUsers(ctx context.Context, excludeId primitive.ObjectID) ([]models.User, error) {
	coll := m.dbConnection.Collection(usersCollection)

	usersCursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$ne": excludeId}})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	var users []models.User
	if err = usersCursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpdateUserProfile overwrites the profile fields. This is a full replace:
// fields the caller left empty end up empty on the document.
func (m *Manager) UpdateUserProfile(
	ctx context.Context,
	id primitive.ObjectID,
	firstName string,
	lastName string,
	bio string,
) (*models.User, error) {
	coll := m.dbConnection.Collection(usersCollection)

	var user models.User
	err := coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.M{
			"$set": bson.M{
				"first_name": firstName,
				"last_name":  lastName,
				"bio":        bio,
			},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("updating user profile: %w", err)
	}

	m.usersCache.SetUserDisplay(user.Id.Hex(), cache.UserDisplay{
		FullName: user.FullName(),
		UserName: user.UserName,
	})
	return &user, nil
}

// DeleteUser removes the user record keyed by the email on the loaded
// document, mirroring the reference behavior.
func (m *Manager) DeleteUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := m.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}

	coll := m.dbConnection.Collection(usersCollection)
	if _, err = coll.DeleteOne(ctx, bson.D{{Key: "email", Value: user.Email}}); err != nil {
		return nil, fmt.Errorf("deleting user: %w", err)
	}

	m.usersCache.DeleteUser(id.Hex())
	return user, nil
}

// AddFollow adds target to the user's following set if absent. The presence
// check lives in the update filter, making check-and-add one atomic operation.
// Reports whether the set changed.
func (m *Manager) AddFollow(ctx context.Context, userId, targetId primitive.ObjectID) (bool, error) {
	coll := m.dbConnection.Collection(usersCollection)

	result, err := coll.UpdateOne(
		ctx,
		bson.M{"_id": userId, "following": bson.M{"$ne": targetId}},
		bson.M{"$push": bson.M{"following": targetId}},
	)
	if err != nil {
		return false, fmt.Errorf("adding follow: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveFollow removes target from the user's following set if present.
// Reports whether the set changed.
func (m *Manager) RemoveFollow(ctx context.Context, userId, targetId primitive.ObjectID) (bool, error) {
	coll := m.dbConnection.Collection(usersCollection)

	result, err := coll.UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		bson.M{"$pull": bson.M{"following": targetId}},
	)
	if err != nil {
		return false, fmt.Errorf("removing follow: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (m *Manager) AppendPostRef(ctx context.Context, userId, postId primitive.ObjectID) error {
	coll := m.dbConnection.Collection(usersCollection)

	_, err := coll.UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		bson.M{"$push": bson.M{"posts": postId}},
	)
	if err != nil {
		return fmt.Errorf("appending post reference: %w", err)
	}
	return nil
}

func (m *Manager) RemovePostRef(ctx context.Context, userId, postId primitive.ObjectID) error {
	coll := m.dbConnection.Collection(usersCollection)

	_, err := coll.UpdateOne(
		ctx,
		bson.D{{Key: "_id", Value: userId}},
		bson.M{"$pull": bson.M{"posts": postId}},
	)
	if err != nil {
		return fmt.Errorf("removing post reference: %w", err)
	}
	return nil
}

func (m *Manager) InsertPost(ctx context.Context, post models.Post) (*models.Post, error) {
	coll := m.dbConnection.Collection(postsCollection)

	result, err := coll.InsertOne(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}
	post.Id = result.InsertedID.(primitive.ObjectID)
	return &post, nil
}

func (m *Manager) GetPost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	coll := m.dbConnection.Collection(postsCollection)

	var post models.Post
	err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finding post: %w", err)
	}
	return &post, nil
}

func (m *Manager) GetPostsByAuthors(ctx context.Context, authorIds []primitive.ObjectID) ([]models.Post, error) {
	coll := m.dbConnection.Collection(postsCollection)

	postsCursor, err := coll.Find(ctx, bson.M{"author_id": bson.M{"$in": authorIds}})
	if err != nil {
		return nil, fmt.Errorf("finding posts by authors: %w", err)
	}
	var posts []models.Post
	if err = postsCursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("finding posts by authors: %w", err)
	}
	return posts, nil
}

func (m *Manager) GetPostsByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	coll := m.dbConnection.Collection(postsCollection)

	postsCursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("finding posts: %w", err)
	}
	var posts []models.Post
	if err = postsCursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("finding posts: %w", err)
	}
	return posts, nil
}

func (m *Manager) UpdatePostBody(ctx context.Context, id primitive.ObjectID, body string) (*models.Post, error) {
	coll := m.dbConnection.Collection(postsCollection)

	var post models.Post
	err := coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.M{"$set": bson.M{"body": body}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return &post, nil
}

func (m *Manager) DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	coll := m.dbConnection.Collection(postsCollection)

	var post models.Post
	err := coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("deleting post: %w", err)
	}
	return &post, nil
}

// GetUserDisplays resolves author display fields for the given user ids,
// serving from the Redis cache and falling back to the database for misses.
func (m *Manager) GetUserDisplays(
	ctx context.Context,
	ids []primitive.ObjectID,
) (map[primitive.ObjectID]cache.UserDisplay, error) {
	displays := make(map[primitive.ObjectID]cache.UserDisplay, len(ids))

	missing := make([]primitive.ObjectID, 0)
	for _, id := range ids {
		if _, ok := displays[id]; ok {
			continue
		}
		if display, ok := m.usersCache.GetUserDisplay(id.Hex()); ok {
			displays[id] = display
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return displays, nil
	}

	coll := m.dbConnection.Collection(usersCollection)
	usersCursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": missing}})
	if err != nil {
		return nil, fmt.Errorf("finding users for display: %w", err)
	}
	var users []models.User
	if err = usersCursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("finding users for display: %w", err)
	}

	for _, user := range users {
		display := cache.UserDisplay{
			FullName: user.FullName(),
			UserName: user.UserName,
		}
		displays[user.Id] = display
		m.usersCache.SetUserDisplay(user.Id.Hex(), display)
	}
	return displays, nil
}

func (m *Manager) CountUsers(ctx context.Context) int64 {
	count, err := m.dbConnection.Collection(usersCollection).EstimatedDocumentCount(ctx)
	if err != nil {
		log.Errorf("Error counting users: %v", err)
		return 0
	}
	return count
}

func (m *Manager) CountPosts(ctx context.Context) int64 {
	count, err := m.dbConnection.Collection(postsCollection).EstimatedDocumentCount(ctx)
	if err != nil {
		log.Errorf("Error counting posts: %v", err)
		return 0
	}
	return count
}

package feeds

import (
	"context"
	"sort"

	"chirp/cache"
	"chirp/storage/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the slice of the persistent store the aggregator consumes.
type Store interface {
	GetUserById(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetPostsByAuthors(ctx context.Context, authorIds []primitive.ObjectID) ([]models.Post, error)
	GetPostsByIds(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	GetUserDisplays(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]cache.UserDisplay, error)
}

// Aggregator builds a user's feed: posts from everyone the user follows,
// concatenated with the user's own posts, most recent first, each joined with
// its author's display fields. There is no deduplication; a user following
// themselves sees their own posts twice.
type Aggregator struct {
	store Store
}

func NewAggregator(store Store) *Aggregator {
	return &Aggregator{store: store}
}

func (a *Aggregator) BuildFeed(ctx context.Context, userId primitive.ObjectID) ([]models.DecoratedPost, error) {
	user, err := a.store.GetUserById(ctx, userId)
	if err != nil {
		return nil, err
	}

	followedPosts, err := a.store.GetPostsByAuthors(ctx, user.Following)
	if err != nil {
		return nil, err
	}
	ownPosts, err := a.store.GetPostsByIds(ctx, user.Posts)
	if err != nil {
		return nil, err
	}

	combined := make([]models.Post, 0, len(followedPosts)+len(ownPosts))
	combined = append(combined, followedPosts...)
	combined = append(combined, ownPosts...)

	// Most recent first; store-provided order is preserved on ties.
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].CreatedAt.After(combined[j].CreatedAt)
	})

	return a.decorate(ctx, combined)
}

func (a *Aggregator) decorate(ctx context.Context, posts []models.Post) ([]models.DecoratedPost, error) {
	authorIds := make([]primitive.ObjectID, 0, len(posts))
	seen := make(map[primitive.ObjectID]bool, len(posts))
	for _, post := range posts {
		if !seen[post.AuthorId] {
			seen[post.AuthorId] = true
			authorIds = append(authorIds, post.AuthorId)
		}
	}

	displays, err := a.store.GetUserDisplays(ctx, authorIds)
	if err != nil {
		return nil, err
	}

	decorated := make([]models.DecoratedPost, len(posts))
	for i, post := range posts {
		display := displays[post.AuthorId]
		decorated[i] = models.DecoratedPost{
			Post:     post,
			FullName: display.FullName,
			UserName: display.UserName,
		}
	}
	return decorated, nil
}

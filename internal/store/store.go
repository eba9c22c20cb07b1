// Package store provides read access to a donor WordPress database.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/wp-donor/internal/model"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("not found")

// Post types and statuses used by the donor queries.
const (
	TypePost       = "post"
	TypeAttachment = "attachment"
	StatusPublish  = "publish"
)

// PostQuery holds parameters for querying donor posts.
type PostQuery struct {
	Type   string // defaults to "post"
	Status string // defaults to "publish"
	Day    time.Time
	Limit  int // 0 means no limit
}

// Source is the donor content store.
type Source interface {
	// QueryPosts returns posts of the given type and status published on
	// q.Day, ordered by ascending ID. FeaturedImage is left empty.
	QueryPosts(ctx context.Context, q PostQuery) ([]model.Post, error)

	// Get returns a single post of type post by ID.
	Get(ctx context.Context, id int64) (*model.Post, error)

	// AttachmentImageURL returns the URL of the featured image of postID in
	// the given size, or "" when the post has none.
	AttachmentImageURL(ctx context.Context, postID int64, size string) (string, error)

	// Close closes the store.
	Close() error
}

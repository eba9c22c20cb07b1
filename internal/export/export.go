// Package export extracts donor posts published on a single day.
package export

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/araddon/dateparse"
	"github.com/oklog/ulid/v2"
	"github.com/rcliao/wp-donor/internal/model"
	"github.com/rcliao/wp-donor/internal/settings"
	"github.com/rcliao/wp-donor/internal/store"
	"go.uber.org/zap"
)

// FeaturedImageSize is the rendition exported as the featured image.
const FeaturedImageSize = model.SizeLarge

// Params holds parameters for an export run.
type Params struct {
	Day   time.Time
	Limit int // 0 means every matching post
}

// Exporter maps donor posts into export records.
type Exporter struct {
	src      store.Source
	settings *settings.Resolver
	logger   *zap.Logger
	entropy  *rand.Rand
}

// New creates an Exporter. A nil logger disables logging.
func New(src store.Source, resolver *settings.Resolver, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{
		src:      src,
		settings: resolver,
		logger:   logger,
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *Exporter) newRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), e.entropy).String()
}

// Export returns the published posts of p.Day ordered by ascending ID.
// No matches yields an empty slice.
func (e *Exporter) Export(ctx context.Context, p Params) ([]model.Record, error) {
	log := e.logger.With(
		zap.String("run_id", e.newRunID()),
		zap.String("day", p.Day.Format(time.DateOnly)),
	)
	start := time.Now()

	posts, err := e.src.QueryPosts(ctx, store.PostQuery{
		Type:   store.TypePost,
		Status: store.StatusPublish,
		Day:    p.Day,
		Limit:  p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	log.Debug("queried donor posts", zap.Int("count", len(posts)))

	records := make([]model.Record, 0, len(posts))
	for _, post := range posts {
		if err := e.attachFeaturedImage(ctx, &post); err != nil {
			return nil, err
		}
		records = append(records, post.Record())
	}

	log.Info("export finished",
		zap.Int("posts", len(records)),
		zap.Duration("took", time.Since(start)))
	return records, nil
}

// Post returns the export record of a single donor post.
func (e *Exporter) Post(ctx context.Context, id int64) (model.Record, error) {
	post, err := e.src.Get(ctx, id)
	if err != nil {
		return model.Record{}, err
	}
	if err := e.attachFeaturedImage(ctx, post); err != nil {
		return model.Record{}, err
	}
	return post.Record(), nil
}

func (e *Exporter) attachFeaturedImage(ctx context.Context, post *model.Post) error {
	if !e.settings.UseFeaturedImages() {
		return nil
	}
	url, err := e.src.AttachmentImageURL(ctx, post.ID, FeaturedImageSize)
	if err != nil {
		return fmt.Errorf("featured image of post %d: %w", post.ID, err)
	}
	if url == "" {
		e.logger.Debug("post has no featured image", zap.Int64("post_id", post.ID))
	}
	post.FeaturedImage = url
	return nil
}

// ParseDay parses a date in any common layout and truncates it to the day.
func ParseDay(s string) (time.Time, error) {
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Package model defines the donor post data types.
package model

import "time"

// DateLayout is the layout used for exported post dates.
const DateLayout = "2006.01.02 15:04:05"

// Post is a read-only snapshot of a donor post.
type Post struct {
	ID            int64
	Title         string
	Content       string
	Date          time.Time
	FeaturedImage string // empty when the post has no featured image
}

// Record is the exported form of a post.
type Record struct {
	ID            int64  `json:"ID"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Date          string `json:"date"`
	FeaturedImage string `json:"featured_image"`
}

// Record converts p into its exported form.
func (p Post) Record() Record {
	return Record{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		Date:          p.Date.Format(DateLayout),
		FeaturedImage: p.FeaturedImage,
	}
}

// Image sizes registered by WordPress core.
const (
	SizeThumbnail = "thumbnail"
	SizeMedium    = "medium"
	SizeLarge     = "large"
	SizeFull      = "full"
)

// ValidSizes are the image renditions the store can resolve.
var ValidSizes = map[string]bool{
	SizeThumbnail: true,
	SizeMedium:    true,
	SizeLarge:     true,
	SizeFull:      true,
}

// Package settings resolves the acceptor settings used when duplicating
// donor posts. Values are coerced and defaulted on first access and then
// memoized for the lifetime of the Resolver.
package settings

import (
	"errors"
	"fmt"
	"html"
	"maps"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Option keys.
const (
	KeyAllowDuplicatePostTitle       = "allow_duplicate_post_title"
	KeySaveDuplicatePostTitleToDraft = "save_duplicate_post_title_to_draft"
	KeyAuthorID                      = "author_id"
	KeyCreateMissingCategories       = "create_missing_categories"
	KeyDefaultCategoryID             = "default_category_id"
	KeyCompareCategoryBy             = "compare_category_by"
	KeyStartFrom                     = "start_from"
	KeyUseFeaturedImages             = "use_featured_images"
	KeySkipFeaturedImageIfEmpty      = "skip_featured_image_if_empty"
)

// Fallback values used when an option is absent.
const (
	DefaultAllowDuplicatePostTitle       = false
	DefaultSaveDuplicatePostTitleToDraft = true
	DefaultAuthorID                      = 1
	DefaultCreateMissingCategories       = true
	DefaultCategoryID                    = 1
	DefaultCompareCategoryBy             = CompareBySlug
	DefaultUseFeaturedImages             = true
	DefaultSkipFeaturedImageIfEmpty      = false
)

// Category comparison fields.
const (
	CompareBySlug = "slug"
	CompareByName = "name"
)

var validCompareFields = map[string]bool{
	CompareBySlug: true,
	CompareByName: true,
}

// ErrMissingSetting is returned for a required option with no fallback.
var ErrMissingSetting = errors.New("missing setting")

// Resolved is a snapshot of every resolved option.
type Resolved struct {
	AllowDuplicatePostTitle       bool   `json:"allow_duplicate_post_title"`
	SaveDuplicatePostTitleToDraft bool   `json:"save_duplicate_post_title_to_draft"`
	AuthorID                      int    `json:"author_id"`
	CreateMissingCategories       bool   `json:"create_missing_categories"`
	DefaultCategoryID             int    `json:"default_category_id"`
	CompareCategoryBy             string `json:"compare_category_by"`
	StartFrom                     string `json:"start_from"`
	UseFeaturedImages             bool   `json:"use_featured_images"`
	SkipFeaturedImageIfEmpty      bool   `json:"skip_featured_image_if_empty"`
}

// Resolver provides typed access to a raw settings mapping.
type Resolver struct {
	raw map[string]any

	mu    sync.Mutex
	saved map[string]any
}

// New captures a copy of raw. Later changes to raw are not observed.
func New(raw map[string]any) *Resolver {
	return &Resolver{
		raw:   maps.Clone(raw),
		saved: make(map[string]any),
	}
}

// AllowDuplicatePostTitle reports whether a post whose title already exists
// may be imported again.
func (r *Resolver) AllowDuplicatePostTitle() bool {
	return r.flag(KeyAllowDuplicatePostTitle, DefaultAllowDuplicatePostTitle)
}

// SaveDuplicatePostTitleToDraft reports whether duplicates land as drafts.
func (r *Resolver) SaveDuplicatePostTitleToDraft() bool {
	return r.flag(KeySaveDuplicatePostTitleToDraft, DefaultSaveDuplicatePostTitleToDraft)
}

// AuthorID returns the acceptor author imported posts are assigned to.
func (r *Resolver) AuthorID() int {
	return r.integer(KeyAuthorID, DefaultAuthorID)
}

// CreateMissingCategories reports whether unknown categories are created.
func (r *Resolver) CreateMissingCategories() bool {
	return r.flag(KeyCreateMissingCategories, DefaultCreateMissingCategories)
}

// DefaultCategoryID returns the category used when none matches.
func (r *Resolver) DefaultCategoryID() int {
	return r.integer(KeyDefaultCategoryID, DefaultCategoryID)
}

// CompareCategoryBy returns the category field used for matching, either
// "slug" or "name". Unknown values fall back to "slug".
func (r *Resolver) CompareCategoryBy() string {
	return r.memo(KeyCompareCategoryBy, func() any {
		v, ok := r.lookup(KeyCompareCategoryBy)
		if !ok {
			return DefaultCompareCategoryBy
		}
		field := html.EscapeString(toString(v))
		if !validCompareFields[field] {
			return CompareBySlug
		}
		return field
	}).(string)
}

// StartFrom returns the iteration starting point. It has no fallback.
func (r *Resolver) StartFrom() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.saved[KeyStartFrom]; ok {
		return v.(string), nil
	}
	v, ok := r.lookup(KeyStartFrom)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingSetting, KeyStartFrom)
	}
	s := toString(v)
	r.saved[KeyStartFrom] = s
	return s, nil
}

// UseFeaturedImages reports whether featured images are carried over.
func (r *Resolver) UseFeaturedImages() bool {
	return r.flag(KeyUseFeaturedImages, DefaultUseFeaturedImages)
}

// SkipFeaturedImageIfEmpty reports whether posts without a featured image
// are skipped on import.
func (r *Resolver) SkipFeaturedImageIfEmpty() bool {
	return r.flag(KeySkipFeaturedImageIfEmpty, DefaultSkipFeaturedImageIfEmpty)
}

// Resolve resolves every option at once.
func (r *Resolver) Resolve() (Resolved, error) {
	startFrom, err := r.StartFrom()
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		AllowDuplicatePostTitle:       r.AllowDuplicatePostTitle(),
		SaveDuplicatePostTitleToDraft: r.SaveDuplicatePostTitleToDraft(),
		AuthorID:                      r.AuthorID(),
		CreateMissingCategories:       r.CreateMissingCategories(),
		DefaultCategoryID:             r.DefaultCategoryID(),
		CompareCategoryBy:             r.CompareCategoryBy(),
		StartFrom:                     startFrom,
		UseFeaturedImages:             r.UseFeaturedImages(),
		SkipFeaturedImageIfEmpty:      r.SkipFeaturedImageIfEmpty(),
	}, nil
}

func (r *Resolver) flag(key string, fallback bool) bool {
	return r.memo(key, func() any {
		v, ok := r.lookup(key)
		if !ok {
			return fallback
		}
		return Absint(v) == 1
	}).(bool)
}

func (r *Resolver) integer(key string, fallback int) int {
	return r.memo(key, func() any {
		v, ok := r.lookup(key)
		if !ok {
			return fallback
		}
		return Absint(v)
	}).(int)
}

// memo returns the cached value for key, computing it with resolve once.
func (r *Resolver) memo(key string, resolve func() any) any {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.saved[key]; ok {
		return v
	}
	v := resolve()
	r.saved[key] = v
	return v
}

// lookup treats a nil value the same as a missing key.
func (r *Resolver) lookup(key string) (any, bool) {
	v, ok := r.raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Absint converts v to a non-negative integer the way WordPress absint does:
// the absolute value of its leading integer, 0 when there is none. Values
// outside the int64 range saturate at math.MaxInt64.
func Absint(v any) int {
	var n int64
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case int:
		n = int64(t)
	case int8:
		n = int64(t)
	case int16:
		n = int64(t)
	case int32:
		n = int64(t)
	case int64:
		n = t
	case uint:
		n = clampUint(uint64(t))
	case uint8:
		n = int64(t)
	case uint16:
		n = int64(t)
	case uint32:
		n = int64(t)
	case uint64:
		n = clampUint(t)
	case float32:
		n = clampFloat(float64(t))
	case float64:
		n = clampFloat(t)
	case string:
		n = leadingInt(t)
	default:
		return 0
	}
	if n == math.MinInt64 {
		return math.MaxInt64
	}
	if n < 0 {
		n = -n
	}
	return int(n)
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func clampFloat(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// leadingInt parses an optional sign followed by digits at the start of s,
// ignoring leading whitespace and anything after the digits. Overflow
// saturates like PHP intval.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	// On ErrRange strconv returns the clamped bound.
	n, _ := strconv.ParseInt(s[:end], 10, 64)
	return n
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	default:
		return fmt.Sprint(t)
	}
}

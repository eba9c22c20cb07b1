package settings

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultsWhenMissing(t *testing.T) {
	r := New(map[string]any{})

	if got := r.AllowDuplicatePostTitle(); got != DefaultAllowDuplicatePostTitle {
		t.Errorf("allow_duplicate_post_title: expected %v, got %v", DefaultAllowDuplicatePostTitle, got)
	}
	if got := r.SaveDuplicatePostTitleToDraft(); got != DefaultSaveDuplicatePostTitleToDraft {
		t.Errorf("save_duplicate_post_title_to_draft: expected %v, got %v", DefaultSaveDuplicatePostTitleToDraft, got)
	}
	if got := r.AuthorID(); got != DefaultAuthorID {
		t.Errorf("author_id: expected %d, got %d", DefaultAuthorID, got)
	}
	if got := r.CreateMissingCategories(); got != DefaultCreateMissingCategories {
		t.Errorf("create_missing_categories: expected %v, got %v", DefaultCreateMissingCategories, got)
	}
	if got := r.DefaultCategoryID(); got != DefaultCategoryID {
		t.Errorf("default_category_id: expected %d, got %d", DefaultCategoryID, got)
	}
	if got := r.CompareCategoryBy(); got != DefaultCompareCategoryBy {
		t.Errorf("compare_category_by: expected %q, got %q", DefaultCompareCategoryBy, got)
	}
	if got := r.UseFeaturedImages(); got != DefaultUseFeaturedImages {
		t.Errorf("use_featured_images: expected %v, got %v", DefaultUseFeaturedImages, got)
	}
	if got := r.SkipFeaturedImageIfEmpty(); got != DefaultSkipFeaturedImageIfEmpty {
		t.Errorf("skip_featured_image_if_empty: expected %v, got %v", DefaultSkipFeaturedImageIfEmpty, got)
	}
}

func TestNilValueUsesDefault(t *testing.T) {
	r := New(map[string]any{KeyAuthorID: nil})
	if got := r.AuthorID(); got != DefaultAuthorID {
		t.Errorf("expected default author %d, got %d", DefaultAuthorID, got)
	}
}

func TestFlagCoercion(t *testing.T) {
	flags := map[string]func(*Resolver) bool{
		KeyAllowDuplicatePostTitle:       (*Resolver).AllowDuplicatePostTitle,
		KeySaveDuplicatePostTitleToDraft: (*Resolver).SaveDuplicatePostTitleToDraft,
		KeyCreateMissingCategories:       (*Resolver).CreateMissingCategories,
		KeyUseFeaturedImages:             (*Resolver).UseFeaturedImages,
		KeySkipFeaturedImageIfEmpty:      (*Resolver).SkipFeaturedImageIfEmpty,
	}
	inputs := []struct {
		raw  any
		want bool
	}{
		{"1", true},
		{"0", false},
		{"2", false},
		{"-1", true},
		{1, true},
		{2, false},
		{true, true},
		{false, false},
		{"yes", false},
		{1.7, true},
		{uint64(math.MaxUint64), false},
		{int64(math.MinInt64), false},
		{"99999999999999999999", false},
	}

	for key, get := range flags {
		for _, in := range inputs {
			r := New(map[string]any{key: in.raw})
			if got := get(r); got != in.want {
				t.Errorf("%s=%#v: expected %v, got %v", key, in.raw, in.want, got)
			}
		}
	}
}

func TestIntegerCoercion(t *testing.T) {
	r := New(map[string]any{
		KeyAuthorID:          "-7",
		KeyDefaultCategoryID: "12abc",
	})
	if got := r.AuthorID(); got != 7 {
		t.Errorf("expected author 7, got %d", got)
	}
	if got := r.DefaultCategoryID(); got != 12 {
		t.Errorf("expected category 12, got %d", got)
	}

	r = New(map[string]any{KeyAuthorID: "abc"})
	if got := r.AuthorID(); got != 0 {
		t.Errorf("expected 0 for non-numeric author, got %d", got)
	}

	r = New(map[string]any{KeyAuthorID: int64(math.MinInt64)})
	if got := r.AuthorID(); got != math.MaxInt64 {
		t.Errorf("expected saturated author, got %d", got)
	}
}

func TestCompareCategoryBy(t *testing.T) {
	cases := map[string]string{
		"slug":          "slug",
		"name":          "name",
		"anything-else": "slug",
		"Name":          "slug",
		"":              "slug",
	}
	for in, want := range cases {
		r := New(map[string]any{KeyCompareCategoryBy: in})
		if got := r.CompareCategoryBy(); got != want {
			t.Errorf("compare_category_by=%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestStartFromMissing(t *testing.T) {
	r := New(map[string]any{KeyAuthorID: 3})
	_, err := r.StartFrom()
	if !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
	if _, err := r.Resolve(); !errors.Is(err, ErrMissingSetting) {
		t.Fatalf("expected Resolve to fail with ErrMissingSetting, got %v", err)
	}
}

func TestStartFromPresent(t *testing.T) {
	r := New(map[string]any{KeyStartFrom: 42})
	got, err := r.StartFrom()
	if err != nil {
		t.Fatalf("start_from: %v", err)
	}
	if got != "42" {
		t.Errorf("expected %q, got %q", "42", got)
	}
}

func TestMemoization(t *testing.T) {
	raw := map[string]any{
		KeyAuthorID:          "5",
		KeyCompareCategoryBy: "name",
		KeyStartFrom:         "2016-05-01",
	}
	r := New(raw)

	author := r.AuthorID()
	compare := r.CompareCategoryBy()
	start, _ := r.StartFrom()

	raw[KeyAuthorID] = "9"
	raw[KeyCompareCategoryBy] = "slug"
	raw[KeyStartFrom] = "2020-01-01"
	// Also mutate the resolver's own copy to make sure values are cached.
	r.raw[KeyAuthorID] = "9"
	r.raw[KeyCompareCategoryBy] = "slug"
	r.raw[KeyStartFrom] = "2020-01-01"

	if got := r.AuthorID(); got != author {
		t.Errorf("author_id changed after mutation: %d -> %d", author, got)
	}
	if got := r.CompareCategoryBy(); got != compare {
		t.Errorf("compare_category_by changed after mutation: %q -> %q", compare, got)
	}
	if got, _ := r.StartFrom(); got != start {
		t.Errorf("start_from changed after mutation: %q -> %q", start, got)
	}
}

func TestResolve(t *testing.T) {
	r := New(map[string]any{
		KeyAllowDuplicatePostTitle: "1",
		KeyAuthorID:                4,
		KeyStartFrom:               "2016-05-30",
		KeyUseFeaturedImages:       "0",
	})
	got, err := r.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := Resolved{
		AllowDuplicatePostTitle:       true,
		SaveDuplicatePostTitleToDraft: DefaultSaveDuplicatePostTitleToDraft,
		AuthorID:                      4,
		CreateMissingCategories:       DefaultCreateMissingCategories,
		DefaultCategoryID:             DefaultCategoryID,
		CompareCategoryBy:             CompareBySlug,
		StartFrom:                     "2016-05-30",
		UseFeaturedImages:             false,
		SkipFeaturedImageIfEmpty:      DefaultSkipFeaturedImageIfEmpty,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestAbsint(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{"  42", 42},
		{"+3", 3},
		{"-", 0},
		{int64(-9), 9},
		{uint8(7), 7},
		{-2.9, 2},
		{[]int{1}, 0},
		{uint64(math.MaxUint64), math.MaxInt64},
		{uint(math.MaxInt64) + 1, math.MaxInt64},
		{int64(math.MinInt64), math.MaxInt64},
		{"99999999999999999999", math.MaxInt64},
		{"-99999999999999999999", math.MaxInt64},
		{1e30, math.MaxInt64},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		if got := Absint(c.in); got != c.want {
			t.Errorf("Absint(%#v): expected %d, got %d", c.in, c.want, got)
		}
	}
}

package store

import (
	"context"
	"testing"
)

func TestStats(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, Options{})
	insertOption(t, s, "siteurl", "http://donor.example")

	insertPost(t, s, testPost{ID: 1, Date: "2016-05-30 10:00:00"})
	insertPost(t, s, testPost{ID: 2, Date: "2016-05-30 11:00:00"})
	insertPost(t, s, testPost{ID: 3, Date: "2016-05-29 11:00:00"})
	insertPost(t, s, testPost{ID: 4, Date: "2016-05-29 12:00:00", Status: "draft"})
	insertPost(t, s, testPost{ID: 5, Date: "2016-05-29 12:00:00", Type: TypeAttachment, Status: "inherit"})

	st, err := s.Stats(ctx, 0)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalPosts != 4 {
		t.Errorf("expected 4 posts, got %d", st.TotalPosts)
	}
	if st.Published != 3 {
		t.Errorf("expected 3 published, got %d", st.Published)
	}
	if st.SiteURL != "http://donor.example" {
		t.Errorf("unexpected site url %q", st.SiteURL)
	}
	if st.DBSizeBytes == 0 {
		t.Error("expected non-zero db size")
	}
	if len(st.Types) != 3 {
		t.Fatalf("expected 3 type/status groups, got %+v", st.Types)
	}
	if st.Types[0].Type != TypePost || st.Types[0].Status != StatusPublish || st.Types[0].Count != 3 {
		t.Errorf("unexpected first group %+v", st.Types[0])
	}
	if len(st.BusiestDays) != 2 {
		t.Fatalf("expected 2 days, got %+v", st.BusiestDays)
	}
	if st.BusiestDays[0].Day != "2016-05-30" || st.BusiestDays[0].Count != 2 {
		t.Errorf("unexpected busiest day %+v", st.BusiestDays[0])
	}

	limited, err := s.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(limited.BusiestDays) != 1 {
		t.Errorf("expected 1 day with limit, got %d", len(limited.BusiestDays))
	}
}

func TestStatsOptionsError(t *testing.T) {
	s := newTestStore(t, Options{})
	if _, err := s.db.Exec(`DROP TABLE wp_options`); err != nil {
		t.Fatalf("drop options: %v", err)
	}

	if _, err := s.Stats(context.Background(), 0); err == nil {
		t.Fatal("expected error when the options table is unreadable")
	}
}

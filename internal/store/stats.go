package store

import (
	"context"
	"fmt"
	"os"
)

// Stats holds donor database statistics.
type Stats struct {
	DBPath      string      `json:"db_path"`
	DBSizeBytes int64       `json:"db_size_bytes"`
	SiteURL     string      `json:"site_url,omitempty"`
	TotalPosts  int         `json:"total_posts"`
	Published   int         `json:"published_posts"`
	Types       []TypeStats `json:"types"`
	BusiestDays []DayStats  `json:"busiest_days"`
}

// TypeStats holds per type/status counts.
type TypeStats struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DayStats counts published posts on one day.
type DayStats struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Stats returns donor database statistics. days limits BusiestDays.
func (s *SQLiteStore) Stats(ctx context.Context, days int) (*Stats, error) {
	if days <= 0 {
		days = 10
	}
	st := &Stats{DBPath: s.path, SiteURL: s.siteURL}

	if info, err := os.Stat(s.path); err == nil {
		st.DBSizeBytes = info.Size()
	}
	if st.SiteURL == "" {
		site, err := s.option(ctx, "siteurl")
		if err != nil {
			return nil, fmt.Errorf("stats siteurl: %w", err)
		}
		st.SiteURL = site
	}

	posts := s.table("posts")

	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE post_type = ?`, posts), TypePost).Scan(&st.TotalPosts); err != nil {
		return st, err
	}
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(
		`SELECT COUNT(*) FROM %s WHERE post_type = ? AND post_status = ?`, posts),
		TypePost, StatusPublish).Scan(&st.Published); err != nil {
		return st, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT post_type, post_status, COUNT(*) AS cnt
		FROM %s GROUP BY post_type, post_status ORDER BY cnt DESC, post_type`, posts))
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var ts TypeStats
		if err := rows.Scan(&ts.Type, &ts.Status, &ts.Count); err != nil {
			return st, err
		}
		st.Types = append(st.Types, ts)
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	dayRows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT substr(post_date, 1, 10) AS day, COUNT(*) AS cnt
		FROM %s WHERE post_type = ? AND post_status = ?
		GROUP BY day ORDER BY cnt DESC, day DESC LIMIT ?`, posts),
		TypePost, StatusPublish, days)
	if err != nil {
		return st, err
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var ds DayStats
		if err := dayRows.Scan(&ds.Day, &ds.Count); err != nil {
			return st, err
		}
		st.BusiestDays = append(st.BusiestDays, ds)
	}

	return st, dayRows.Err()
}

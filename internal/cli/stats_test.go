package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rcliao/wp-donor/internal/store"
)

func TestWriteStatsText(t *testing.T) {
	var buf bytes.Buffer
	writeStatsText(&buf, &store.Stats{
		DBPath:      "/srv/donor.db",
		DBSizeBytes: 2_500_000,
		SiteURL:     "http://donor.example",
		TotalPosts:  12345,
		Published:   12000,
		Types:       []store.TypeStats{{Type: "post", Status: "publish", Count: 12000}},
		BusiestDays: []store.DayStats{{Day: "2016-05-30", Count: 42}},
	})

	out := buf.String()
	for _, want := range []string{"/srv/donor.db (2.5 MB)", "12,345 (12,000 published)", "2016-05-30  42", "http://donor.example"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestOutputFormat(t *testing.T) {
	t.Cleanup(func() { formatFlag = "" })

	formatFlag = ""
	if got := outputFormat("dump"); got != "dump" {
		t.Errorf("expected command default, got %q", got)
	}
	formatFlag = "json"
	if got := outputFormat("dump"); got != "json" {
		t.Errorf("expected flag value, got %q", got)
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/rcliao/wp-donor/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show donor database statistics",
		Run:   runStats,
	}

	cmd.Flags().Int("days", 10, "Number of busiest days to list")

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	days, _ := cmd.Flags().GetInt("days")

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), days)
	if err != nil {
		exitErr("stats", err)
	}

	switch format := outputFormat("json"); format {
	case "json":
		b, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	case "text":
		writeStatsText(cmd.OutOrStdout(), stats)
	default:
		exitErr("stats", fmt.Errorf("invalid format %q (valid: json, text)", format))
	}
}

func writeStatsText(w io.Writer, st *store.Stats) {
	fmt.Fprintf(w, "database:  %s (%s)\n", st.DBPath, humanize.Bytes(uint64(st.DBSizeBytes)))
	if st.SiteURL != "" {
		fmt.Fprintf(w, "site:      %s\n", st.SiteURL)
	}
	fmt.Fprintf(w, "posts:     %s (%s published)\n", humanize.Comma(int64(st.TotalPosts)), humanize.Comma(int64(st.Published)))

	fmt.Fprintln(w, "\nby type:")
	for _, t := range st.Types {
		fmt.Fprintf(w, "  %-12s %-10s %s\n", t.Type, t.Status, humanize.Comma(int64(t.Count)))
	}

	fmt.Fprintln(w, "\nbusiest days:")
	for _, d := range st.BusiestDays {
		fmt.Fprintf(w, "  %s  %s\n", d.Day, humanize.Comma(int64(d.Count)))
	}
}

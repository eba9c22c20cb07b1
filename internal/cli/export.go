package cli

import (
	"fmt"

	"github.com/rcliao/wp-donor/internal/export"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export posts published on one day",
		Long: "Export the published posts of one calendar day from the donor database, ordered by ID.\n" +
			"The day comes from --date, or target_date in the settings file.\n" +
			"Featured image URLs are only looked up when use_featured_images is on (the default);\n" +
			"with it off every featured_image is empty.",
		Run: runExport,
	}

	cmd.Flags().String("date", "", "Day to export (e.g. 2016-05-30)")
	cmd.Flags().IntP("limit", "l", 0, "Max posts (0 = all)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	dateStr, _ := cmd.Flags().GetString("date")
	limit, _ := cmd.Flags().GetInt("limit")
	format := outputFormat(export.FormatDump)

	if !export.ValidFormats[format] {
		exitErr("export", fmt.Errorf("invalid format %q (valid: dump, json, ndjson)", format))
	}
	if dateStr == "" {
		dateStr = cfg.TargetDate
	}
	if dateStr == "" {
		exitErr("export", fmt.Errorf("a target day is required (--date or target_date)"))
	}
	day, err := export.ParseDay(dateStr)
	if err != nil {
		exitErr("export", err)
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := export.New(s, newResolver(cfg), logger).Export(cmd.Context(), export.Params{
		Day:   day,
		Limit: limit,
	})
	if err != nil {
		exitErr("export", err)
	}

	if err := export.Write(cmd.OutOrStdout(), format, records, stdoutIsTerminal()); err != nil {
		exitErr("write", err)
	}
}

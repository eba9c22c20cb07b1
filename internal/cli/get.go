package cli

import (
	"fmt"
	"strconv"

	"github.com/rcliao/wp-donor/internal/export"
	"github.com/rcliao/wp-donor/internal/model"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one donor post",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		exitErr("get", fmt.Errorf("invalid post id %q", args[0]))
	}
	format := outputFormat(export.FormatJSON)
	if !export.ValidFormats[format] {
		exitErr("get", fmt.Errorf("invalid format %q (valid: dump, json, ndjson)", format))
	}

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	record, err := export.New(s, newResolver(cfg), logger).Post(cmd.Context(), id)
	if err != nil {
		exitErr("get", err)
	}

	if err := export.Write(cmd.OutOrStdout(), format, []model.Record{record}, stdoutIsTerminal()); err != nil {
		exitErr("write", err)
	}
}

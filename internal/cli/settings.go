package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the resolved acceptor settings",
		Long:  "Resolve every acceptor setting, applying fallbacks, and print the result. Fails when start_from is missing.",
		Run:   runSettings,
	}

	RootCmd.AddCommand(cmd)
}

func runSettings(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	resolved, err := newResolver(cfg).Resolve()
	if err != nil {
		exitErr("settings", err)
	}

	b, _ := json.MarshalIndent(resolved, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}

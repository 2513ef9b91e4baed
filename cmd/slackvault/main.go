package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string // overridable via --config flag

func main() {
	root := &cobra.Command{
		Use:   "slackvault",
		Short: "Archive Slack channel activity into Google Drive",
		Long:  "slackvault receives Slack Events API callbacks and mirrors messages and attachments into a Google Drive folder tree, organized per channel and per content category.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: ./config.toml or $CONFIG_PATH)")

	root.AddCommand(serveCmd())
	root.AddCommand(verifyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and archival workers",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

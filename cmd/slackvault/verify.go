package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/slackvault/slackvault/internal/config"
	"github.com/slackvault/slackvault/internal/drive"
	"github.com/slackvault/slackvault/internal/logger"
)

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the configured Drive root folder is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := strings.TrimSpace(configPath)
			if cfgPath == "" {
				cfgPath = os.Getenv("CONFIG_PATH")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.Init(cfg.Log.Level, cfg.Log.Format)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			client, err := drive.NewClient(ctx, logger.L, cfg.Drive.CredentialsFile)
			if err != nil {
				return fmt.Errorf("drive client: %w", err)
			}
			info, err := client.FolderMetadata(ctx, cfg.Drive.RootFolderID)
			if err != nil {
				return fmt.Errorf("root folder lookup: %w", err)
			}
			if !info.IsFolder() {
				return fmt.Errorf("id %s is %q, not a folder", info.ID, info.MimeType)
			}
			fmt.Printf("ok: %q (%s) is reachable and is a folder\n", info.Name, info.ID)
			return nil
		},
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/wishlane/landing/internal/config"
)

func contentCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage page content",
	}
	cmd.AddCommand(contentValidateCmd(configPath))
	return cmd
}

func contentValidateCmd(configPath *string) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate every locale",
		Long: `Load every locale from the configured content source and validate it.

Examples:
  landing content validate
  landing content validate --dir=./content`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.Content.Source = config.SourceFile
				cfg.Content.Dir = dir
			}

			store := newStore(cfg, cfg.Log.NewLogger(cmd.ErrOrStderr()))
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			snap := store.Snapshot()
			for _, locale := range snap.Locales() {
				site, _ := snap.Site(locale)
				info("%s  %s", locale, site.Meta.Title)
			}
			success("%s is valid (%d locales)", snap.Source, len(snap.Locales()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Validate a content directory instead of the configured source")

	return cmd
}

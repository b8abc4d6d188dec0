package main

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wishlane/landing"
	"github.com/wishlane/landing/internal/errors"
)

func renderCmd(configPath *string) *cobra.Command {
	var (
		locale string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the page as static HTML",
		Long: `Render the landing page for one locale to a file or stdout.

The export is the page an anonymous visitor gets without the live client:
the newsletter form posts to /newsletter.

Examples:
  landing render > index.html
  landing render --lang=es --output=dist/es.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(os.Stderr)
			if locale == "" {
				locale = cfg.Content.DefaultLocale
			}

			store := newStore(cfg, logger)
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}
			app, err := landing.New(cfg.Runtime(version), landing.Deps{
				Content: store,
				Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
			})
			if err != nil {
				return err
			}
			defer app.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.New("L301").WithSource(output).Wrap(err)
				}
				defer f.Close()
				w = f
			}

			bw := bufio.NewWriter(w)
			if err := app.Export(cmd.Context(), bw, locale); err != nil {
				return err
			}
			if err := bw.Flush(); err != nil {
				return err
			}
			if output != "" {
				success("Rendered %s to %s", locale, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "lang", "l", "", "Locale to render (default content.default_locale)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/ratingscope/internal/app"
	"github.com/okian/ratingscope/internal/config"
	"github.com/okian/ratingscope/internal/domain/extract"
	"github.com/okian/ratingscope/internal/domain/history"
	"github.com/okian/ratingscope/internal/domain/profile"
	"github.com/okian/ratingscope/internal/domain/types"
)

var errNoName = errors.New("no player name found in document")

func newExtractCmd(root *rootOptions) *cobra.Command {
	var (
		file  string
		id    string
		debug bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract a profile from a saved page",
		Long:  "Run the extraction pipeline over a local HTML page. No network access and no cache are involved.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return fmt.Errorf("--file is required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			}

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			a := profile.New(nil,
				profile.WithExtractor(extract.New(app.ExtractOptions(cfg)...)),
				profile.WithNormalizer(history.New(cfg.HistoryYears, cfg.BaselineRating)),
				profile.WithSnippetChars(cfg.DebugSnippetChars),
			)
			out, ok := a.FromDocument(cmd.Context(), id, string(raw))
			if !ok {
				return errNoName
			}

			res := types.LookupResult{Record: out.Record}
			if debug {
				res.Debug = &out.Debug
			}
			return render(cmd.OutOrStdout(), res, root.json)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a saved profile page")
	cmd.Flags().StringVar(&id, "id", "", "Player id to report (defaults to the file name)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include extraction stages and a document snippet")
	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	app "github.com/okian/ratingscope/internal/app"
	"github.com/okian/ratingscope/internal/config"
	"github.com/okian/ratingscope/pkg/logger"
)

func newLookupCmd(root *rootOptions) *cobra.Command {
	var debug bool
	cmd := &cobra.Command{
		Use:   "lookup <id>",
		Short: "Look up a player at the rating authorities",
		Long:  "Fetch and extract a player's profile. Ids are USCF member numbers (6-8 digits) or fide_<number>.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(os.Stderr)); err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return err
			}

			svc := app.NewFromConfig(cfg, logger.Named("ratingctl"))
			res, err := svc.Lookup(ctx, args[0], debug)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res, root.json)
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Include extraction stages and a document snippet")
	return cmd
}

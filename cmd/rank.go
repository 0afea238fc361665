package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	app "github.com/okian/simrank/internal/app"
	"github.com/okian/simrank/internal/domain/model"
	"github.com/okian/simrank/pkg/logger"
)

func newRankCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank <input> <target> <output>",
		Short: "Rank every user of <input> against <target> and write the result to <output>.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			target, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("%w: target %q is not a user id", model.ErrMalformedInput, args[1])
			}
			if cmd.Flags().Changed("workers") {
				cfg.WorkerCount, _ = cmd.Flags().GetInt("workers")
			}
			if cmd.Flags().Changed("duplicates") {
				cfg.DuplicatePolicy, _ = cmd.Flags().GetString("duplicates")
			}
			policy, err := cfg.Policy()
			if err != nil {
				return err
			}

			svc := app.New(
				app.WithLogger(logger.Named("rank")),
				app.WithWorkerCount(cfg.WorkerCount),
				app.WithDuplicatePolicy(policy),
			)
			_, err = svc.RankFile(cmd.Context(), args[0], model.UserID(target), args[2])
			return err
		},
	}
	cmd.Flags().Int("workers", 0, "override worker_count; 1 compares on the calling goroutine")
	cmd.Flags().String("duplicates", "", "override duplicate_policy: reject or last")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	app "github.com/okian/simrank/internal/app"
	"github.com/okian/simrank/internal/verify"
	"github.com/okian/simrank/pkg/logger"
)

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay the cases under the data directory and compare outputs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data") {
				cfg.DataDir, _ = cmd.Flags().GetString("data")
			}
			policy, err := cfg.Policy()
			if err != nil {
				return err
			}

			svc := app.New(
				app.WithLogger(logger.Named("verify")),
				app.WithWorkerCount(cfg.WorkerCount),
				app.WithDuplicatePolicy(policy),
			)
			report, runErr := verify.Run(cmd.Context(), &verify.Config{DataDir: cfg.DataDir}, svc)
			if report != nil {
				if err := report.Render(cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	cmd.Flags().String("data", "", "override data_dir, the root of input/ and output/")
	return cmd
}

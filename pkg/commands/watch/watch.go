package watch

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/commands/flags"
	"github.com/xiidea/easy-audit/pkg/config"
	"github.com/xiidea/easy-audit/pkg/utils"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Revalidate the audit configuration whenever its file changes",
		Long: `Load the audit configuration and keep validating it as the file changes.

Each valid change publishes a new configuration generation; an invalid change
is reported and the previous generation stays in effect.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	flags.ConfigFlags().Register(cmd.Flags(), false)

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	v := appctx.Viper(ctx)
	log := utils.ContextLogger(ctx, slog.String("context", "watch"))
	out := cmd.OutOrStdout()

	w, err := flags.NewWatcher(ctx, v, func(snapshot *config.Snapshot, err error) {
		if err != nil {
			fmt.Fprintf(out, "invalid: %v\n", err)
			return
		}
		fmt.Fprintf(out, "generation %s: %d channel rule(s)\n", snapshot.Generation, len(snapshot.Config.Channels))
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	current := w.Current()
	fmt.Fprintf(out, "generation %s: %d channel rule(s)\n", current.Generation, len(current.Config.Channels))

	w.Start()
	log.Info("watching configuration")

	<-ctx.Done()
	return nil
}

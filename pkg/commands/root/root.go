package root

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	slogctx "github.com/veqryn/slog-context"

	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/commands/check"
	"github.com/xiidea/easy-audit/pkg/commands/flags"
	"github.com/xiidea/easy-audit/pkg/commands/show"
	"github.com/xiidea/easy-audit/pkg/commands/validate"
	"github.com/xiidea/easy-audit/pkg/commands/watch"
	"github.com/xiidea/easy-audit/pkg/utils"
)

func New() *cobra.Command {
	v := appctx.NewViper()

	// Configure Viper for environment variable support
	v.SetEnvPrefix("EAC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("::", "_", ".", "_", "-", "_"))

	cmd := &cobra.Command{
		Use:           "eac",
		Short:         "Easy Audit configuration tool",
		Long:          `Validate and inspect the configuration of the easy audit bundle, including its logger channel rules.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			flags.BindFlags(cmd, v)

			log := utils.NewLogger(os.Stderr, v.GetString("log-format"), v.GetInt("log-level"), v.GetBool("debug"))
			ctx := slogctx.NewCtx(cmd.Context(), log)
			cmd.SetContext(appctx.ContextWithViper(ctx, v))
		},
	}

	// Persistent flags available to all subcommands
	pflags := cmd.PersistentFlags()
	pflags.String("log-format", "auto", "log format (auto|json|text)")
	pflags.Bool("debug", false, "debug mode")
	pflags.CountP("log-level", "v", "log level (-v=warn, -vv=info, -vvv=debug)")

	cmd.AddCommand(validate.New())
	cmd.AddCommand(show.New())
	cmd.AddCommand(check.New())
	cmd.AddCommand(watch.New())

	return cmd
}

package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/commands/flags"
	"github.com/xiidea/easy-audit/pkg/utils"
)

var checkFlags = flags.Merge(
	flags.ConfigFlags(),
	flags.FlagValues{
		"quiet": {
			Shorthand:    "q",
			Kind:         flags.FlagKindBool,
			DefaultValue: false,
			Usage:        "print nothing, exit non-zero if any channel is not recorded",
		},
	},
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check NAME CHANNEL...",
		Short: "Report whether channels are recorded under a logger channel rule",
		Long: `Report, for each CHANNEL, whether the logger_channel rule NAME records it.

A NAME without a rule records every channel.

Examples:
  eac check xiidea.easy_audit.logger.service security doctrine`,
		Args: cobra.MinimumNArgs(2),
		RunE: run,
	}

	checkFlags.Register(cmd.Flags(), false)

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	v := appctx.Viper(cmd.Context())
	log := utils.ContextLogger(cmd.Context())

	conf, err := flags.LoadConfig(cmd.Context(), v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	name, channels := args[0], args[1:]
	if _, ok := conf.Channels.Get(name); !ok {
		log.Info("no channel rule configured", "name", name)
	}

	quiet := v.GetBool("quiet")
	skipped := 0
	for _, ch := range channels {
		recorded := conf.Channels.Allows(name, ch)
		if !recorded {
			skipped++
		}
		if quiet {
			continue
		}
		status := "recorded"
		if !recorded {
			status = "skipped"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ch, status)
	}

	if quiet && skipped > 0 {
		return fmt.Errorf("%d channel(s) not recorded", skipped)
	}
	return nil
}

package show

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiidea/easy-audit/internal/output"
	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/commands/flags"
)

var showFlags = flags.Merge(
	flags.ConfigFlags(),
	flags.OutputFlags(output.DefaultFormat, fmt.Sprintf("output format (%s)", strings.Join(output.FormatNames(), "|"))),
	flags.FlagValues{
		"compact": {
			Kind:         flags.FlagKindBool,
			DefaultValue: false,
			Usage:        "compact output",
		},
	},
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the finalized audit configuration",
		Long: `Print the audit configuration after defaults are applied and every
logger channel rule is normalized to its canonical {type, elements} form.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	showFlags.Register(cmd.Flags(), false)

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v := appctx.Viper(cmd.Context())

	format := v.GetString("output")
	formatter, ok := output.GetFormatter(format)
	if !ok {
		return fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(output.FormatNames(), ", "))
	}

	conf, err := flags.LoadConfig(cmd.Context(), v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out, err := formatter.Format(conf, output.Options{Compact: v.GetBool("compact")})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

package validate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/xiidea/easy-audit/pkg/appctx"
	"github.com/xiidea/easy-audit/pkg/channel"
	"github.com/xiidea/easy-audit/pkg/commands/flags"
	"github.com/xiidea/easy-audit/pkg/config"
	"github.com/xiidea/easy-audit/pkg/utils"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the audit configuration",
		Long: `Validate the audit configuration for structural correctness.

This command checks required fields, applies defaults and normalizes every
logger channel rule, failing on mixed inclusive/exclusive lists.

Examples:
  # Validate config/packages/xiidea_easy_audit.yaml
  eac validate

  # Validate a specific file
  eac validate -f audit.yaml

  # Output as JSON for CI/tooling
  eac validate -o json`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	validateFlags.Register(cmd.Flags(), false)

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v := appctx.Viper(cmd.Context())

	conf, err := flags.LoadConfig(cmd.Context(), v)
	summary := collectResults(conf, err)

	out := cmd.OutOrStdout()
	switch v.GetString("output") {
	case "json":
		err = outputJSON(out, summary)
	default:
		err = outputText(out, summary)
	}
	if err != nil {
		return err
	}

	if !summary.Valid {
		return errors.New("validation failed")
	}
	return nil
}

// ValidationResult is the outcome for one part of the configuration.
type ValidationResult struct {
	Name   string   `json:"name"`
	Valid  bool     `json:"valid"`
	Detail string   `json:"detail,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationSummary holds the overall validation results
type ValidationSummary struct {
	Results []ValidationResult `json:"results"`
	Valid   bool               `json:"valid"`
}

func collectResults(conf *config.Config, err error) ValidationSummary {
	if err != nil {
		var channelErr channel.ChannelError
		if errors.As(err, &channelErr) {
			return ValidationSummary{Results: []ValidationResult{{
				Name:   config.ChannelKey + "." + channelErr.Name,
				Errors: []string{channelErr.Err.Error()},
			}}}
		}
		return ValidationSummary{Results: []ValidationResult{{
			Name:   config.RootKey,
			Errors: []string{err.Error()},
		}}}
	}

	results := []ValidationResult{{
		Name:   config.RootKey,
		Valid:  true,
		Detail: fmt.Sprintf("user_property=%s audit_log_class=%s", conf.UserProperty, conf.AuditLogClass),
	}}
	for _, name := range conf.Channels.Names() {
		entry := conf.Channels[name]
		results = append(results, ValidationResult{
			Name:   config.ChannelKey + "." + name,
			Valid:  true,
			Detail: fmt.Sprintf("%s: %s", entry.Type, strings.Join(entry.Elements, ", ")),
		})
	}

	return ValidationSummary{Results: results, Valid: true}
}

func outputJSON(out io.Writer, summary ValidationSummary) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
)

func outputText(out io.Writer, summary ValidationSummary) error {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = utils.IsTerminal(f)
	}

	mark := func(symbol, color string) string {
		if useColor {
			return color + symbol + colorReset
		}
		return symbol
	}

	fmt.Fprintln(out, "Validation Results:")

	for _, r := range summary.Results {
		if r.Valid {
			fmt.Fprintf(out, "  %s %s", mark("✔", colorGreen), r.Name)
			if r.Detail != "" {
				fmt.Fprintf(out, " (%s)", r.Detail)
			}
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintf(out, "  %s %s\n", mark("✘", colorRed), r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(out, "      - %s\n", e)
		}
	}

	if summary.Valid {
		fmt.Fprintf(out, "\nSummary: valid, %d channel rule(s)\n", len(summary.Results)-1)
	} else {
		fmt.Fprintln(out, "\nSummary: invalid")
	}
	return nil
}

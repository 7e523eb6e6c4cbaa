package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markwire/internal/logging"
	"github.com/yaklabco/markwire/internal/ui/pretty"
	"github.com/yaklabco/markwire/pkg/markup"
)

type checkFlags struct {
	escaped   bool
	strict    bool
	noContext bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check markup files for recoverable defects",
		Long: `Parse markup and report every diagnostic the parser recovered from:
unterminated fences, malformed fence info, unmatched delimiters, and
over-deep nesting.

With --escaped, inputs are instead validated against the strict chat
dialect: unescaped reserved characters and unbalanced spans are errors.

Examples:
  markwire check docs.md             # report parse diagnostics
  markwire check --strict docs.md    # non-zero exit on any diagnostic
  markwire check --escaped out.txt   # validate escaped output`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.escaped, "escaped", false,
		"validate against the strict chat dialect instead of parsing")
	cmd.Flags().BoolVar(&flags.strict, "strict", false,
		"exit non-zero on any diagnostic")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false,
		"hide source line context in output")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *checkFlags) error {
	logger := logging.FromContext(cmd.Context())
	styles := pretty.NewStyles(colorEnabled(cmd))

	opts, _, err := loadOptions(cmd, flags.strict)
	if err != nil {
		return err
	}

	stats := pretty.CheckStats{}
	for _, in := range inputsFrom(args) {
		text, err := in.read()
		if err != nil {
			return fmt.Errorf("read %s: %w", in.name, err)
		}
		stats.FilesChecked++

		if flags.escaped {
			ok, violations := markup.ValidateEscaped(text)
			if !ok {
				stats.FilesWithIssues++
				stats.Violations += len(violations)
				for _, v := range violations {
					fmt.Fprint(cmd.OutOrStdout(), styles.FormatViolation(in.name, v))
				}
			}
			logger.Debug("validated",
				logging.FieldInput, in.name,
				logging.FieldViolations, len(violations),
			)
			continue
		}

		result := markup.ParseChecked(text, opts)
		if len(result.Diagnostics) > 0 {
			stats.FilesWithIssues++
			stats.Diagnostics += len(result.Diagnostics)
			lines := strings.Split(text, "\n")
			for _, d := range result.Diagnostics {
				source := ""
				if !flags.noContext && d.Line >= 1 && d.Line <= len(lines) {
					source = lines[d.Line-1]
				}
				fmt.Fprint(cmd.OutOrStdout(),
					styles.FormatDiagnostic(in.name, d, !flags.noContext, source))
			}
		}
		logger.Debug("checked",
			logging.FieldInput, in.name,
			logging.FieldBlocks, len(result.Doc.Blocks),
			logging.FieldDiagnostics, len(result.Diagnostics),
			logging.FieldStrict, opts.StrictMode,
		)
	}

	fmt.Fprint(cmd.OutOrStdout(), styles.FormatCheckSummary(stats))

	if stats.Violations > 0 {
		return ErrIssuesFound
	}
	if flags.strict && stats.Diagnostics > 0 {
		return ErrIssuesFound
	}
	return nil
}

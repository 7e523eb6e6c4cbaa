package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/markwire/internal/logging"
	"github.com/yaklabco/markwire/internal/ui/pretty"
	"github.com/yaklabco/markwire/pkg/fsutil"
	"github.com/yaklabco/markwire/pkg/markup"
	"github.com/yaklabco/markwire/pkg/mdast"
)

// ErrIssuesFound signals a non-zero exit without an error message: the
// run completed but reported diagnostics or violations.
var ErrIssuesFound = errors.New("issues found")

type renderFlags struct {
	target string
	write  bool
	strict bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render markup files",
		Long: `Render markup to the selected target.

Reads from stdin when no paths are given. Targets:
  html        HTML fragment
  canonical   normalized markup that re-parses to the same document
  markdownv2  strict-escaping chat dialect

Examples:
  markwire render README.md                  # HTML to stdout
  markwire render -t canonical -w notes.md   # normalize in place
  echo '*hi*' | markwire render -t markdownv2`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.target, "target", "t", "html",
		"render target: html, canonical, markdownv2")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false,
		"write result back to the input file (canonical target only)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false,
		"exit non-zero when the parse degraded")

	return cmd
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	logger := logging.FromContext(cmd.Context())

	renderFn, err := targetRenderer(flags.target)
	if err != nil {
		return err
	}
	if flags.write && flags.target != "canonical" {
		return fmt.Errorf("--write requires the canonical target, got %q", flags.target)
	}
	if flags.write && len(args) == 0 {
		return errors.New("--write requires file arguments")
	}

	opts, _, err := loadOptions(cmd, flags.strict)
	if err != nil {
		return err
	}
	if flags.target == "markdownv2" {
		// Escaped output keeps the author's layout.
		opts.PreserveLeadingSpaces = true
		opts.PreserveSoftLineBreaks = true
	}

	styles := pretty.NewStyles(colorEnabled(cmd))

	degraded := false
	for _, input := range inputsFrom(args) {
		text, err := input.read()
		if err != nil {
			return fmt.Errorf("read %s: %w", input.name, err)
		}

		result := markup.ParseChecked(text, opts)
		for _, d := range result.Diagnostics {
			fmt.Fprint(cmd.ErrOrStderr(), styles.FormatDiagnostic(input.name, d, false, ""))
		}
		if result.Degraded {
			degraded = true
		}

		out := renderFn(result.Doc, opts)
		logger.Debug("rendered",
			logging.FieldInput, input.name,
			logging.FieldTarget, flags.target,
			logging.FieldBlocks, len(result.Doc.Blocks),
			logging.FieldDiagnostics, len(result.Diagnostics),
			logging.FieldBytes, len(out),
		)

		if flags.write {
			if err := fsutil.WriteAtomic(input.name, []byte(out)); err != nil {
				return fmt.Errorf("write %s: %w", input.name, err)
			}
			continue
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if out != "" && out[len(out)-1] != '\n' {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	if degraded {
		return ErrIssuesFound
	}
	return nil
}

func targetRenderer(target string) (func(*mdast.Document, markup.Options) string, error) {
	switch target {
	case "html":
		return markup.RenderHTML, nil
	case "canonical":
		return markup.RenderCanonical, nil
	case "markdownv2":
		return markup.RenderEscaped, nil
	default:
		return nil, fmt.Errorf("unknown target %q (want html, canonical, or markdownv2)", target)
	}
}

// loadOptions merges file config with the command line. The strict flag
// wins over the config file when set.
func loadOptions(cmd *cobra.Command, strict bool) (markup.Options, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		configPath = ""
	}
	workDir, err := os.Getwd()
	if err != nil {
		return markup.Options{}, "", fmt.Errorf("get working directory: %w", err)
	}
	opts, target, err := loadConfig(configPath, workDir)
	if err != nil {
		return markup.Options{}, "", err
	}
	if strict {
		opts.StrictMode = true
	}
	return opts, target, nil
}

func colorEnabled(cmd *cobra.Command) bool {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	return pretty.IsColorEnabled(mode, cmd.OutOrStdout())
}

// input is one unit of work: a named file or stdin.
type input struct {
	name   string
	reader io.Reader
}

func (in input) read() (string, error) {
	if in.reader != nil {
		data, err := io.ReadAll(in.reader)
		return string(data), err
	}
	data, err := os.ReadFile(in.name)
	return string(data), err
}

func inputsFrom(args []string) []input {
	if len(args) == 0 {
		return []input{{name: "<stdin>", reader: os.Stdin}}
	}
	inputs := make([]input, 0, len(args))
	for _, a := range args {
		inputs = append(inputs, input{name: a})
	}
	return inputs
}

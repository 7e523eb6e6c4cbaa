package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/markwire/pkg/markup"
)

// configFileName is discovered upward from the working directory.
const configFileName = ".markwire.yaml"

// fileConfig is the on-disk configuration schema.
type fileConfig struct {
	Target                   string `yaml:"target"`
	PreserveLeadingSpaces    *bool  `yaml:"preserve_leading_spaces"`
	PreserveSoftLineBreaks   *bool  `yaml:"preserve_soft_line_breaks"`
	IgnoreIndentedCodeBlocks *bool  `yaml:"ignore_indented_code_blocks"`
	Strict                   *bool  `yaml:"strict"`
	ListIndent               int    `yaml:"list_indent"`
	LanguageClasses          *bool  `yaml:"language_classes"`
}

// loadConfig reads configuration from an explicit path, or discovers
// .markwire.yaml walking up from workDir. A missing file is not an error;
// the returned options start from markup.DefaultOptions.
func loadConfig(explicitPath, workDir string) (markup.Options, string, error) {
	opts := markup.DefaultOptions()

	path := explicitPath
	if path == "" {
		path = discoverConfig(workDir)
	}
	if path == "" {
		return opts, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if explicitPath == "" && errors.Is(err, os.ErrNotExist) {
			return opts, "", nil
		}
		return opts, "", fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, "", fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.PreserveLeadingSpaces != nil {
		opts.PreserveLeadingSpaces = *fc.PreserveLeadingSpaces
	}
	if fc.PreserveSoftLineBreaks != nil {
		opts.PreserveSoftLineBreaks = *fc.PreserveSoftLineBreaks
	}
	if fc.IgnoreIndentedCodeBlocks != nil {
		opts.IgnoreIndentedCodeBlocks = *fc.IgnoreIndentedCodeBlocks
	}
	if fc.Strict != nil {
		opts.StrictMode = *fc.Strict
	}
	if fc.ListIndent > 0 {
		opts.ListIndent = fc.ListIndent
	}
	if fc.LanguageClasses != nil {
		opts.LanguageClasses = *fc.LanguageClasses
	}

	return opts, fc.Target, nil
}

// discoverConfig walks up from dir looking for the config file.
func discoverConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

package pretty

import (
	"fmt"
	"strings"
)

const (
	wordFile  = "file"
	wordFiles = "files"
)

// CheckStats collects the counts a check run accumulates across inputs.
type CheckStats struct {
	FilesChecked    int
	FilesWithIssues int
	Diagnostics     int
	Violations      int
}

// FormatCheckSummary formats check statistics as a single line.
// Example: "5 diagnostics in 2 files (3 files checked)".
func (s *Styles) FormatCheckSummary(stats CheckStats) string {
	total := stats.Diagnostics + stats.Violations
	if total == 0 {
		return s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesChecked, filesWord(stats.FilesChecked))) + "\n"
	}

	var parts []string
	if stats.Diagnostics > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s", stats.Diagnostics, plural(stats.Diagnostics, "diagnostic", "diagnostics"))))
	}
	if stats.Violations > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", stats.Violations, plural(stats.Violations, "violation", "violations"))))
	}
	return fmt.Sprintf("%s in %d %s (%d checked)\n",
		strings.Join(parts, ", "),
		stats.FilesWithIssues,
		filesWord(stats.FilesWithIssues),
		stats.FilesChecked,
	)
}

func filesWord(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

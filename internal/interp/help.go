package interp

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sahilm/fuzzy"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	cmdStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// metaCommands is the dispatch vocabulary, used for help and for "did you
// mean" suggestions.
var metaCommands = []string{"!help", "!shell", "!resize", "!restart", "!status"}

type helpEntry struct {
	usage string
	text  string
}

var helpEntries = []helpEntry{
	{"!help", "Show this message"},
	{"!shell <exe>", "Launch a new shell (e.g. !shell zsh)"},
	{"!resize <cols> <rows>", "Resize the terminal"},
	{"!restart", "Restart the root shell"},
	{"!status", "Show the session stack"},
	{"exit", "Exit current shell, or close if at root"},
}

// helpText renders the command summary wrapped to the current width.
func helpText(cols int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Commands:"))
	b.WriteString("\r\n")
	for _, e := range helpEntries {
		b.WriteString(fmt.Sprintf("  %s  %s\r\n",
			cmdStyle.Render(fmt.Sprintf("%-22s", e.usage)),
			e.text))
	}
	b.WriteString(dimStyle.Render("Anything else is sent to the current shell."))
	b.WriteString("\r\n")

	if cols > 0 {
		return wordwrap.String(b.String(), cols)
	}
	return b.String()
}

// suggestMeta returns the closest known meta-command for a mistyped one, or
// an empty string when nothing is close.
func suggestMeta(input string) string {
	matches := fuzzy.Find(strings.TrimPrefix(input, "!"), metaCommands)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

// statusLine renders one frame of the stack for !status.
func statusLine(depth int, f frame) string {
	indent := strings.Repeat("  ", depth)
	switch f.kind {
	case frameOwned:
		pid := -1
		if f.session != nil {
			pid = f.session.Pid()
		}
		return fmt.Sprintf("%s%s %s\r\n", indent,
			cmdStyle.Render(f.label),
			dimStyle.Render(fmt.Sprintf("(owned, pid %d)", pid)))
	default:
		return fmt.Sprintf("%s%s %s\r\n", indent,
			cmdStyle.Render(f.label),
			dimStyle.Render("(tracked)"))
	}
}

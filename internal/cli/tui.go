package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgporter/pkg/version"
)

// =============================================================================
// ConfirmModel - Interactive confirmation before a live migration
// =============================================================================

var (
	confirmSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	confirmNormalStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// ConfirmModel is the bubbletea model for a yes/no prompt.
type ConfirmModel struct {
	Question  string
	Details   []string
	Yes       bool // current selection
	Confirmed bool // set once the user chose yes
	Done      bool
}

// NewConfirmModel creates a prompt that defaults to "no".
func NewConfirmModel(question string, details ...string) ConfirmModel {
	return ConfirmModel{Question: question, Details: details}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc", "n", "N":
		m.Confirmed, m.Done = false, true
		return m, tea.Quit
	case "y", "Y":
		m.Confirmed, m.Done = true, true
		return m, tea.Quit
	case "left", "right", "h", "l", "tab":
		m.Yes = !m.Yes
	case "enter":
		m.Confirmed, m.Done = m.Yes, true
		return m, tea.Quit
	}
	return m, nil
}

func (m ConfirmModel) View() string {
	if m.Done {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.Question))
	b.WriteString("\n")
	for _, d := range m.Details {
		b.WriteString("  " + StyleDim.Render(d) + "\n")
	}
	b.WriteString("\n")

	yes, no := confirmNormalStyle.Render("  yes  "), confirmSelectedStyle.Render("[ no ]")
	if m.Yes {
		yes, no = confirmSelectedStyle.Render("[ yes ]"), confirmNormalStyle.Render("  no  ")
	}
	b.WriteString("  " + yes + "  " + no + "\n\n")
	b.WriteString(StyleDim.Render("y/n  ←/→ toggle  ⏎ confirm"))
	return b.String()
}

// confirm runs a ConfirmModel on the terminal and reports the answer.
func confirm(in io.Reader, out io.Writer, m ConfirmModel) (bool, error) {
	final, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out)).Run()
	if err != nil {
		return false, err
	}
	return final.(ConfirmModel).Confirmed, nil
}

// =============================================================================
// Plan Table
// =============================================================================

// planTable renders the ordered versions as a table. Versions that are not
// valid semver are flagged since they sort after every release.
func planTable(plan []string) string {
	rows := make([][]string, 0, len(plan))
	for i, v := range plan {
		rows = append(rows, []string{strconv.Itoa(i + 1), v, versionKind(v)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Version", "Kind").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			switch {
			case col == 0:
				return base.Foreground(colorDim)
			case col == 2 && rows[row][2] == kindUnparsed:
				return base.Foreground(colorYellow)
			case col == 2:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})
	return t.Render()
}

const (
	kindRelease    = "release"
	kindPrerelease = "pre-release"
	kindUnparsed   = "non-semver"
)

func versionKind(s string) string {
	v, err := version.Parse(s)
	switch {
	case err != nil:
		return kindUnparsed
	case v.IsPrerelease():
		return kindPrerelease
	default:
		return kindRelease
	}
}

// planSummary describes a plan in one line, e.g. "12 versions (2 pre-release)".
func planSummary(plan []string) string {
	var pre, unparsed int
	for _, v := range plan {
		switch versionKind(v) {
		case kindPrerelease:
			pre++
		case kindUnparsed:
			unparsed++
		}
	}
	s := fmt.Sprintf("%d %s", len(plan), plural(len(plan), "version", "versions"))
	var extra []string
	if pre > 0 {
		extra = append(extra, fmt.Sprintf("%d pre-release", pre))
	}
	if unparsed > 0 {
		extra = append(extra, fmt.Sprintf("%d non-semver", unparsed))
	}
	if len(extra) > 0 {
		s += " (" + strings.Join(extra, ", ") + ")"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

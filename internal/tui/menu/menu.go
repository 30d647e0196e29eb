// ABOUTME: Home menu for the TUI with the main workflow actions
// ABOUTME: Simple cursor list emitting a selection message

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexibridge/lexibridge-cli/internal/tui/icons"
)

// Action is a selectable home menu entry
type Action int

const (
	ActionUpload Action = iota
	ActionDocuments
	ActionHistory
	ActionLogout
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionUpload:
		return "upload"
	case ActionDocuments:
		return "documents"
	case ActionHistory:
		return "history"
	case ActionLogout:
		return "logout"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ActionSelectedMsg is sent when an entry is chosen
type ActionSelectedMsg struct {
	Action Action
}

type item struct {
	label  string
	icon   icons.Icon
	action Action
}

// Menu is the home menu component
type Menu struct {
	items  []item
	cursor int
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	greetingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// New creates the home menu
func New() *Menu {
	return &Menu{
		items: []item{
			{label: "Upload & analyze a document", icon: icons.Upload, action: ActionUpload},
			{label: "Browse documents", icon: icons.Document, action: ActionDocuments},
			{label: "Q&A history", icon: icons.History, action: ActionHistory},
			{label: "Log out", icon: icons.User, action: ActionLogout},
			{label: "Quit", icon: icons.Quit, action: ActionQuit},
		},
	}
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		action := m.items[m.cursor].action
		return m, func() tea.Msg { return ActionSelectedMsg{Action: action} }
	case "q":
		return m, func() tea.Msg { return ActionSelectedMsg{Action: ActionQuit} }
	}

	return m, nil
}

// View implements tea.Model; the greeting is set by the parent
func (m *Menu) View() string {
	return m.ViewWithGreeting("")
}

// ViewWithGreeting renders the menu with an optional user greeting line
func (m *Menu) ViewWithGreeting(greeting string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("What would you like to do?"))
	b.WriteString("\n")
	if greeting != "" {
		b.WriteString(greetingStyle.Render(greeting))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, it := range m.items {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		b.WriteString(cursor + it.icon.String() + " " + style.Render(it.label) + "\n")
	}

	return b.String()
}

// ABOUTME: Login form as a bubbletea model built on huh
// ABOUTME: Collects email and password, emits SubmitMsg on completion

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexibridge/lexibridge-cli/internal/tui/styles"
)

// SubmitMsg is sent when the user submits valid credentials
type SubmitMsg struct {
	Email    string
	Password string
}

// CancelledMsg is sent when the user backs out of the form
type CancelledMsg struct{}

// Model wraps a huh form for the sign-in flow
type Model struct {
	form   *huh.Form
	errMsg string
	width  int

	email    string
	password string
}

// createTheme returns a custom huh theme matching the app palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Group.Title = lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(styles.Muted).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Primary)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Accent).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Danger).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Danger)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Muted)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(styles.Info).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(styles.Muted).
		Background(lipgloss.Color("#334155")).
		Padding(0, 2).
		MarginRight(1)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder())

	return t
}

// New creates a login form model
func New() *Model {
	m := &Model{}
	m.form = m.createForm()
	return m
}

func (m *Model) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.email).
				Validate(func(s string) error {
					if !strings.Contains(s, "@") {
						return errEmail
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(func(s string) error {
					if s == "" {
						return errPassword
					}
					return nil
				}),
		).Title("Sign in to LexiBridge"),
	).WithTheme(createTheme())
}

var (
	errEmail    = validationError("enter a valid email address")
	errPassword = validationError("password is required")
)

type validationError string

func (e validationError) Error() string { return string(e) }

// SetError displays a server-side failure and resets the form for retry
func (m *Model) SetError(msg string) {
	m.errMsg = msg
	m.password = ""
	m.form = m.createForm()
}

// SetWidth sets the form width for proper rendering
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, func() tea.Msg { return CancelledMsg{} }
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		email := strings.TrimSpace(m.email)
		password := m.password
		return m, func() tea.Msg {
			return SubmitMsg{Email: email, Password: password}
		}
	}

	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	var sb strings.Builder
	if m.errMsg != "" {
		sb.WriteString(styles.StatusCritical.Render("Sign-in failed: " + m.errMsg))
		sb.WriteString("\n\n")
	}
	sb.WriteString(m.form.View())
	return sb.String()
}

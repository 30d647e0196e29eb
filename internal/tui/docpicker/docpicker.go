// ABOUTME: Document picker TUI component for selecting files to upload
// ABOUTME: Shows document files from the working directory and a path input

package docpicker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the current UI state
type state int

const (
	stateList state = iota
	stateInput
)

// FileSelectedMsg is sent when a file is chosen
type FileSelectedMsg struct {
	Path string
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// DocPicker is the document selection component
type DocPicker struct {
	files      []string
	extensions []string
	cursor     int
	state      state
	textInput  textinput.Model
	err        string
	width      int
	height     int
}

// Styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dividerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// New creates a new DocPicker offering document files from the given
// directory plus a manual path input.
func New(dir string, extensions []string) *DocPicker {
	ti := textinput.New()
	ti.Placeholder = "/path/to/contract.pdf"
	ti.CharLimit = 256
	ti.Width = 60

	return &DocPicker{
		files:      discoverDocuments(dir, extensions),
		extensions: extensions,
		state:      stateList,
		textInput:  ti,
	}
}

// discoverDocuments lists files in dir with an accepted extension
func discoverDocuments(dir string, extensions []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, accepted := range extensions {
			if ext == accepted {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files
}

// Init implements tea.Model
func (dp *DocPicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (dp *DocPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		dp.width = msg.Width
		dp.height = msg.Height
		return dp, nil

	case tea.KeyMsg:
		// Clear error on any key press
		dp.err = ""

		switch dp.state {
		case stateList:
			return dp.updateList(msg)
		case stateInput:
			return dp.updateInput(msg)
		}
	}

	return dp, nil
}

func (dp *DocPicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := len(dp.files) + 1 // +1 for "Enter path..."

	switch msg.String() {
	case "up", "k":
		if dp.cursor > 0 {
			dp.cursor--
		}
	case "down", "j":
		if dp.cursor < maxItems-1 {
			dp.cursor++
		}
	case "enter":
		if dp.cursor < len(dp.files) {
			return dp.selectFile(dp.files[dp.cursor])
		}
		dp.state = stateInput
		dp.textInput.Focus()
		return dp, textinput.Blink
	case "esc", "b":
		return dp, func() tea.Msg { return CancelledMsg{} }
	}

	return dp, nil
}

func (dp *DocPicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		dp.state = stateList
		dp.textInput.SetValue("")
		return dp, nil
	case "enter":
		path := dp.textInput.Value()
		if path == "" {
			dp.err = "Please enter a file path"
			return dp, nil
		}
		return dp.selectFile(expandPath(path))
	}

	var cmd tea.Cmd
	dp.textInput, cmd = dp.textInput.Update(msg)
	return dp, cmd
}

// selectFile checks the path exists; full validation happens downstream
func (dp *DocPicker) selectFile(path string) (tea.Model, tea.Cmd) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			dp.err = "File not found: " + path
		} else {
			dp.err = "Cannot read file: " + err.Error()
		}
		return dp, nil
	}

	return dp, func() tea.Msg {
		return FileSelectedMsg{Path: path}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError sets an error message to display
func (dp *DocPicker) SetError(msg string) {
	dp.err = msg
}

// View implements tea.Model
func (dp *DocPicker) View() string {
	if dp.state == stateInput {
		return dp.viewInput()
	}
	return dp.viewList()
}

func (dp *DocPicker) viewList() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select a document to upload"))
	b.WriteString("\n\n")

	if len(dp.files) > 0 {
		b.WriteString(helpStyle.Render("Documents in current directory:"))
		b.WriteString("\n")
		for i, path := range dp.files {
			cursor := "  "
			style := normalStyle
			if i == dp.cursor {
				cursor = "> "
				style = selectedStyle
			}
			display := filepath.Base(path)
			b.WriteString(cursor + style.Render(display) + "\n")
		}
		b.WriteString("\n")

		dividerWidth := min(40, dp.width-4)
		if dividerWidth < 1 {
			dividerWidth = 40
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", dividerWidth)))
		b.WriteString("\n")
	}

	cursor := "  "
	style := normalStyle
	if dp.cursor == len(dp.files) {
		cursor = "> "
		style = selectedStyle
	}
	b.WriteString(cursor + style.Render("Enter path...") + "\n")

	if dp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + dp.err))
	}

	return b.String()
}

func (dp *DocPicker) viewInput() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Enter document path"))
	b.WriteString("\n\n")
	b.WriteString(dp.textInput.View())

	if dp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Error: " + dp.err))
	}

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state and routes keyboard input to child components

package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lexibridge/lexibridge-cli/internal/cache"
	"github.com/lexibridge/lexibridge-cli/internal/client"
	"github.com/lexibridge/lexibridge-cli/internal/recentdocs"
	"github.com/lexibridge/lexibridge-cli/internal/session"
	"github.com/lexibridge/lexibridge-cli/internal/summary"
	"github.com/lexibridge/lexibridge-cli/internal/tui/docpicker"
	"github.com/lexibridge/lexibridge-cli/internal/tui/icons"
	"github.com/lexibridge/lexibridge-cli/internal/tui/login"
	"github.com/lexibridge/lexibridge-cli/internal/tui/menu"
	"github.com/lexibridge/lexibridge-cli/internal/tui/styles"
	"github.com/lexibridge/lexibridge-cli/internal/tui/widgets"
	"github.com/lexibridge/lexibridge-cli/internal/workflow"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenMenu
	ScreenPicker
	ScreenAnalysis
	ScreenDocuments
	ScreenHistory
)

// Layout constants
const minTerminalWidth = 80 // Minimum width before clamping the frame

const documentsCacheKey = "documents"

// loginDoneMsg is sent when a sign-in attempt completes
type loginDoneMsg struct {
	identity *session.Identity
	err      error
}

// uploadDoneMsg is sent when the document upload completes
type uploadDoneMsg struct {
	ref *workflow.DocumentRef
	err error
}

// analyzeDoneMsg is sent when AI analysis completes
type analyzeDoneMsg struct {
	sum *summary.Summary
	err error
}

// askDoneMsg is sent when a question round trip completes
type askDoneMsg struct {
	exchange *workflow.Exchange
	err      error
}

// documentsLoadedMsg is sent when the document list is fetched
type documentsLoadedMsg struct {
	docs []client.Document
	err  error
}

// historyLoadedMsg is sent when the Q&A history is fetched
type historyLoadedMsg struct {
	entries []client.HistoryEntry
	err     error
}

// App is the root model for the TUI
type App struct {
	store      *session.Store
	client     *client.Client
	controller *workflow.Controller
	recent     *recentdocs.RecentDocs
	docsCache  *cache.Cache[[]client.Document]
	extensions []string

	screen     Screen
	width      int
	height     int
	err        error
	lastUpdate time.Time

	// Child models
	loginForm *login.Model
	homeMenu  *menu.Menu
	picker    *docpicker.DocPicker

	// Analysis screen state
	spinner  spinner.Model
	phase    string // what the spinner is waiting on
	askInput textinput.Model
	asking   bool

	// Documents screen state
	documents []client.Document
	docCursor int

	// History screen state
	history []client.HistoryEntry
}

// New creates a new TUI application
func New(store *session.Store, apiClient *client.Client, controller *workflow.Controller, extensions []string, docsTTL time.Duration) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	ti := textinput.New()
	ti.Placeholder = "Ask a question about this document..."
	ti.CharLimit = 500
	ti.Width = 60

	a := &App{
		store:      store,
		client:     apiClient,
		controller: controller,
		recent:     recentdocs.New(session.DefaultConfigDir()),
		docsCache:  cache.New[[]client.Document](docsTTL),
		extensions: extensions,
		homeMenu:   menu.New(),
		spinner:    sp,
		askInput:   ti,
	}

	if store.IsAuthenticated() {
		a.screen = ScreenMenu
	} else {
		a.screen = ScreenLogin
		a.loginForm = login.New()
	}

	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin && a.loginForm != nil {
		return a.loginForm.Init()
	}
	return nil
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.picker != nil {
			a.picker.Update(msg)
		}
		if a.loginForm != nil {
			return a.updateLogin(msg)
		}
		return a, nil

	case tea.KeyMsg:
		// Handle global quit
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Route to current screen
		switch a.screen {
		case ScreenLogin:
			return a.updateLogin(msg)
		case ScreenMenu:
			return a.updateMenu(msg)
		case ScreenPicker:
			return a.updatePicker(msg)
		case ScreenAnalysis:
			return a.updateAnalysis(msg)
		case ScreenDocuments:
			return a.updateDocuments(msg)
		case ScreenHistory:
			return a.updateHistory(msg)
		}

	case spinner.TickMsg:
		if a.phase != "" {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case login.SubmitMsg:
		a.phase = "Signing in"
		return a, tea.Batch(a.spinner.Tick, a.doLogin(msg.Email, msg.Password))

	case login.CancelledMsg:
		return a, tea.Quit

	case loginDoneMsg:
		return a.handleLoginDone(msg)

	case menu.ActionSelectedMsg:
		return a.handleMenuAction(msg)

	case docpicker.FileSelectedMsg:
		return a.handleFileSelected(msg)

	case docpicker.CancelledMsg:
		a.screen = ScreenMenu
		a.picker = nil
		return a, nil

	case uploadDoneMsg:
		return a.handleUploadDone(msg)

	case analyzeDoneMsg:
		return a.handleAnalyzeDone(msg)

	case askDoneMsg:
		return a.handleAskDone(msg)

	case documentsLoadedMsg:
		a.phase = ""
		if msg.err != nil {
			a.err = msg.err
			a.screen = ScreenMenu
			return a, nil
		}
		a.documents = msg.docs
		a.docCursor = 0
		a.lastUpdate = time.Now()
		a.screen = ScreenDocuments
		return a, nil

	case historyLoadedMsg:
		a.phase = ""
		if msg.err != nil {
			a.err = msg.err
			a.screen = ScreenMenu
			return a, nil
		}
		a.history = msg.entries
		a.lastUpdate = time.Now()
		a.screen = ScreenHistory
		return a, nil

	default:
		// Forward unknown messages to the login form when active (needed
		// for huh form internals)
		if a.screen == ScreenLogin && a.loginForm != nil {
			return a.updateLogin(msg)
		}
	}

	return a, nil
}

func (a *App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.loginForm == nil {
		return a, nil
	}
	model, cmd := a.loginForm.Update(msg)
	a.loginForm = model.(*login.Model)
	return a, cmd
}

func (a *App) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.homeMenu == nil {
		return a, nil
	}
	a.err = nil
	model, cmd := a.homeMenu.Update(msg)
	a.homeMenu = model.(*menu.Menu)
	return a, cmd
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.picker == nil {
		return a, nil
	}
	model, cmd := a.picker.Update(msg)
	a.picker = model.(*docpicker.DocPicker)
	return a, cmd
}

func (a *App) updateAnalysis(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.asking {
		switch msg.String() {
		case "esc":
			a.asking = false
			a.askInput.Blur()
			a.askInput.SetValue("")
			return a, nil
		case "enter":
			question := strings.TrimSpace(a.askInput.Value())
			if question == "" {
				return a, nil
			}
			a.asking = false
			a.askInput.Blur()
			a.askInput.SetValue("")
			a.phase = "Waiting for answer"
			return a, tea.Batch(a.spinner.Tick, a.doAsk(question))
		}
		var cmd tea.Cmd
		a.askInput, cmd = a.askInput.Update(msg)
		return a, cmd
	}

	if a.controller.Busy() {
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "a":
		if a.controller.State() == workflow.StateAnalyzed {
			a.asking = true
			a.askInput.Focus()
			return a, textinput.Blink
		}
	case "r":
		if a.controller.State() == workflow.StateUploaded || a.controller.State() == workflow.StateAnalyzed {
			a.err = nil
			a.phase = "Analyzing document"
			return a, tea.Batch(a.spinner.Tick, a.doAnalyze())
		}
	case "b":
		a.screen = ScreenMenu
		a.err = nil
		return a, nil
	}
	return a, nil
}

func (a *App) updateDocuments(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.docCursor > 0 {
			a.docCursor--
		}
	case "down", "j":
		if a.docCursor < len(a.documents)-1 {
			a.docCursor++
		}
	case "enter":
		if a.docCursor < len(a.documents) {
			return a.openDocument(a.documents[a.docCursor])
		}
	case "r":
		a.docsCache.Clear(documentsCacheKey)
		a.phase = "Loading documents"
		return a, tea.Batch(a.spinner.Tick, a.loadDocuments())
	case "b", "esc":
		a.screen = ScreenMenu
		return a, nil
	}
	return a, nil
}

func (a *App) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "b", "esc":
		a.screen = ScreenMenu
		return a, nil
	}
	return a, nil
}

func (a *App) handleLoginDone(msg loginDoneMsg) (tea.Model, tea.Cmd) {
	a.phase = ""
	if msg.err != nil {
		if a.loginForm != nil {
			a.loginForm.SetError(msg.err.Error())
			return a, a.loginForm.Init()
		}
		return a, nil
	}

	a.loginForm = nil
	a.screen = ScreenMenu
	return a, nil
}

func (a *App) handleMenuAction(msg menu.ActionSelectedMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case menu.ActionUpload:
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		a.picker = docpicker.New(dir, a.extensions)
		a.screen = ScreenPicker
		return a, nil

	case menu.ActionDocuments:
		a.phase = "Loading documents"
		return a, tea.Batch(a.spinner.Tick, a.loadDocuments())

	case menu.ActionHistory:
		a.phase = "Loading history"
		return a, tea.Batch(a.spinner.Tick, a.loadHistory())

	case menu.ActionLogout:
		a.store.Logout()
		a.controller.Reset()
		a.recent.Clear()
		a.docsCache.Clear(documentsCacheKey)
		a.loginForm = login.New()
		a.screen = ScreenLogin
		return a, a.loginForm.Init()

	case menu.ActionQuit:
		return a, tea.Quit
	}

	return a, nil
}

func (a *App) handleFileSelected(msg docpicker.FileSelectedMsg) (tea.Model, tea.Cmd) {
	if err := a.controller.Select(msg.Path); err != nil {
		if a.picker != nil {
			a.picker.SetError(err.Error())
		}
		return a, nil
	}

	a.picker = nil
	a.screen = ScreenAnalysis
	a.err = nil
	a.phase = "Uploading document"
	return a, tea.Batch(a.spinner.Tick, a.doUpload())
}

func (a *App) handleUploadDone(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.err = msg.err
		a.phase = ""
		return a, nil
	}

	a.recent.Add(recentdocs.Entry{
		DocumentID: msg.ref.ID,
		Filename:   msg.ref.Filename,
		UploadedAt: msg.ref.UploadedAt,
	})
	a.docsCache.Clear(documentsCacheKey)
	a.lastUpdate = time.Now()

	// Move straight into analysis
	a.phase = "Analyzing document"
	return a, tea.Batch(a.spinner.Tick, a.doAnalyze())
}

func (a *App) handleAnalyzeDone(msg analyzeDoneMsg) (tea.Model, tea.Cmd) {
	a.phase = ""
	a.lastUpdate = time.Now()
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	return a, nil
}

func (a *App) handleAskDone(msg askDoneMsg) (tea.Model, tea.Cmd) {
	a.phase = ""
	a.lastUpdate = time.Now()
	if msg.err != nil {
		a.err = msg.err
		return a, nil
	}
	a.err = nil
	return a, nil
}

// openDocument resumes an already analyzed server document for Q&A
func (a *App) openDocument(doc client.Document) (tea.Model, tea.Cmd) {
	ref := workflow.DocumentRef{
		ID:            doc.ID,
		Filename:      doc.OriginalName,
		FileSizeBytes: doc.FileSize,
	}
	if ref.Filename == "" {
		ref.Filename = doc.DocumentName
	}

	var err error
	if doc.HasSummary {
		err = a.controller.ResumeAnalyzed(ref)
	} else {
		err = a.controller.Resume(ref)
	}
	if err != nil {
		a.err = err
		return a, nil
	}

	a.screen = ScreenAnalysis
	a.err = nil
	if !doc.HasSummary {
		a.phase = "Analyzing document"
		return a, tea.Batch(a.spinner.Tick, a.doAnalyze())
	}
	return a, nil
}

// doLogin creates a command that signs in against the backend
func (a *App) doLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		identity, err := a.store.Login(context.Background(), a.client, email, password)
		return loginDoneMsg{identity: identity, err: err}
	}
}

// doUpload creates a command that uploads the selected file
func (a *App) doUpload() tea.Cmd {
	return func() tea.Msg {
		ref, err := a.controller.Upload(context.Background())
		return uploadDoneMsg{ref: ref, err: err}
	}
}

// doAnalyze creates a command that runs AI analysis
func (a *App) doAnalyze() tea.Cmd {
	return func() tea.Msg {
		sum, err := a.controller.Analyze(context.Background())
		return analyzeDoneMsg{sum: sum, err: err}
	}
}

// doAsk creates a command that submits a question
func (a *App) doAsk(question string) tea.Cmd {
	return func() tea.Msg {
		exchange, err := a.controller.Ask(context.Background(), question)
		return askDoneMsg{exchange: exchange, err: err}
	}
}

// loadDocuments creates a command that fetches the document list,
// serving from the cache when fresh
func (a *App) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if docs, ok := a.docsCache.Get(documentsCacheKey); ok {
			return documentsLoadedMsg{docs: docs}
		}
		docs, err := a.client.Documents(context.Background())
		if err != nil {
			return documentsLoadedMsg{err: err}
		}
		a.docsCache.Set(documentsCacheKey, docs)
		return documentsLoadedMsg{docs: docs}
	}
}

// loadHistory creates a command that fetches the Q&A history
func (a *App) loadHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := a.client.ChatHistory(context.Background())
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLogin:
		content = a.viewLogin()
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenPicker:
		content = a.viewPicker()
	case ScreenAnalysis:
		content = a.viewAnalysis()
	case ScreenDocuments:
		content = a.viewDocuments()
	case ScreenHistory:
		content = a.viewHistory()
	default:
		content = a.viewMenu()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewLogin() string {
	if a.phase != "" {
		return "\n " + a.spinner.View() + " " + a.phase + "...\n"
	}
	if a.loginForm != nil {
		return a.loginForm.View()
	}
	return ""
}

func (a *App) viewMenu() string {
	greeting := ""
	if id := a.store.Identity(); id != nil {
		name := id.FullName
		if name == "" {
			name = id.Email
		}
		greeting = "Signed in as " + name
	}

	if a.phase != "" {
		return "\n " + a.spinner.View() + " " + a.phase + "...\n"
	}

	out := ""
	if a.err != nil {
		out = styles.StatusCritical.Render("Error: "+a.err.Error()) + "\n\n"
	}
	if a.homeMenu != nil {
		out += a.homeMenu.ViewWithGreeting(greeting)
	}
	return out
}

func (a *App) viewPicker() string {
	if a.picker != nil {
		return a.picker.View()
	}
	return ""
}

// viewAnalysis renders the document session: upload progress, the
// extracted summary, and the Q&A thread
func (a *App) viewAnalysis() string {
	var sb strings.Builder

	if sel := a.controller.Selected(); sel != nil {
		line := fmt.Sprintf("%s %s (%s", icons.PDF.String(), sel.Name, humanize.Bytes(uint64(sel.SizeBytes)))
		if sel.Pages > 0 {
			line += fmt.Sprintf(", %d pages", sel.Pages)
		}
		line += ")"
		sb.WriteString(styles.Title.Render(line))
		sb.WriteString("\n")
	} else if doc := a.controller.Document(); doc != nil {
		sb.WriteString(styles.Title.Render(icons.Document.String() + " " + doc.Filename))
		sb.WriteString("\n")
	}

	if a.controller.Busy() && a.phase != "" {
		sb.WriteString("\n" + a.spinner.View() + " " + a.phase + "...\n")
		return sb.String()
	}

	if a.err != nil {
		sb.WriteString("\n" + styles.StatusCritical.Render("Error: "+a.err.Error()) + "\n")
		state := a.controller.State()
		if state == workflow.StateUploaded || state == workflow.StateAnalyzed {
			sb.WriteString(styles.Help.Render("Press r to retry the analysis.") + "\n")
		}
		return sb.String()
	}

	if sum := a.controller.Summary(); sum != nil {
		if a.controller.FallbackUsed() {
			sb.WriteString(widgets.FallbackBadge() + " " +
				styles.FallbackStyle.Render("analysis unavailable, showing locally generated placeholder"))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(a.renderSummary(sum))
	}

	if exchanges := a.controller.Exchanges(); len(exchanges) > 0 {
		sb.WriteString("\n" + styles.SectionStyle.Render(icons.Question.String()+" Questions") + "\n")
		for _, ex := range exchanges {
			sb.WriteString(styles.KeyStyle.Render("Q: ") + ex.Question + "\n")
			sb.WriteString(styles.ValueStyle.Render("A: ") + ex.ResponseText + "\n\n")
		}
	}

	if a.asking {
		sb.WriteString("\n" + a.askInput.View() + "\n")
	}

	return sb.String()
}

// renderSummary renders the four extraction buckets
func (a *App) renderSummary(sum *summary.Summary) string {
	var sb strings.Builder

	sections := []struct {
		title string
		icon  icons.Icon
		items []string
	}{
		{"Key Points", icons.KeyPoint, sum.KeyPoints},
		{"Risks", icons.Risk, sum.Risks},
		{"Important Clauses", icons.Clause, sum.Clauses},
		{"Recommendations", icons.Recommend, sum.Recommendations},
	}

	for _, sec := range sections {
		sb.WriteString(styles.SectionStyle.Render(sec.icon.String() + " " + sec.title))
		sb.WriteString("\n")
		for _, item := range sec.items {
			sb.WriteString("  - " + item + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (a *App) viewDocuments() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Document.String() + " Your documents"))
	sb.WriteString("\n\n")

	if len(a.documents) == 0 {
		sb.WriteString(styles.Subtitle.Render("No documents uploaded yet."))
		return sb.String()
	}

	for i, doc := range a.documents {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == a.docCursor {
			cursor = "> "
			style = styles.KeyStyle
		}

		name := doc.OriginalName
		if name == "" {
			name = doc.DocumentName
		}
		line := fmt.Sprintf("%s%s  %s  %s",
			cursor,
			style.Render(name),
			humanize.Bytes(uint64(doc.FileSize)),
			widgets.AnalysisBadge(doc.AnalysisStatus),
		)
		sb.WriteString(line + "\n")
	}

	if a.err != nil {
		sb.WriteString("\n" + styles.StatusCritical.Render("Error: "+a.err.Error()))
	}

	return sb.String()
}

func (a *App) viewHistory() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.History.String() + " Q&A history"))
	sb.WriteString("\n\n")

	if len(a.history) == 0 {
		sb.WriteString(styles.Subtitle.Render("No questions asked yet."))
		return sb.String()
	}

	for _, entry := range a.history {
		if entry.DocumentName != "" {
			sb.WriteString(styles.Subtitle.Render(entry.DocumentName) + "\n")
		}
		sb.WriteString(styles.KeyStyle.Render("Q: ") + entry.Question + "\n")
		sb.WriteString(styles.ValueStyle.Render("A: ") + entry.AIResponse + "\n\n")
	}

	return sb.String()
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("LexiBridge"))

	rightText := ""
	if doc := a.controller.Document(); doc != nil && a.screen == ScreenAnalysis {
		rightText = contextStyle.Render(doc.Filename) + " "
	} else if id := a.store.Identity(); id != nil && a.screen != ScreenLogin {
		rightText = contextStyle.Render(id.Email) + " "
	}

	leftRendered := lipgloss.NewStyle().Render(leftText)
	rightRendered := lipgloss.NewStyle().Align(lipgloss.Right).Render(rightText)

	leftWidth := lipgloss.Width(leftRendered)
	rightWidth := lipgloss.Width(rightRendered)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╭─" + leftRendered + fill + rightRendered + "─╮")
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	// Guard against zero/small width before WindowSizeMsg is received
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	var shortcuts []string
	switch a.screen {
	case ScreenLogin:
		shortcuts = []string{"Tab Next", "Enter Submit", "Esc Quit"}
	case ScreenMenu:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "q Quit"}
	case ScreenPicker:
		shortcuts = []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
	case ScreenAnalysis:
		if a.asking {
			shortcuts = []string{"Enter Submit", "Esc Cancel"}
		} else {
			shortcuts = []string{"a Ask", "r Re-analyze", "b Back", "q Quit"}
		}
	case ScreenDocuments:
		shortcuts = []string{"↑↓ Navigate", "Enter Open", "r Refresh", "b Back", "q Quit"}
	case ScreenHistory:
		shortcuts = []string{"b Back", "q Quit"}
	}

	var styledShortcuts []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styledShortcuts = append(styledShortcuts, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styledShortcuts = append(styledShortcuts, s)
		}
	}

	leftText := " " + strings.Join(styledShortcuts, "  ")
	leftPlainText := " " + strings.Join(shortcuts, "  ")

	rightText := ""
	rightPlainText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin && a.screen != ScreenMenu && a.screen != ScreenPicker {
		elapsed := a.formatTimeSince(a.lastUpdate)
		rightText = statusStyle.Render("Updated "+elapsed) + " "
		rightPlainText = "Updated " + elapsed + " "
	}

	leftWidth := lipgloss.Width(leftPlainText)
	rightWidth := lipgloss.Width(rightPlainText)
	fillWidth := width - 4 - leftWidth - rightWidth // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		fillWidth = 0
	}

	fill := strings.Repeat("─", fillWidth)

	return borderStyle.Render("╰─" + leftText + fill + rightText + "─╯")
}

// formatTimeSince formats a duration since the given time in human-readable form
func (a *App) formatTimeSince(t time.Time) string {
	d := time.Since(t)

	if d < time.Minute {
		secs := int(d.Seconds())
		if secs < 5 {
			return "just now"
		}
		return fmt.Sprintf("%ds ago", secs)
	}

	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := int(d.Hours())
	if hours == 1 {
		return "1h ago"
	}
	return fmt.Sprintf("%dh ago", hours)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI
func Run(store *session.Store, apiClient *client.Client, controller *workflow.Controller, extensions []string, docsTTL time.Duration) error {
	app := New(store, apiClient, controller, extensions, docsTTL)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

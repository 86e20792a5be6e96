package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sevigo/comment-warden/internal/app"
	"github.com/sevigo/comment-warden/internal/core"
)

const asciiLogo = `
╔══════════════════════════════════════════════════════════════════╗
║   ██████╗ ██████╗ ███╗   ███╗███╗   ███╗███████╗███╗   ██╗████████╗
║  ██╔════╝██╔═══██╗████╗ ████║████╗ ████║██╔════╝████╗  ██║╚══██╔══╝
║  ██║     ██║   ██║██╔████╔██║██╔████╔██║█████╗  ██╔██╗ ██║   ██║
║  ╚██████╗╚██████╔╝██║ ╚═╝ ██║██║ ╚═╝ ██║███████╗██║ ╚████║   ██║
║   ╚═════╝ ╚═════╝ ╚═╝     ╚═╝╚═╝     ╚═╝╚══════╝╚═╝  ╚═══╝   ╚═╝
║                  W A R D E N  -  comment audit browser
╚══════════════════════════════════════════════════════════════════╝
`

const auditListLimit = 20

type model struct {
	styles styles
	app    *app.App

	// UI Components
	viewport  viewport.Model
	textarea  textarea.Model
	spinner   spinner.Model
	isLoading bool

	// Session State
	repoFullName string
	audits       []core.Audit
	history      []string
	width        int
}

func initialModel(theme ThemeName) *model {
	styles := GetTheme(theme)
	ta := textarea.New()
	ta.Placeholder = "Enter command, e.g. /repo acme/widgets ..."
	ta.Focus()
	ta.Prompt = styles.prompt.Render("► ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))

	return &model{
		styles:    styles,
		textarea:  ta,
		spinner:   sp,
		isLoading: true,
		width:     80,
		history:   []string{styles.ascii.Render(asciiLogo), "", "⚙ CONNECTING TO AUDIT STORE..."},
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(initializeAppCmd(), m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.spinner, spCmd = m.spinner.Update(msg)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			m.textarea.Reset()
			return m, m.processCommand(input)
		}

	case appInitializedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory(m.styles.error.Render(msg.err.Error()))
			return m, nil
		}
		m.app = msg.app
		m.appendHistory(
			m.styles.success.Render("✓ AUDIT STORE ONLINE"),
			"",
			"Type /repo [owner/repo] to pick a repository, then /list and /show [pr].",
			"Type /help for all commands.",
		)
		return m, nil

	case auditsLoadedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory(m.styles.error.Render("Could not load audits: " + msg.err.Error()))
			return m, nil
		}
		m.repoFullName = msg.repoFullName
		m.audits = msg.audits
		m.appendHistory(m.renderAuditList())
		return m, nil

	case reportRenderedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.appendHistory(m.styles.error.Render(fmt.Sprintf("Could not show audit for PR #%d: %v", msg.prNumber, msg.err)))
			return m, nil
		}
		m.appendHistory(msg.content)
		return m, nil

	case errorMsg:
		m.isLoading = false
		m.appendHistory(m.styles.error.Render("⚠ " + msg.err.Error()))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 8
		m.textarea.SetWidth(msg.Width - 10)
		m.viewport.SetContent(strings.Join(m.history, "\n"))
	}

	return m, tea.Batch(tiCmd, vpCmd, spCmd)
}

func (m *model) View() string {
	if m.app == nil {
		return fmt.Sprintf("\n  %s BOOTING...\n\n", m.spinner.View())
	}

	var statusParts []string
	if m.repoFullName != "" {
		statusParts = append(statusParts, fmt.Sprintf("REPO: %s", m.repoFullName))
		statusParts = append(statusParts, fmt.Sprintf("AUDITS: %d", len(m.audits)))
	} else {
		statusParts = append(statusParts, "REPO: None Selected")
	}
	statusParts = append(statusParts, fmt.Sprintf("🤖 %s (%s)", m.app.Cfg.AI.GeneratorModel, m.app.Cfg.AI.Provider))

	status := m.styles.inactive.Render(strings.Join(statusParts, " │ "))

	var loadingIndicator string
	if m.isLoading {
		loadingIndicator = " " + m.spinner.View() + " " + m.styles.success.Render("WORKING...")
	}

	return m.styles.app.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.styles.viewport.Render(m.viewport.View()),
			"",
			m.styles.footer.Render(
				lipgloss.JoinHorizontal(lipgloss.Left,
					m.textarea.View(),
					loadingIndicator,
				),
			),
			status,
		),
	)
}

func (m *model) appendHistory(lines ...string) {
	m.history = append(m.history, "")
	m.history = append(m.history, lines...)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) renderAuditList() string {
	if len(m.audits) == 0 {
		return m.styles.inactive.Render(fmt.Sprintf("No audits recorded for %s yet.", m.repoFullName))
	}

	var b strings.Builder
	b.WriteString(m.styles.success.Render(fmt.Sprintf("AUDITS FOR %s:", strings.ToUpper(m.repoFullName))))
	for _, a := range m.audits {
		outcome := m.styles.success.Render(a.Outcome)
		if a.Outcome != core.OutcomeClean {
			outcome = m.styles.warn.Render(a.Outcome)
		}
		b.WriteString(fmt.Sprintf("\n  %s  PR %s  %s  findings: %d",
			m.styles.inactive.Render(a.CreatedAt.Format("2006-01-02 15:04")),
			m.styles.prompt.Render(fmt.Sprintf("#%d", a.PRNumber)),
			outcome,
			a.FindingsCount,
		))
	}
	b.WriteString("\n\n" + m.styles.inactive.Render("Use '/show [pr]' to read a report."))
	return b.String()
}

func (m *model) processCommand(input string) tea.Cmd {
	m.history = append(m.history, m.styles.prompt.Render("► ")+input)
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	command := parts[0]
	args := parts[1:]

	switch command {
	case "/repo":
		if len(args) != 1 || !strings.Contains(args[0], "/") {
			m.appendHistory(m.styles.error.Render("USAGE: /repo [owner/repo]"))
			return nil
		}
		m.isLoading = true
		m.appendHistory(m.styles.command.Render(fmt.Sprintf("→ Loading audits for %s...", args[0])))
		return tea.Batch(m.spinner.Tick, loadAuditsCmd(m.app, args[0], auditListLimit))

	case "/list", "/ls":
		if m.repoFullName == "" {
			m.appendHistory(m.styles.error.Render("No repository selected. Use '/repo [owner/repo]' first."))
			return nil
		}
		m.isLoading = true
		return tea.Batch(m.spinner.Tick, loadAuditsCmd(m.app, m.repoFullName, auditListLimit))

	case "/show":
		if m.repoFullName == "" {
			m.appendHistory(m.styles.error.Render("No repository selected. Use '/repo [owner/repo]' first."))
			return nil
		}
		if len(args) != 1 {
			m.appendHistory(m.styles.error.Render("USAGE: /show [pr-number]"))
			return nil
		}
		prNumber, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
		if err != nil || prNumber <= 0 {
			m.appendHistory(m.styles.error.Render(fmt.Sprintf("Invalid PR number: %s", args[0])))
			return nil
		}
		m.isLoading = true
		m.appendHistory(m.styles.command.Render(fmt.Sprintf("→ Rendering audit for PR #%d...", prNumber)))
		return tea.Batch(m.spinner.Tick, showAuditCmd(m.app, m.repoFullName, prNumber, m.width-6))

	case "/help", "/h":
		helpText := m.styles.success.Render("AVAILABLE COMMANDS:") + `

  /repo [owner/repo]   Select a repository and load its audit history.
  /list, /ls           Reload the audit list for the selected repository.
  /show [pr-number]    Render the latest audit report for a pull request.
  /help                Show this help message.
  /exit, /quit         Exit Comment-Warden.`
		m.appendHistory(helpText)
		return nil

	case "/exit", "/quit":
		return tea.Quit

	default:
		m.appendHistory(
			m.styles.error.Render(fmt.Sprintf("UNKNOWN COMMAND: %s", command)),
			m.styles.inactive.Render("Type /help for assistance."),
		)
		return nil
	}
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"processgpt/internal/domain"
)

// AnswerPort is the TUI-facing subset of the query router.
type AnswerPort interface {
	Answer(processID, question string, topK int) domain.Answer
}

// RebuildPort rebuilds one process's knowledge snapshot.
type RebuildPort interface {
	Rebuild(processID string) (domain.BuildStats, error)
}

// AuthPort verifies credentials.
type AuthPort interface {
	Authenticate(username, password string) (*domain.User, error)
}

// ProcessPort manages processes and uploads.
type ProcessPort interface {
	List() ([]string, error)
	Create(name string) (string, error)
	Upload(processID, path string) (string, error)
}

// Services bundles everything the TUI calls.
type Services struct {
	Auth      AuthPort
	Router    AnswerPort
	Rebuilder RebuildPort
	Processes ProcessPort
	TopK      int
}

type view int

const (
	viewLogin view = iota
	viewPickProcess
	viewChat
	viewTrainer
)

// trainer dashboard input modes
type trainerMode int

const (
	trainerIdle trainerMode = iota
	trainerCreate
	trainerUpload
)

type exchange struct {
	question string
	answer   domain.Answer
}

// maxHistory caps the retained chat exchanges per session.
const maxHistory = 10

// Model is the Bubble Tea model for the processgpt TUI.
type Model struct {
	svc Services

	view   view
	status string
	ready  bool
	width  int

	// login
	username textinput.Model
	password textinput.Model
	pwFocus  bool
	user     *domain.User

	// process selection (agent) / process list (trainer)
	processes []string
	cursor    int
	locked    string

	// chat
	input    textinput.Model
	viewport viewport.Model
	history  []exchange

	// trainer
	mode  trainerMode
	field textinput.Model
}

// New creates the TUI model.
func New(svc Services) Model {
	username := textinput.New()
	username.Prompt = "Username: "
	username.Focus()

	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Ask a process question and press Enter"

	field := textinput.New()
	field.Prompt = "> "

	return Model{
		svc:      svc,
		view:     viewLogin,
		status:   "Log in to continue.",
		username: username,
		password: password,
		input:    input,
		field:    field,
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		vh := msg.Height - 8
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderHistory())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch m.view {
		case viewLogin:
			return m.updateLogin(msg)
		case viewPickProcess:
			return m.updatePickProcess(msg)
		case viewChat:
			return m.updateChat(msg)
		case viewTrainer:
			return m.updateTrainer(msg)
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.pwFocus = !m.pwFocus
		if m.pwFocus {
			m.username.Blur()
			m.password.Focus()
		} else {
			m.password.Blur()
			m.username.Focus()
		}
		return m, nil
	case "enter":
		if !m.pwFocus {
			m.pwFocus = true
			m.username.Blur()
			m.password.Focus()
			return m, nil
		}
		user, err := m.svc.Auth.Authenticate(m.username.Value(), m.password.Value())
		if err != nil {
			m.status = "Invalid username or password."
			m.password.SetValue("")
			return m, nil
		}
		m.user = user
		m.password.SetValue("")
		return m.enterRole()
	}
	var cmd tea.Cmd
	if m.pwFocus {
		m.password, cmd = m.password.Update(msg)
	} else {
		m.username, cmd = m.username.Update(msg)
	}
	return m, cmd
}

func (m Model) enterRole() (tea.Model, tea.Cmd) {
	procs, err := m.svc.Processes.List()
	if err != nil {
		m.status = "Error: " + err.Error()
		return m, nil
	}
	m.processes = procs
	m.cursor = 0
	if m.user.Role == domain.RoleTrainer {
		m.view = viewTrainer
		m.mode = trainerIdle
		m.status = "c: create process  u: upload .txt  r: rebuild  q: logout"
		return m, nil
	}
	if len(procs) == 0 {
		m.status = "No processes are available. Contact a trainer."
	} else {
		m.status = "Select a process and press Enter to lock it for this session."
	}
	m.view = viewPickProcess
	return m, nil
}

func (m Model) updatePickProcess(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.logout()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.processes)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.processes) == 0 {
			return m, nil
		}
		m.locked = m.processes[m.cursor]
		m.view = viewChat
		m.history = nil
		m.input.Focus()
		m.status = fmt.Sprintf("Process locked to %s. Logout to change process.", m.locked)
		m.viewport.SetContent(m.renderHistory())
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.logout()
	case "enter":
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			return m, nil
		}
		ans := m.svc.Router.Answer(m.locked, q, m.svc.TopK)
		m.history = append(m.history, exchange{question: q, answer: ans})
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		m.input.SetValue("")
		m.viewport.SetContent(m.renderHistory())
		m.viewport.GotoBottom()
		return m, nil
	case "up":
		m.viewport.LineUp(1)
		return m, nil
	case "down":
		m.viewport.LineDown(1)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateTrainer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode != trainerIdle {
		switch msg.String() {
		case "esc":
			m.mode = trainerIdle
			m.field.SetValue("")
			m.field.Blur()
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.field.Value())
			m.field.SetValue("")
			m.field.Blur()
			mode := m.mode
			m.mode = trainerIdle
			return m.runTrainerAction(mode, value)
		}
		var cmd tea.Cmd
		m.field, cmd = m.field.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m.logout()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.processes)-1 {
			m.cursor++
		}
	case "c":
		m.mode = trainerCreate
		m.field.Placeholder = "New process name"
		m.field.Focus()
	case "u":
		if len(m.processes) == 0 {
			m.status = "Create a process first."
			return m, nil
		}
		m.mode = trainerUpload
		m.field.Placeholder = "Path to .txt file"
		m.field.Focus()
	case "r":
		if len(m.processes) == 0 {
			m.status = "Create a process first."
			return m, nil
		}
		stats, err := m.svc.Rebuilder.Rebuild(m.processes[m.cursor])
		if err != nil {
			m.status = "Rebuild failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("Rebuild complete for %s: %d chunks from %d docs.",
				stats.Process, stats.Chunks, stats.Documents)
		}
	}
	return m, nil
}

func (m Model) runTrainerAction(mode trainerMode, value string) (tea.Model, tea.Cmd) {
	switch mode {
	case trainerCreate:
		id, err := m.svc.Processes.Create(value)
		if err != nil {
			m.status = "Create failed: " + err.Error()
			return m, nil
		}
		procs, err := m.svc.Processes.List()
		if err == nil {
			m.processes = procs
		}
		m.status = "Process ready: " + id
	case trainerUpload:
		name, err := m.svc.Processes.Upload(m.processes[m.cursor], value)
		if err != nil {
			m.status = "Upload failed: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Uploaded %s to %s.", name, m.processes[m.cursor])
	}
	return m, nil
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	fresh := New(m.svc)
	fresh.ready = m.ready
	fresh.width = m.width
	fresh.viewport = m.viewport
	fresh.viewport.SetContent("")
	return fresh, nil
}

// View renders the current screen.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("ProcessGPT") + "  " + captionStyle.Render("process-locked SOP assistant")
	var body string
	switch m.view {
	case viewLogin:
		body = m.username.View() + "\n" + m.password.View()
	case viewPickProcess:
		body = m.renderProcessList("Select process")
	case viewChat:
		body = boxStyle.Render(m.viewport.View()) + "\n" + boxStyle.Render(m.input.View())
		header += "  " + captionStyle.Render("["+m.locked+"]")
	case viewTrainer:
		body = m.renderProcessList("Processes")
		if m.mode != trainerIdle {
			body += "\n" + boxStyle.Render(m.field.View())
		}
	}
	status := statusStyle.Render(m.status)
	return header + "\n\n" + body + "\n" + status
}

func (m Model) renderProcessList(title string) string {
	lines := []string{titleStyle.Render(title)}
	if len(m.processes) == 0 {
		lines = append(lines, captionStyle.Render("(none)"))
	}
	for i, p := range m.processes {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		lines = append(lines, marker+p)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "No chat yet."
	}
	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("Q: "+ex.question) + "\n")
		b.WriteString(ex.answer.Answer)
		if len(ex.answer.Sources) > 0 {
			b.WriteString("\n" + captionStyle.Render("Sources:"))
			for _, s := range ex.answer.Sources {
				b.WriteString(captionStyle.Render(
					fmt.Sprintf("\n- %s#%d (score=%.3f)", s.Source, s.ChunkIndex, s.Score)))
			}
		}
	}
	return b.String()
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	captionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

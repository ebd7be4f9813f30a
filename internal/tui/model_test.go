package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processgpt/internal/domain"
)

type mockAuth struct {
	user *domain.User
}

func (m *mockAuth) Authenticate(username, password string) (*domain.User, error) {
	if m.user != nil && username == m.user.Username && password == "pw" {
		return m.user, nil
	}
	return nil, errors.New("invalid username or password")
}

type mockRouter struct {
	lastProcess string
	answer      domain.Answer
}

func (m *mockRouter) Answer(processID, question string, topK int) domain.Answer {
	m.lastProcess = processID
	return m.answer
}

type mockRebuilder struct {
	stats domain.BuildStats
	err   error
}

func (m *mockRebuilder) Rebuild(string) (domain.BuildStats, error) { return m.stats, m.err }

type mockProcesses struct {
	procs []string
}

func (m *mockProcesses) List() ([]string, error) { return m.procs, nil }
func (m *mockProcesses) Create(name string) (string, error) {
	m.procs = append(m.procs, name)
	return name, nil
}
func (m *mockProcesses) Upload(processID, path string) (string, error) { return path, nil }

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(m Model, s string) Model {
	var model tea.Model = m
	for _, r := range s {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return model.(Model)
}

func newTestModel(svc Services) Model {
	m := New(svc)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return model.(Model)
}

func login(t *testing.T, m Model, user string) Model {
	t.Helper()
	m = typeString(m, user)
	model, _ := m.Update(keyMsg("enter")) // move to password
	m = model.(Model)
	m = typeString(m, "pw")
	model, _ = m.Update(keyMsg("enter"))
	return model.(Model)
}

func agentServices() Services {
	return Services{
		Auth:      &mockAuth{user: &domain.User{Username: "agent1", Role: domain.RoleAgent}},
		Router:    &mockRouter{answer: domain.Answer{Answer: "Based on approved SOP content:\n1. snippet"}},
		Rebuilder: &mockRebuilder{},
		Processes: &mockProcesses{procs: []string{"billing", "refunds"}},
		TopK:      4,
	}
}

func TestLoginFailureStaysOnLogin(t *testing.T) {
	svc := agentServices()
	svc.Auth = &mockAuth{}
	m := newTestModel(svc)

	m = login(t, m, "agent1")
	assert.Equal(t, viewLogin, m.view)
	assert.Contains(t, m.status, "Invalid")
}

func TestAgentLoginLocksProcessAndAsks(t *testing.T) {
	svc := agentServices()
	router := svc.Router.(*mockRouter)
	m := newTestModel(svc)

	m = login(t, m, "agent1")
	require.Equal(t, viewPickProcess, m.view)

	// Move to second process and lock it.
	model, _ := m.Update(keyMsg("j"))
	m = model.(Model)
	model, _ = m.Update(keyMsg("enter"))
	m = model.(Model)
	require.Equal(t, viewChat, m.view)
	assert.Equal(t, "refunds", m.locked)

	m = typeString(m, "refund question")
	model, _ = m.Update(keyMsg("enter"))
	m = model.(Model)
	assert.Equal(t, "refunds", router.lastProcess)
	require.Len(t, m.history, 1)
	assert.Contains(t, m.View(), "Based on approved SOP content:")
}

func TestChatHistoryCapped(t *testing.T) {
	m := newTestModel(agentServices())
	m = login(t, m, "agent1")
	model, _ := m.Update(keyMsg("enter"))
	m = model.(Model)

	for i := 0; i < maxHistory+5; i++ {
		m = typeString(m, "q")
		next, _ := m.Update(keyMsg("enter"))
		m = next.(Model)
	}
	assert.Len(t, m.history, maxHistory)
}

func TestTrainerRebuildFromDashboard(t *testing.T) {
	svc := agentServices()
	svc.Auth = &mockAuth{user: &domain.User{Username: "trainer1", Role: domain.RoleTrainer}}
	svc.Rebuilder = &mockRebuilder{stats: domain.BuildStats{Process: "billing", Documents: 2, Chunks: 5}}
	m := newTestModel(svc)

	m = login(t, m, "trainer1")
	require.Equal(t, viewTrainer, m.view)

	model, _ := m.Update(keyMsg("r"))
	m = model.(Model)
	assert.Contains(t, m.status, "Rebuild complete for billing")
	assert.Contains(t, m.status, "5 chunks from 2 docs")
}

func TestTrainerRebuildErrorShown(t *testing.T) {
	svc := agentServices()
	svc.Auth = &mockAuth{user: &domain.User{Username: "trainer1", Role: domain.RoleTrainer}}
	svc.Rebuilder = &mockRebuilder{err: errors.New("no .txt documents found in raw_docs")}
	m := newTestModel(svc)

	m = login(t, m, "trainer1")
	model, _ := m.Update(keyMsg("r"))
	m = model.(Model)
	assert.Contains(t, m.status, "Rebuild failed")
	assert.Contains(t, m.status, "no .txt documents")
}

func TestTrainerCreateProcess(t *testing.T) {
	svc := agentServices()
	svc.Auth = &mockAuth{user: &domain.User{Username: "trainer1", Role: domain.RoleTrainer}}
	m := newTestModel(svc)
	m = login(t, m, "trainer1")

	model, _ := m.Update(keyMsg("c"))
	m = model.(Model)
	require.Equal(t, trainerCreate, m.mode)

	m = typeString(m, "escalations")
	model, _ = m.Update(keyMsg("enter"))
	m = model.(Model)
	assert.Equal(t, trainerIdle, m.mode)
	assert.Contains(t, m.status, "Process ready: escalations")
	assert.Contains(t, m.processes, "escalations")
}

func TestLogoutResetsSession(t *testing.T) {
	m := newTestModel(agentServices())
	m = login(t, m, "agent1")
	model, _ := m.Update(keyMsg("enter")) // lock first process
	m = model.(Model)
	require.Equal(t, viewChat, m.view)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = model.(Model)
	assert.Equal(t, viewLogin, m.view)
	assert.Empty(t, m.locked)
	assert.Nil(t, m.user)
}

package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"processgpt/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndAuthenticate(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Create("trainer1", "Trainer@123", domain.RoleTrainer))

	u, err := s.Authenticate("trainer1", "Trainer@123")
	require.NoError(t, err)
	assert.Equal(t, "trainer1", u.Username)
	assert.Equal(t, domain.RoleTrainer, u.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Create("agent1", "Agent@123", domain.RoleAgent))

	_, err := s.Authenticate("agent1", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Authenticate("ghost", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateRejectsBadInput(t *testing.T) {
	s := openTestStore(t)

	assert.ErrorIs(t, s.Create("x", "pw", "admin"), ErrInvalidRole)
	assert.Error(t, s.Create("", "pw", domain.RoleAgent))
	assert.Error(t, s.Create("x", "", domain.RoleAgent))
}

func TestCreateDuplicateUser(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Create("agent1", "pw1", domain.RoleAgent))
	assert.ErrorIs(t, s.Create("agent1", "pw2", domain.RoleAgent), ErrUserExists)
}

func TestGetAndList(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Create("trainer1", "pw", domain.RoleTrainer))
	require.NoError(t, s.Create("agent1", "pw", domain.RoleAgent))

	u, err := s.Get("agent1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, domain.RoleAgent, u.Role)

	missing, err := s.Get("ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	users, err := s.List()
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "agent1", users[0].Username)
	assert.Equal(t, "trainer1", users[1].Username)
}

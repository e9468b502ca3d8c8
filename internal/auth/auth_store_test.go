package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeatlas/pokedex/config"
	"github.com/pokeatlas/pokedex/internal/logging"
	"github.com/pokeatlas/pokedex/internal/storage"
	"github.com/pokeatlas/pokedex/internal/translation"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "test-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 60
	return cfg
}

func newTestAuth(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	st, err := storage.New(t.TempDir(), 0, logging.NewNop())
	require.NoError(t, err)
	tr, err := translation.New(st, logging.NewNop())
	require.NoError(t, err)
	return NewStore(st, tr, testConfig(), logging.NewNop()), st
}

func TestRegisterEstablishesSession(t *testing.T) {
	s, st := newTestAuth(t)

	user, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "sacha", user.Username)
	assert.Equal(t, "sacha@kanto.jp", user.Email)

	assert.True(t, s.IsAuthenticated())
	assert.NotEmpty(t, s.Token())
	assert.Equal(t, user.ID, s.CurrentUserID())

	// Session and credential table are persisted.
	_, ok := st.Read(KeyToken)
	assert.True(t, ok)
	_, ok = st.Read(KeyUsers)
	assert.True(t, ok)
}

func TestRegisterValidationOrder(t *testing.T) {
	s, _ := newTestAuth(t)
	s.translator.SetLanguage("en")

	// Username is validated before email, email before password.
	_, err := s.Register("", "bad", "short")
	require.Error(t, err)
	assert.Equal(t, "Username is required", err.Error())

	_, err = s.Register("sacha", "bad", "short")
	require.Error(t, err)
	assert.Equal(t, "Invalid email format", err.Error())

	_, err = s.Register("sacha", "sacha@kanto.jp", "short")
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters long", err.Error())

	assert.False(t, s.IsAuthenticated())
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s, _ := newTestAuth(t)

	_, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)

	// Same email with different case is still a duplicate.
	_, err = s.Register("ondine", "SACHA@kanto.jp", "Togepi12")
	assert.Error(t, err)
}

func TestRegisterSanitizesUsername(t *testing.T) {
	s, _ := newTestAuth(t)

	// The username validator rejects markup characters outright; sanitize
	// still guards the stored value, so the accepted shape passes through.
	user, err := s.Register("pierre_03", "pierre@kanto.jp", "Onix1234")
	require.NoError(t, err)
	assert.Equal(t, "pierre_03", user.Username)
}

func TestLoginRoundTrip(t *testing.T) {
	s, _ := newTestAuth(t)

	registered, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)
	s.Logout()
	require.False(t, s.IsAuthenticated())

	user, err := s.Login("Sacha@Kanto.JP", "Pikachu25")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, s.IsAuthenticated())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s, _ := newTestAuth(t)

	_, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)
	s.Logout()

	_, errUnknown := s.Login("nobody@kanto.jp", "Pikachu25")
	_, errWrongPass := s.Login("sacha@kanto.jp", "Raichu26!")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
	assert.False(t, s.IsAuthenticated())
}

func TestLogoutIsIdempotent(t *testing.T) {
	s, st := newTestAuth(t)

	_, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)

	s.Logout()
	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "", s.Token())
	_, ok := st.Read(KeyToken)
	assert.False(t, ok)
	_, ok = st.Read(KeyUser)
	assert.False(t, ok)

	// The credential table survives logout.
	_, ok = st.Read(KeyUsers)
	assert.True(t, ok)
}

func TestSessionRestoredAcrossStores(t *testing.T) {
	s, st := newTestAuth(t)

	user, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)

	tr, err := translation.New(st, logging.NewNop())
	require.NoError(t, err)
	restored := NewStore(st, tr, testConfig(), logging.NewNop())

	assert.True(t, restored.IsAuthenticated())
	assert.Equal(t, user.ID, restored.CurrentUserID())
}

func TestMalformedPersistedSessionIgnored(t *testing.T) {
	st, err := storage.New(t.TempDir(), 0, logging.NewNop())
	require.NoError(t, err)
	require.True(t, st.WriteSafe(KeyToken, "sometoken"))
	require.True(t, st.WriteSafe(KeyUser, "{corrupt"))

	tr, err := translation.New(st, logging.NewNop())
	require.NoError(t, err)
	s := NewStore(st, tr, testConfig(), logging.NewNop())

	assert.False(t, s.IsAuthenticated())
}

func TestGetProfile(t *testing.T) {
	s, _ := newTestAuth(t)

	_, err := s.GetProfile()
	assert.Error(t, err)

	user, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)

	profile, err := s.GetProfile()
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
}

func TestUserByID(t *testing.T) {
	s, _ := newTestAuth(t)

	user, err := s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.NoError(t, err)

	found, ok := s.UserByID(user.ID)
	require.True(t, ok)
	assert.Equal(t, "sacha", found.Username)

	_, ok = s.UserByID("missing")
	assert.False(t, ok)
}

func TestRegisterStorageFull(t *testing.T) {
	st, err := storage.New(t.TempDir(), 40, logging.NewNop())
	require.NoError(t, err)
	tr, err := translation.New(st, logging.NewNop())
	require.NoError(t, err)
	tr.SetLanguage("en")
	s := NewStore(st, tr, testConfig(), logging.NewNop())

	_, err = s.Register("sacha", "sacha@kanto.jp", "Pikachu25")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Storage space is full")
	assert.False(t, s.IsAuthenticated())
}

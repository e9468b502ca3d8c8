package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeatlas/pokedex/internal/logging"
	"github.com/pokeatlas/pokedex/internal/models"
	"github.com/pokeatlas/pokedex/internal/storage"
)

func newTestTranslator(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	st, err := storage.New(t.TempDir(), 0, logging.NewNop())
	require.NoError(t, err)
	tr, err := New(st, logging.NewNop())
	require.NoError(t, err)
	return tr, st
}

func TestDefaultLanguageIsFrench(t *testing.T) {
	tr, _ := newTestTranslator(t)
	assert.Equal(t, models.LanguageFR, tr.Language())
}

func TestSetLanguagePersistsAndResolves(t *testing.T) {
	tr, st := newTestTranslator(t)

	require.True(t, tr.SetLanguage("en"))
	assert.Equal(t, models.LanguageEN, tr.Language())

	persisted, ok := st.Read(StorageKey)
	require.True(t, ok)
	assert.Equal(t, "en", persisted)

	// A new store over the same storage restores the choice.
	tr2, err := New(st, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, models.LanguageEN, tr2.Language())
}

func TestSetLanguageRejectsUnknownCode(t *testing.T) {
	tr, _ := newTestTranslator(t)

	assert.False(t, tr.SetLanguage("de"))
	assert.Equal(t, models.LanguageFR, tr.Language())
}

func TestInvalidPersistedLanguageIgnored(t *testing.T) {
	st, err := storage.New(t.TempDir(), 0, logging.NewNop())
	require.NoError(t, err)
	require.True(t, st.WriteSafe(StorageKey, "klingon"))

	tr, err := New(st, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, models.LanguageFR, tr.Language())
}

func TestTranslationResolution(t *testing.T) {
	tr, _ := newTestTranslator(t)

	assert.NotEqual(t, "storage.full", tr.T("storage.full"))

	tr.SetLanguage("en")
	assert.Equal(t, "Incorrect email or password", tr.T("auth.invalid_credentials"))
}

func TestMissingKeyFallsBackToKey(t *testing.T) {
	tr, _ := newTestTranslator(t)

	assert.Equal(t, "no.such.key", tr.T("no.such.key"))
	// A non-leaf node is not a valid message either.
	assert.Equal(t, "validation", tr.T("validation"))
}

func TestVariableSubstitution(t *testing.T) {
	tr, _ := newTestTranslator(t)
	tr.SetLanguage("en")

	got := tr.T("auth.welcome", map[string]string{"username": "Red"})
	assert.Equal(t, "Welcome Red", got)
}

func TestAllLocalesShareKeys(t *testing.T) {
	tr, _ := newTestTranslator(t)

	keys := []string{
		"validation.email_required",
		"validation.password_too_short",
		"auth.invalid_credentials",
		"favorites.already_favorite",
		"teams.limit_reached",
		"teams.pokemon_limit_reached",
		"storage.full",
		"catalog.load_failed",
	}
	for _, lang := range models.SupportedLanguages {
		require.True(t, tr.SetLanguage(string(lang)))
		for _, key := range keys {
			assert.NotEqual(t, key, tr.T(key), "missing %s in %s", key, lang)
		}
	}
}

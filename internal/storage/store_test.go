package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pokeatlas/pokedex/internal/logging"
)

func newTestStore(t *testing.T, quota int64) *Store {
	t.Helper()
	s, err := New(t.TempDir(), quota, logging.NewNop())
	require.NoError(t, err)
	return s
}

func TestReadMissingKey(t *testing.T) {
	s := newTestStore(t, 0)

	value, ok := s.Read("nope")
	assert.False(t, ok)
	assert.Equal(t, "", value)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)

	require.True(t, s.WriteSafe("ui-language", "fr"))
	value, ok := s.Read("ui-language")
	require.True(t, ok)
	assert.Equal(t, "fr", value)
	assert.NoError(t, s.LastError())
}

func TestOverwriteReplacesValue(t *testing.T) {
	s := newTestStore(t, 0)

	require.True(t, s.WriteSafe("k", "first"))
	require.True(t, s.WriteSafe("k", "second"))
	value, _ := s.Read("k")
	assert.Equal(t, "second", value)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := newTestStore(t, 0)

	require.True(t, s.WriteSafe("k", "v"))
	s.Remove("k")
	_, ok := s.Read("k")
	assert.False(t, ok)

	// Removing again must not blow up.
	s.Remove("k")
}

func TestQuotaRejectsOversizedWrite(t *testing.T) {
	s := newTestStore(t, 10)

	var rejected []string
	s.OnQuotaExceeded = func(key string) { rejected = append(rejected, key) }

	require.True(t, s.WriteSafe("small", "12345"))
	assert.False(t, s.WriteSafe("big", "this value is far too large"))

	assert.True(t, errors.Is(s.LastError(), ErrQuotaExceeded))
	assert.Equal(t, []string{"big"}, rejected)

	// The rejected key must not have been partially written.
	_, ok := s.Read("big")
	assert.False(t, ok)
}

func TestQuotaExcludesKeyBeingOverwritten(t *testing.T) {
	s := newTestStore(t, 10)

	require.True(t, s.WriteSafe("k", "1234567890"))
	// Overwriting the only key with a same-sized value stays in budget.
	assert.True(t, s.WriteSafe("k", "0987654321"))
}

func TestLastErrorClearsAfterSuccess(t *testing.T) {
	s := newTestStore(t, 5)

	assert.False(t, s.WriteSafe("k", "way too big for the quota"))
	require.Error(t, s.LastError())

	require.True(t, s.WriteSafe("k", "ok"))
	assert.NoError(t, s.LastError())
}

func TestKeySanitization(t *testing.T) {
	s := newTestStore(t, 0)

	require.True(t, s.WriteSafe("../escape/attempt", "v"))
	value, ok := s.Read("../escape/attempt")
	require.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestClearWipesEverything(t *testing.T) {
	s := newTestStore(t, 0)

	require.True(t, s.WriteSafe("a", "1"))
	require.True(t, s.WriteSafe("b", "2"))
	require.NoError(t, s.Clear())

	_, ok := s.Read("a")
	assert.False(t, ok)
	_, ok = s.Read("b")
	assert.False(t, ok)
}

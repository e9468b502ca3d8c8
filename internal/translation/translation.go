// Package translation resolves user-facing strings for the active UI
// language. Every store renders its error messages through the same
// translator instance, so a language change is visible everywhere.
package translation

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/pokeatlas/pokedex/internal/models"
	"github.com/pokeatlas/pokedex/internal/storage"
)

//go:embed locales/*.json
var localeFS embed.FS

// StorageKey is where the active language is persisted.
const StorageKey = "ui-language"

// Store holds the current UI language and the per-language string tables.
type Store struct {
	mu      sync.RWMutex
	lang    models.Language
	tables  map[models.Language]map[string]any
	storage *storage.Store
	logger  *zap.Logger
}

// New builds a translation store, restoring the persisted language when a
// valid one is present. Invalid persisted values are ignored and the
// default (French) is retained.
func New(st *storage.Store, logger *zap.Logger) (*Store, error) {
	tables := make(map[models.Language]map[string]any, len(models.SupportedLanguages))
	for _, lang := range models.SupportedLanguages {
		raw, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.json", lang))
		if err != nil {
			return nil, fmt.Errorf("load locale %s: %w", lang, err)
		}
		var table map[string]any
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		tables[lang] = table
	}

	s := &Store{
		lang:    models.LanguageFR,
		tables:  tables,
		storage: st,
		logger:  logger,
	}
	if persisted, ok := st.Read(StorageKey); ok && models.IsValidLanguage(persisted) {
		s.lang = models.Language(persisted)
	}
	return s, nil
}

// Language returns the active UI language.
func (s *Store) Language() models.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage switches the active language and persists the choice.
// Unknown codes are rejected with a logged error and no state change.
func (s *Store) SetLanguage(code string) bool {
	if !models.IsValidLanguage(code) {
		s.logger.Error("unsupported language", zap.String("code", code))
		return false
	}
	s.mu.Lock()
	s.lang = models.Language(code)
	s.mu.Unlock()
	s.storage.WriteSafe(StorageKey, code)
	return true
}

// T resolves a dot-separated key through the active language's table,
// substituting {{var}} placeholders from vars. A missing key resolves to
// the key itself so the UI degrades to something greppable.
func (s *Store) T(key string, vars ...map[string]string) string {
	s.mu.RLock()
	table := s.tables[s.lang]
	s.mu.RUnlock()

	var value any = table
	for _, part := range strings.Split(key, ".") {
		node, ok := value.(map[string]any)
		if !ok {
			s.logger.Warn("translation key not found", zap.String("key", key))
			return key
		}
		value, ok = node[part]
		if !ok {
			s.logger.Warn("translation key not found", zap.String("key", key))
			return key
		}
	}

	text, ok := value.(string)
	if !ok {
		s.logger.Warn("translation key is not a leaf string", zap.String("key", key))
		return key
	}

	for _, m := range vars {
		for name, val := range m {
			text = strings.ReplaceAll(text, "{{"+name+"}}", val)
		}
	}
	return text
}

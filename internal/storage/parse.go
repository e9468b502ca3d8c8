package storage

import (
	"encoding/json"

	"go.uber.org/zap"
)

// ParseSafe decodes raw JSON into T, returning fallback for empty or
// malformed input. It never panics; malformed persisted state always
// degrades to the fallback.
func ParseSafe[T any](raw string, fallback T) T {
	if raw == "" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback
	}
	return v
}

// ReadJSON reads key from the store and decodes it with ParseSafe.
func ReadJSON[T any](s *Store, key string, fallback T) T {
	raw, ok := s.Read(key)
	if !ok {
		return fallback
	}
	return ParseSafe(raw, fallback)
}

// WriteJSON encodes v and persists it under key through WriteSafe. An
// encode failure is recorded as the store's last error so it is not
// misreported as a stale capacity condition.
func WriteJSON(s *Store, key string, v any) bool {
	b, err := json.Marshal(v)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.logger.Error("storage encode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return s.WriteSafe(key, string(b))
}

package favorites

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pokeatlas/pokedex/internal/auth"
	"github.com/pokeatlas/pokedex/internal/storage"
	"github.com/pokeatlas/pokedex/internal/translation"
)

// Store is the per-user favorites collection. State is persisted under
// the current user's key and kept in sync with external writers through
// the storage watcher. Switching the logged-in user reloads the
// corresponding persisted slice transparently.
type Store struct {
	mu        sync.Mutex
	favorites []Favorite
	loadedFor string

	auth       *auth.Store
	storage    *storage.Store
	watcher    *storage.Watcher
	translator *translation.Store
	logger     *zap.Logger

	syncCh   <-chan storage.Event
	syncStop chan struct{}
}

// NewStore builds the favorites store. watcher may be nil, in which case
// external changes are not observed.
func NewStore(st *storage.Store, watcher *storage.Watcher, authStore *auth.Store, tr *translation.Store, logger *zap.Logger) *Store {
	s := &Store{
		auth:       authStore,
		storage:    st,
		watcher:    watcher,
		translator: tr,
		logger:     logger,
	}
	s.mu.Lock()
	s.reloadLocked()
	s.mu.Unlock()
	return s
}

// List returns the current user's favorites.
func (s *Store) List() []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	return append([]Favorite(nil), s.favorites...)
}

// IsFavorite reports whether the Pokémon is currently favorited. Pure
// in-memory membership check.
func (s *Store) IsFavorite(pokemonID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	for _, f := range s.favorites {
		if f.PokemonID == pokemonID {
			return true
		}
	}
	return false
}

// Add favorites a Pokémon for the current user. Adding a Pokémon that is
// already favorited is rejected.
func (s *Store) Add(pokemonID int) (Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	userID := s.auth.CurrentUserID()
	if userID == "" {
		return Favorite{}, errors.New(s.translator.T("auth.not_logged_in"))
	}
	for _, f := range s.favorites {
		if f.PokemonID == pokemonID {
			return Favorite{}, errors.New(s.translator.T("favorites.already_favorite"))
		}
	}

	fav := Favorite{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		UserID:    userID,
		PokemonID: pokemonID,
	}
	next := append(append([]Favorite(nil), s.favorites...), fav)
	if !storage.WriteJSON(s.storage, Key(userID), next) {
		return Favorite{}, s.saveError()
	}
	s.favorites = next
	return fav, nil
}

// Remove unfavorites a Pokémon, failing when no matching favorite
// exists.
func (s *Store) Remove(pokemonID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	userID := s.auth.CurrentUserID()
	if userID == "" {
		return errors.New(s.translator.T("auth.not_logged_in"))
	}

	idx := -1
	for i, f := range s.favorites {
		if f.PokemonID == pokemonID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.New(s.translator.T("favorites.not_found"))
	}

	next := append([]Favorite(nil), s.favorites...)
	next = append(next[:idx], next[idx+1:]...)
	if !storage.WriteJSON(s.storage, Key(userID), next) {
		return s.saveError()
	}
	s.favorites = next
	return nil
}

// Toggle removes the favorite when present, adds it otherwise.
func (s *Store) Toggle(pokemonID int) error {
	if s.IsFavorite(pokemonID) {
		return s.Remove(pokemonID)
	}
	_, err := s.Add(pokemonID)
	return err
}

// Close stops observing external changes.
func (s *Store) Close() {
	s.mu.Lock()
	s.unsubscribeLocked()
	s.mu.Unlock()
}

// reloadLocked makes in-memory state track the current user: when the
// logged-in user changed since the last call, the persisted slice for
// the new user is loaded and the external-change subscription is moved
// to the new key.
func (s *Store) reloadLocked() {
	userID := s.auth.CurrentUserID()
	if userID == s.loadedFor && (userID == "" || s.syncCh != nil || s.watcher == nil) {
		return
	}

	s.unsubscribeLocked()
	s.loadedFor = userID
	if userID == "" {
		s.favorites = nil
		return
	}
	s.favorites = storage.ReadJSON(s.storage, Key(userID), []Favorite{})

	if s.watcher != nil {
		ch := s.watcher.Subscribe(Key(userID))
		stop := make(chan struct{})
		s.syncCh = ch
		s.syncStop = stop
		go s.syncLoop(userID, ch, stop)
	}
}

func (s *Store) unsubscribeLocked() {
	if s.syncStop != nil {
		close(s.syncStop)
		s.watcher.Unsubscribe(Key(s.loadedFor), s.syncCh)
		s.syncStop = nil
		s.syncCh = nil
	}
}

// syncLoop replaces in-memory state whenever another process writes the
// same key. Events with an empty new value (key removed) are ignored.
func (s *Store) syncLoop(userID string, ch <-chan storage.Event, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.NewValue == "" {
				continue
			}
			s.mu.Lock()
			if s.loadedFor == userID {
				s.favorites = storage.ParseSafe(ev.NewValue, []Favorite{})
				s.logger.Debug("favorites replaced from external change",
					zap.String("user_id", userID))
			}
			s.mu.Unlock()
		}
	}
}

func (s *Store) saveError() error {
	if errors.Is(s.storage.LastError(), storage.ErrQuotaExceeded) {
		return errors.New(s.translator.T("storage.full"))
	}
	return errors.New(s.translator.T("favorites.save_failed"))
}

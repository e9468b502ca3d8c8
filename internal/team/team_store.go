package team

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pokeatlas/pokedex/internal/auth"
	"github.com/pokeatlas/pokedex/internal/storage"
	"github.com/pokeatlas/pokedex/internal/translation"
	"github.com/pokeatlas/pokedex/pkg/security"
)

// Store is the per-user team collection plus the current-team pointer.
// Persistence, user switching and external-change sync follow the same
// pattern as the favorites store. The mutating methods hard-enforce the
// 3-team and 6-slot caps; CanCreateTeam and CanAddPokemon remain as
// advisory reads for the UI.
type Store struct {
	mu          sync.Mutex
	teams       []Team
	currentTeam *Team
	loadedFor   string

	auth       *auth.Store
	storage    *storage.Store
	watcher    *storage.Watcher
	translator *translation.Store
	logger     *zap.Logger

	syncCh   <-chan storage.Event
	syncStop chan struct{}
}

// NewStore builds the teams store. watcher may be nil, in which case
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

// List returns the current user's teams.
func (s *Store) List() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	return append([]Team(nil), s.teams...)
}

// CurrentTeam returns the selected team, if any.
func (s *Store) CurrentTeam() (Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	if s.currentTeam == nil {
		return Team{}, false
	}
	return *s.currentTeam, true
}

// FetchOne selects teamID as the current team and returns it.
func (s *Store) FetchOne(teamID string) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	for i := range s.teams {
		if s.teams[i].ID == teamID {
			t := s.teams[i]
			s.currentTeam = &t
			return t, nil
		}
	}
	return Team{}, errors.New(s.translator.T("teams.not_found"))
}

// Create adds a new empty team for the current user. The team name is
// sanitized before persisting. Creating past the cap is rejected.
func (s *Store) Create(name string) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	userID := s.auth.CurrentUserID()
	if userID == "" {
		return Team{}, errors.New(s.translator.T("auth.not_logged_in"))
	}
	if name == "" {
		return Team{}, errors.New(s.translator.T("teams.name_required"))
	}
	if len(s.teams) >= MaxTeams {
		return Team{}, errors.New(s.translator.T("teams.limit_reached"))
	}

	now := time.Now()
	t := Team{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		Name:      security.SanitizeInput(name),
		Pokemons:  []TeamPokemon{},
	}
	next := append(append([]Team(nil), s.teams...), t)
	if !storage.WriteJSON(s.storage, Key(userID), next) {
		return Team{}, s.saveError()
	}
	s.teams = next
	return t, nil
}

// DeleteOne removes a team, clearing the current-team pointer when it
// pointed at the deleted team.
func (s *Store) DeleteOne(teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	userID := s.auth.CurrentUserID()
	if userID == "" {
		return errors.New(s.translator.T("auth.not_logged_in"))
	}

	idx := s.indexLocked(teamID)
	if idx < 0 {
		return errors.New(s.translator.T("teams.not_found"))
	}

	next := append([]Team(nil), s.teams...)
	next = append(next[:idx], next[idx+1:]...)
	if !storage.WriteJSON(s.storage, Key(userID), next) {
		return s.saveError()
	}
	s.teams = next
	if s.currentTeam != nil && s.currentTeam.ID == teamID {
		s.currentTeam = nil
	}
	return nil
}

// AddPokemon fills a slot of the team. The nickname is sanitized; the
// slot cap is enforced. The current-team mirror is updated when it
// points at the same team.
func (s *Store) AddPokemon(teamID string, pokemonID, position int, nickname string, isShiny bool) (TeamPokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	userID := s.auth.CurrentUserID()
	if userID == "" {
		return TeamPokemon{}, errors.New(s.translator.T("auth.not_logged_in"))
	}

	idx := s.indexLocked(teamID)
	if idx < 0 {
		return TeamPokemon{}, errors.New(s.translator.T("teams.not_found"))
	}
	if len(s.teams[idx].Pokemons) >= MaxPokemonPerTeam {
		return TeamPokemon{}, errors.New(s.translator.T("teams.pokemon_limit_reached"))
	}

	tp := TeamPokemon{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		TeamID:    teamID,
		PokemonID: pokemonID,
		Position:  position,
		Nickname:  security.SanitizeInput(nickname),
		IsShiny:   isShiny,
	}

	next := append([]Team(nil), s.teams...)
	next[idx].Pokemons = append(append([]TeamPokemon(nil), next[idx].Pokemons...), tp)
	next[idx].UpdatedAt = time.Now()
	if !storage.WriteJSON(s.storage, Key(userID), next) {
		return TeamPokemon{}, s.saveError()
	}
	s.teams = next
	if s.currentTeam != nil && s.currentTeam.ID == teamID {
		t := next[idx]
		s.currentTeam = &t
	}
	return tp, nil
}

// RemovePokemon empties the slot holding pokemonID, updating the
// current-team mirror symmetrically.
func (s *Store) RemovePokemon(teamID string, pokemonID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()

	userID := s.auth.CurrentUserID()
	if userID == "" {
		return errors.New(s.translator.T("auth.not_logged_in"))
	}

	idx := s.indexLocked(teamID)
	if idx < 0 {
		return errors.New(s.translator.T("teams.not_found"))
	}

	slot := -1
	for i, tp := range s.teams[idx].Pokemons {
		if tp.PokemonID == pokemonID {
			slot = i
			break
		}
	}
	if slot < 0 {
		return errors.New(s.translator.T("teams.pokemon_not_found"))
	}

	next := append([]Team(nil), s.teams...)
	pokemons := append([]TeamPokemon(nil), next[idx].Pokemons...)
	next[idx].Pokemons = append(pokemons[:slot], pokemons[slot+1:]...)
	next[idx].UpdatedAt = time.Now()
	if !storage.WriteJSON(s.storage, Key(userID), next) {
		return s.saveError()
	}
	s.teams = next
	if s.currentTeam != nil && s.currentTeam.ID == teamID {
		t := next[idx]
		s.currentTeam = &t
	}
	return nil
}

// CanAddPokemon reports whether the team exists and has a free slot.
func (s *Store) CanAddPokemon(teamID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	idx := s.indexLocked(teamID)
	return idx >= 0 && len(s.teams[idx].Pokemons) < MaxPokemonPerTeam
}

// CanCreateTeam reports whether the current user is under the team cap.
// Always false for anonymous users.
func (s *Store) CanCreateTeam() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloadLocked()
	return s.loadedFor != "" && len(s.teams) < MaxTeams
}

// Close stops observing external changes.
func (s *Store) Close() {
	s.mu.Lock()
	s.unsubscribeLocked()
	s.mu.Unlock()
}

func (s *Store) indexLocked(teamID string) int {
	for i := range s.teams {
		if s.teams[i].ID == teamID {
			return i
		}
	}
	return -1
}

func (s *Store) reloadLocked() {
	userID := s.auth.CurrentUserID()
	if userID == s.loadedFor && (userID == "" || s.syncCh != nil || s.watcher == nil) {
		return
	}

	s.unsubscribeLocked()
	s.loadedFor = userID
	s.currentTeam = nil
	if userID == "" {
		s.teams = nil
		return
	}
	s.teams = storage.ReadJSON(s.storage, Key(userID), []Team{})

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
				s.teams = storage.ParseSafe(ev.NewValue, []Team{})
				if s.currentTeam != nil {
					idx := s.indexLocked(s.currentTeam.ID)
					if idx < 0 {
						s.currentTeam = nil
					} else {
						t := s.teams[idx]
						s.currentTeam = &t
					}
				}
				s.logger.Debug("teams replaced from external change",
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
	return errors.New(s.translator.T("teams.save_failed"))
}

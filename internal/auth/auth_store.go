package auth

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pokeatlas/pokedex/config"
	"github.com/pokeatlas/pokedex/internal/storage"
	"github.com/pokeatlas/pokedex/internal/translation"
	"github.com/pokeatlas/pokedex/pkg/security"
	"github.com/pokeatlas/pokedex/pkg/token"
	"github.com/pokeatlas/pokedex/pkg/validation"
)

// Store is the authentication state machine: anonymous or authenticated,
// with a single persisted session (token, user) and a persisted
// credential table. All user-facing failures come back as errors whose
// message is already translated.
type Store struct {
	mu   sync.RWMutex
	tok  string
	user *User

	storage    *storage.Store
	translator *translation.Store
	cfg        *config.Config
	logger     *zap.Logger
}

// NewStore builds the auth store, restoring a persisted session when one
// exists. Malformed persisted state is treated as no session.
func NewStore(st *storage.Store, tr *translation.Store, cfg *config.Config, logger *zap.Logger) *Store {
	s := &Store{
		storage:    st,
		translator: tr,
		cfg:        cfg,
		logger:     logger,
	}

	if tok, ok := st.Read(KeyToken); ok && tok != "" {
		user := storage.ReadJSON[*User](st, KeyUser, nil)
		if user != nil {
			s.tok = tok
			s.user = user
		}
	}
	return s
}

// IsAuthenticated reports whether a session is established. The token
// and user are always both set or both absent.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok != ""
}

// Token returns the current session token, "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok
}

// CurrentUser returns the session user.
func (s *Store) CurrentUser() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// CurrentUserID returns the session user's id, "" when anonymous.
func (s *Store) CurrentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Register creates a new credential record and establishes a session.
// The first failing validator's message is returned and nothing is
// mutated on failure.
func (s *Store) Register(username, email, password string) (User, error) {
	if r := validation.ValidateUsername(username); !r.Valid {
		return User{}, errors.New(s.translator.T(r.Error))
	}
	if r := validation.ValidateEmail(email); !r.Valid {
		return User{}, errors.New(s.translator.T(r.Error))
	}
	if r := validation.ValidatePassword(password); !r.Valid {
		return User{}, errors.New(s.translator.T(r.Error))
	}

	email = strings.ToLower(email)
	users := storage.ReadJSON(s.storage, KeyUsers, []StoredUser{})
	for _, u := range users {
		if u.Email == email {
			return User{}, errors.New(s.translator.T("auth.email_taken"))
		}
	}

	salt := security.GenerateSalt()
	now := time.Now()
	record := StoredUser{
		User: User{
			ID:        uuid.NewString(),
			Username:  security.SanitizeInput(username),
			Email:     email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: security.HashPassword(password, salt),
		Salt:         salt,
	}

	if !storage.WriteJSON(s.storage, KeyUsers, append(users, record)) {
		return User{}, s.saveError()
	}

	if err := s.establishSession(record.User); err != nil {
		return User{}, err
	}
	s.logger.Info("user registered", zap.String("user_id", record.ID))
	return record.User, nil
}

// Login verifies credentials and establishes a session. Unknown email
// and wrong password produce the same generic failure; nothing reveals
// whether the email exists.
func (s *Store) Login(email, password string) (User, error) {
	if r := validation.ValidateEmail(email); !r.Valid {
		return User{}, errors.New(s.translator.T(r.Error))
	}

	email = strings.ToLower(email)
	users := storage.ReadJSON(s.storage, KeyUsers, []StoredUser{})

	var record *StoredUser
	for i := range users {
		if users[i].Email == email {
			record = &users[i]
			break
		}
	}
	if record == nil || !security.VerifyPassword(password, record.Salt, record.PasswordHash) {
		return User{}, errors.New(s.translator.T("auth.invalid_credentials"))
	}

	if err := s.establishSession(record.User); err != nil {
		return User{}, err
	}
	s.logger.Info("user logged in", zap.String("user_id", record.ID))
	return record.User, nil
}

// Logout clears the in-memory session and removes both persisted session
// keys. Idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	s.tok = ""
	s.user = nil
	s.mu.Unlock()
	s.storage.Remove(KeyToken)
	s.storage.Remove(KeyUser)
}

// GetProfile returns the session user. This is a local read.
func (s *Store) GetProfile() (User, error) {
	user, ok := s.CurrentUser()
	if !ok {
		return User{}, errors.New(s.translator.T("auth.not_logged_in"))
	}
	return user, nil
}

// UserByID looks up a credential-table record by id, without password
// material. Used by the request middleware.
func (s *Store) UserByID(id string) (User, bool) {
	users := storage.ReadJSON(s.storage, KeyUsers, []StoredUser{})
	for i := range users {
		if users[i].ID == id {
			return users[i].User, true
		}
	}
	return User{}, false
}

func (s *Store) establishSession(user User) error {
	tok, err := token.GenerateJWT(user.ID, s.cfg.JWT.AccessTokenSecret, s.cfg.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		s.logger.Error("session token generation failed", zap.Error(err))
		return errors.New(s.translator.T("auth.save_failed"))
	}

	if !s.storage.WriteSafe(KeyToken, tok) {
		return s.saveError()
	}
	if !storage.WriteJSON(s.storage, KeyUser, user) {
		s.storage.Remove(KeyToken)
		return s.saveError()
	}

	s.mu.Lock()
	s.tok = tok
	u := user
	s.user = &u
	s.mu.Unlock()
	return nil
}

// saveError translates a failed persistence write, distinguishing the
// storage-full condition so the caller can escalate it.
func (s *Store) saveError() error {
	if errors.Is(s.storage.LastError(), storage.ErrQuotaExceeded) {
		return errors.New(s.translator.T("storage.full"))
	}
	return errors.New(s.translator.T("auth.save_failed"))
}

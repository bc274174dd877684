package auth

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore is a Store kept in process memory. It suits tests and local
// development; nothing survives a restart.
type MemoryStore struct {
	mu            sync.RWMutex
	nextID        int64
	users         map[int64]User
	accounts      map[int64]AuthAccount
	sessions      map[int64]Session
	confirmations map[int64]Confirmation
	now           func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]User),
		accounts:      make(map[int64]AuthAccount),
		sessions:      make(map[int64]Session),
		confirmations: make(map[int64]Confirmation),
		now:           time.Now,
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) CreateUser(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email || existing.LowerUserName == u.LowerUserName {
			return ErrDuplicate
		}
	}
	u.ID = s.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id int64) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	return s.findUser(func(u User) bool { return u.Email == email })
}

func (s *MemoryStore) GetUserByUserName(_ context.Context, lowerUserName string) (User, error) {
	return s.findUser(func(u User) bool { return u.LowerUserName == lowerUserName })
}

func (s *MemoryStore) findUser(match func(User) bool) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *MemoryStore) UpdateUserPassword(_ context.Context, userID int64, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	s.users[userID] = u
	return nil
}

func (s *MemoryStore) UpdateUserProfile(_ context.Context, userID int64, p ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range s.users {
		if id != userID && other.LowerUserName == p.LowerUserName {
			return ErrDuplicate
		}
	}
	u.FullName = p.FullName
	u.UserName = p.UserName
	u.LowerUserName = p.LowerUserName
	u.AvatarURL = p.AvatarURL
	u.AvatarProvider = p.AvatarProvider
	s.users[userID] = u
	return nil
}

// DeleteUser removes the user with its accounts, sessions and codes.
func (s *MemoryStore) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	deleteOwned(s.accounts, id, func(a AuthAccount) int64 { return a.UserID })
	deleteOwned(s.sessions, id, func(v Session) int64 { return v.UserID })
	deleteOwned(s.confirmations, id, func(c Confirmation) int64 { return c.UserID })
	return nil
}

func deleteOwned[T any](m map[int64]T, userID int64, owner func(T) int64) {
	for id, v := range m {
		if owner(v) == userID {
			delete(m, id)
		}
	}
}

func (s *MemoryStore) CreateAuthAccount(_ context.Context, a *AuthAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[a.UserID]; !ok {
		return ErrNotFound
	}
	for _, existing := range s.accounts {
		if existing.ProviderName == a.ProviderName && existing.ProviderAccountID == a.ProviderAccountID {
			return ErrDuplicate
		}
	}
	a.ID = s.id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	s.accounts[a.ID] = *a
	return nil
}

func (s *MemoryStore) FindAuthAccount(_ context.Context, provider, accountID, email string) (AuthAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.ProviderName != provider {
			continue
		}
		if a.ProviderAccountID == accountID || (email != "" && a.ProviderAccountEmail == email) {
			return a, nil
		}
	}
	return AuthAccount{}, ErrNotFound
}

func (s *MemoryStore) GetUserAuthAccount(_ context.Context, userID int64, provider string) (AuthAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if a.UserID == userID && a.ProviderName == provider {
			return a, nil
		}
	}
	return AuthAccount{}, ErrNotFound
}

func (s *MemoryStore) ListAuthAccounts(_ context.Context, userID int64) ([]AuthAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := collect(s.accounts, func(a AuthAccount) bool { return a.UserID == userID })
	slices.SortFunc(out, func(a, b AuthAccount) int { return int(a.ID - b.ID) })
	return out, nil
}

func (s *MemoryStore) CreateSession(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[sess.UserID]; !ok {
		return ErrNotFound
	}
	sess.ID = s.id()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *MemoryStore) TouchSession(_ context.Context, id int64, token string, at time.Time) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Token != token || !sess.Valid(at) {
		return Session{}, ErrNotFound
	}
	sess.LastActiveAt = at
	s.sessions[id] = sess
	return sess, nil
}

func (s *MemoryStore) ListSessions(_ context.Context, userID int64) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := collect(s.sessions, func(v Session) bool { return v.UserID == userID })
	slices.SortFunc(out, func(a, b Session) int { return int(a.ID - b.ID) })
	return out, nil
}

func (s *MemoryStore) DeleteUserSession(_ context.Context, userID, sessionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.UserID != userID {
		return ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) DeleteSessionByRevokeCode(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if sess.RevokeCode == code {
			delete(s.sessions, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateConfirmation(_ context.Context, c *Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[c.UserID]; !ok {
		return ErrNotFound
	}
	for _, existing := range s.confirmations {
		if existing.Code == c.Code {
			return ErrDuplicate
		}
	}
	c.ID = s.id()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.confirmations[c.ID] = *c
	return nil
}

func (s *MemoryStore) GetConfirmation(_ context.Context, code string) (Confirmation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.confirmations {
		if c.Code == code {
			return c, nil
		}
	}
	return Confirmation{}, ErrNotFound
}

func (s *MemoryStore) DeleteConfirmations(_ context.Context, userID int64, action ActionType) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, c := range s.confirmations {
		if c.UserID == userID && c.ActionType == action {
			delete(s.confirmations, id)
			n++
		}
	}
	return n, nil
}

func collect[T any](m map[int64]T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

var _ Store = (*MockStore)(nil)

func (m *MockStore) CreateUser(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStore) GetUserByID(ctx context.Context, id int64) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) GetUserByUserName(ctx context.Context, lowerUserName string) (User, error) {
	args := m.Called(ctx, lowerUserName)
	return args.Get(0).(User), args.Error(1)
}

func (m *MockStore) UpdateUserPassword(ctx context.Context, userID int64, hash string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *MockStore) UpdateUserProfile(ctx context.Context, userID int64, p ProfileUpdate) error {
	args := m.Called(ctx, userID, p)
	return args.Error(0)
}

func (m *MockStore) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) CreateAuthAccount(ctx context.Context, a *AuthAccount) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockStore) FindAuthAccount(ctx context.Context, provider, accountID, email string) (AuthAccount, error) {
	args := m.Called(ctx, provider, accountID, email)
	return args.Get(0).(AuthAccount), args.Error(1)
}

func (m *MockStore) GetUserAuthAccount(ctx context.Context, userID int64, provider string) (AuthAccount, error) {
	args := m.Called(ctx, userID, provider)
	return args.Get(0).(AuthAccount), args.Error(1)
}

func (m *MockStore) ListAuthAccounts(ctx context.Context, userID int64) ([]AuthAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AuthAccount), args.Error(1)
}

func (m *MockStore) CreateSession(ctx context.Context, s *Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) TouchSession(ctx context.Context, id int64, token string, at time.Time) (Session, error) {
	args := m.Called(ctx, id, token, at)
	return args.Get(0).(Session), args.Error(1)
}

func (m *MockStore) ListSessions(ctx context.Context, userID int64) ([]Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Session), args.Error(1)
}

func (m *MockStore) DeleteUserSession(ctx context.Context, userID, sessionID int64) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockStore) DeleteSessionByRevokeCode(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockStore) CreateConfirmation(ctx context.Context, c *Confirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) GetConfirmation(ctx context.Context, code string) (Confirmation, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(Confirmation), args.Error(1)
}

func (m *MockStore) DeleteConfirmations(ctx context.Context, userID int64, action ActionType) (int64, error) {
	args := m.Called(ctx, userID, action)
	return args.Get(0).(int64), args.Error(1)
}

// MockProviderClient is a mock implementation of ProviderClient.
type MockProviderClient struct {
	mock.Mock
	name string
}

func newMockProvider(name string) *MockProviderClient {
	return &MockProviderClient{name: name}
}

func (m *MockProviderClient) Name() string { return m.name }

func (m *MockProviderClient) AuthCodeURL(state string) string {
	return "https://" + m.name + ".example/authorize?state=" + state
}

func (m *MockProviderClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockProviderClient) FetchProfile(ctx context.Context, tok *oauth2.Token) (Profile, error) {
	args := m.Called(ctx, tok)
	return args.Get(0).(Profile), args.Error(1)
}

// recordingNotifier keeps every message it was asked to send.
type recordingNotifier struct {
	mu            sync.Mutex
	alerts        []Session
	confirmations []Confirmation
	err           error
}

func (n *recordingNotifier) SendSignInAlert(_ context.Context, _ User, s Session) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, s)
	return n.err
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, _ User, c Confirmation, _ time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, c)
	return n.err
}

func (n *recordingNotifier) Alerts() []Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Session(nil), n.alerts...)
}

func (n *recordingNotifier) Confirmations() []Confirmation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Confirmation(nil), n.confirmations...)
}

// recordingCharger keeps every charge reason.
type recordingCharger struct {
	mu      sync.Mutex
	reasons []string
}

func (c *recordingCharger) Charge(_ context.Context, reason string, _ int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasons = append(c.reasons, reason)
}

func (c *recordingCharger) Reasons() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.reasons...)
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

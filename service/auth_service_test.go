package service

import (
	"errors"
	"go-content-api/common"
	"go-content-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret-key"
	testPassword = "Secr3t!"
	testIP       = "203.0.113.7"
)

// testClock is an adjustable clock shared by the service under test and
// the token issuer.
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time          { return c.current }
func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func hashedTestPassword(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcryptCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}
	return string(hash)
}

// --- testify mocks ---

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) GetByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetByUID(uid string) (*model.User, error) {
	args := m.Called(uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) Register(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) Save(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) MarkLastLogin(userID int, at time.Time) error {
	args := m.Called(userID, at)
	return args.Error(0)
}
func (m *mockUserRepo) HardDeleteSoftDeletedBefore(threshold time.Time, batchSize int) (int64, error) {
	args := m.Called(threshold, batchSize)
	return args.Get(0).(int64), args.Error(1)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Create(token *model.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}
func (m *mockTokenRepo) GetByToken(token string) (*model.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}
func (m *mockTokenRepo) GetActiveByUserAndDevice(userID int, deviceInfo string) (*model.RefreshToken, error) {
	args := m.Called(userID, deviceInfo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}
func (m *mockTokenRepo) Revoke(id int) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *mockTokenRepo) RevokeAndSoftDelete(id int, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}
func (m *mockTokenRepo) HardDeleteRevokedBefore(threshold time.Time) (int64, error) {
	args := m.Called(threshold)
	return args.Get(0).(int64), args.Error(1)
}

type mockAttemptRepo struct{ mock.Mock }

func (m *mockAttemptRepo) Record(userID int, ip string, successful bool) error {
	args := m.Called(userID, ip, successful)
	return args.Error(0)
}
func (m *mockAttemptRepo) RecentFailures(userID int, ip string, limit int) ([]*model.LoginAttempt, error) {
	args := m.Called(userID, ip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LoginAttempt), args.Error(1)
}

func newAuthServiceForTest(clock *testClock, users *mockUserRepo, tokens *mockTokenRepo, attempts *mockAttemptRepo) *AuthService {
	issuer := NewTokenService(testSecret, clock.Now)
	return NewAuthService(users, tokens, attempts, issuer, 15*time.Minute, 5, 30*time.Minute, clock.Now)
}

func TestAuthService_Login_IdentifierValidation(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	t.Run("both email and uid", func(t *testing.T) {
		_, err := authService.Login(LoginInput{
			Email: "alice@example.com", UID: "17000000001", Password: testPassword,
		})
		assert.ErrorIs(t, err, common.ErrInvalidCredentialsRequest)
	})

	t.Run("neither email nor uid", func(t *testing.T) {
		_, err := authService.Login(LoginInput{Password: testPassword})
		assert.ErrorIs(t, err, common.ErrInvalidCredentialsRequest)
	})

	// No storage access may happen before the identifier check.
	users.AssertNotCalled(t, "GetByEmail", mock.Anything)
	users.AssertNotCalled(t, "GetByUID", mock.Anything)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	users.On("GetByEmail", "ghost@example.com").Return(nil, nil).Once()

	_, err := authService.Login(LoginInput{
		Email: "ghost@example.com", Password: testPassword, IP: testIP,
	})

	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
	users.AssertExpectations(t)
}

func TestAuthService_Login_WrongPasswordRecordsFailure(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	user := &model.User{ID: 1, UID: "17000000001", Email: "alice@example.com", PasswordHash: hashedTestPassword(t)}
	users.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
	attempts.On("RecentFailures", 1, testIP, 5).Return([]*model.LoginAttempt{}, nil).Once()
	attempts.On("Record", 1, testIP, false).Return(nil).Once()

	_, err := authService.Login(LoginInput{
		Email: "alice@example.com", Password: "wrong-password", IP: testIP,
	})

	assert.ErrorIs(t, err, common.ErrAuthenticationFailed)
	attempts.AssertExpectations(t)
}

func TestAuthService_Login_AttemptWriteFailurePropagates(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	user := &model.User{ID: 1, UID: "17000000001", Email: "alice@example.com", PasswordHash: hashedTestPassword(t)}
	storageErr := errors.New("attempt log unavailable")

	// The audit log is a hard requirement: a failed write fails the login
	// instead of being swallowed.
	users.On("GetByEmail", "alice@example.com").Return(user, nil).Twice()
	attempts.On("RecentFailures", 1, testIP, 5).Return([]*model.LoginAttempt{}, nil).Twice()
	attempts.On("Record", 1, testIP, false).Return(storageErr).Once()
	attempts.On("Record", 1, testIP, true).Return(storageErr).Once()

	_, err := authService.Login(LoginInput{
		Email: "alice@example.com", Password: "wrong-password", IP: testIP,
	})
	assert.ErrorIs(t, err, storageErr)

	_, err = authService.Login(LoginInput{
		Email: "alice@example.com", Password: testPassword, IP: testIP,
	})
	assert.ErrorIs(t, err, storageErr)

	// No token is issued on either path.
	tokens.AssertNotCalled(t, "Create", mock.Anything)
	attempts.AssertExpectations(t)
}

func TestAuthService_Login_Success(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	user := &model.User{ID: 1, UID: "17000000001", Email: "alice@example.com", PasswordHash: hashedTestPassword(t)}
	users.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
	attempts.On("RecentFailures", 1, testIP, 5).Return([]*model.LoginAttempt{}, nil).Once()
	attempts.On("Record", 1, testIP, true).Return(nil).Once()
	tokens.On("GetActiveByUserAndDevice", 1, "device-A").Return(nil, nil).Once()
	tokens.On("Create", mock.MatchedBy(func(rt *model.RefreshToken) bool {
		return rt.UserID == 1 && rt.DeviceInfo == "device-A" &&
			rt.ExpiresAt.Equal(clock.Now().Add(RefreshTokenTTL))
	})).Return(nil).Once()
	users.On("MarkLastLogin", 1, clock.Now()).Return(nil).Once()

	pair, err := authService.Login(LoginInput{
		Email: "alice@example.com", Password: testPassword, DeviceInfo: "device-A", IP: testIP,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
	attempts.AssertExpectations(t)
}

func TestAuthService_Login_ReloginRevokesDeviceToken(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	user := &model.User{ID: 1, UID: "17000000001", Email: "alice@example.com", PasswordHash: hashedTestPassword(t)}
	existing := &model.RefreshToken{ID: 42, UserID: 1, DeviceInfo: "device-A"}

	users.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
	attempts.On("RecentFailures", 1, testIP, 5).Return([]*model.LoginAttempt{}, nil).Once()
	attempts.On("Record", 1, testIP, true).Return(nil).Once()
	tokens.On("GetActiveByUserAndDevice", 1, "device-A").Return(existing, nil).Once()
	tokens.On("RevokeAndSoftDelete", 42, clock.Now()).Return(nil).Once()
	tokens.On("Create", mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
	users.On("MarkLastLogin", 1, clock.Now()).Return(nil).Once()

	_, err := authService.Login(LoginInput{
		Email: "alice@example.com", Password: testPassword, DeviceInfo: "device-A", IP: testIP,
	})

	assert.NoError(t, err)
	tokens.AssertExpectations(t)
}

func TestAuthService_Login_Lockout(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	user := &model.User{ID: 1, UID: "17000000001", Email: "alice@example.com", PasswordHash: hashedTestPassword(t)}

	recentFailures := func(newest time.Time) []*model.LoginAttempt {
		failures := make([]*model.LoginAttempt, 5)
		for i := range failures {
			failures[i] = &model.LoginAttempt{
				UserID:     1,
				IP:         testIP,
				Successful: false,
				CreatedAt:  newest.Add(-time.Duration(i) * time.Minute),
			}
		}
		return failures
	}

	t.Run("locked out with correct password", func(t *testing.T) {
		users.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
		attempts.On("RecentFailures", 1, testIP, 5).
			Return(recentFailures(clock.Now().Add(-5*time.Minute)), nil).Once()

		_, err := authService.Login(LoginInput{
			Email: "alice@example.com", Password: testPassword, IP: testIP,
		})

		assert.ErrorIs(t, err, common.ErrTooManyLoginAttempts)
		// The password is never compared, so no attempt row is written.
		attempts.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("recovers once the newest failure ages past the window", func(t *testing.T) {
		newest := clock.Now().Add(-5 * time.Minute)
		clock.Advance(31 * time.Minute)

		users.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
		attempts.On("RecentFailures", 1, testIP, 5).Return(recentFailures(newest), nil).Once()
		attempts.On("Record", 1, testIP, true).Return(nil).Once()
		tokens.On("GetActiveByUserAndDevice", 1, "").Return(nil, nil).Once()
		tokens.On("Create", mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
		users.On("MarkLastLogin", 1, clock.Now()).Return(nil).Once()

		pair, err := authService.Login(LoginInput{
			Email: "alice@example.com", Password: testPassword, IP: testIP,
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
	})

	t.Run("fewer than five failures never locks", func(t *testing.T) {
		users.On("GetByEmail", "alice@example.com").Return(user, nil).Once()
		attempts.On("RecentFailures", 1, testIP, 5).
			Return(recentFailures(clock.Now())[:4], nil).Once()
		attempts.On("Record", 1, testIP, true).Return(nil).Once()
		tokens.On("GetActiveByUserAndDevice", 1, "").Return(nil, nil).Once()
		tokens.On("Create", mock.AnythingOfType("*model.RefreshToken")).Return(nil).Once()
		users.On("MarkLastLogin", 1, clock.Now()).Return(nil).Once()

		_, err := authService.Login(LoginInput{
			Email: "alice@example.com", Password: testPassword, IP: testIP,
		})

		assert.NoError(t, err)
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	clock := newTestClock()

	t.Run("echoes the same refresh token string", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		refreshToken, err := authService.issuer.Sign("17000000001", "alice@example.com", RefreshTokenTTL)
		assert.NoError(t, err)

		tokens.On("GetByToken", refreshToken).Return(&model.RefreshToken{
			ID: 1, UserID: 1, Token: refreshToken, IsRevoked: false,
		}, nil).Once()

		pair, err := authService.RefreshTokens(refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, refreshToken, pair.RefreshToken)
	})

	t.Run("revoked token fails", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		refreshToken, _ := authService.issuer.Sign("17000000001", "alice@example.com", RefreshTokenTTL)
		tokens.On("GetByToken", refreshToken).Return(&model.RefreshToken{
			ID: 1, Token: refreshToken, IsRevoked: true,
		}, nil).Once()

		_, err := authService.RefreshTokens(refreshToken)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("unknown token fails", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		refreshToken, _ := authService.issuer.Sign("17000000001", "alice@example.com", RefreshTokenTTL)
		tokens.On("GetByToken", refreshToken).Return(nil, nil).Once()

		_, err := authService.RefreshTokens(refreshToken)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("garbage token fails without a lookup", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		_, err := authService.RefreshTokens("not-a-jwt")
		assert.ErrorIs(t, err, common.ErrInvalidToken)
		tokens.AssertNotCalled(t, "GetByToken", mock.Anything)
	})

	t.Run("expired refresh token fails", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		refreshToken, _ := authService.issuer.Sign("17000000001", "alice@example.com", RefreshTokenTTL)
		clock.Advance(RefreshTokenTTL + time.Minute)

		_, err := authService.RefreshTokens(refreshToken)
		assert.ErrorIs(t, err, common.ErrInvalidToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	clock := newTestClock()

	t.Run("revokes the presented token", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		tokens.On("GetByToken", "stored-token").Return(&model.RefreshToken{ID: 7, UserID: 1, Token: "stored-token"}, nil).Once()
		tokens.On("Revoke", 7).Return(nil).Once()

		assert.NoError(t, authService.Logout("stored-token"))
		tokens.AssertExpectations(t)
	})

	t.Run("unknown token fails", func(t *testing.T) {
		users := new(mockUserRepo)
		tokens := new(mockTokenRepo)
		attempts := new(mockAttemptRepo)
		authService := newAuthServiceForTest(clock, users, tokens, attempts)

		tokens.On("GetByToken", "missing").Return(nil, nil).Once()

		assert.ErrorIs(t, authService.Logout("missing"), common.ErrInvalidToken)
	})
}

func TestAuthService_RevokeByString(t *testing.T) {
	clock := newTestClock()
	users := new(mockUserRepo)
	tokens := new(mockTokenRepo)
	attempts := new(mockAttemptRepo)
	authService := newAuthServiceForTest(clock, users, tokens, attempts)

	tokens.On("GetByToken", "missing").Return(nil, nil).Once()
	assert.ErrorIs(t, authService.RevokeByString("missing"), common.ErrTokenNotFound)

	// Re-revoking an already revoked token is a no-op, not an error.
	tokens.On("GetByToken", "revoked").Return(&model.RefreshToken{ID: 9, IsRevoked: true}, nil).Once()
	tokens.On("Revoke", 9).Return(nil).Once()
	assert.NoError(t, authService.RevokeByString("revoked"))
}

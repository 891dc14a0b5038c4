package service

import (
	"go-content-api/common"
	"go-content-api/logger"
	"go-content-api/model"
	"go-content-api/repository"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput carries everything the login flow needs. Exactly one of
// Email or UID must be set.
type LoginInput struct {
	Email      string
	UID        string
	Password   string
	DeviceInfo string
	IP         string
}

// AuthService composes the credential store, the attempt log, the token
// store and the token issuer into the login, refresh and logout flows.
// All collaborators are injected; the clock is injectable for tests.
type AuthService struct {
	users       repository.IUserRepository
	tokens      repository.ITokenRepository
	attempts    repository.IAttemptRepository
	issuer      *TokenService
	accessTTL   time.Duration
	maxFailures int
	window      time.Duration
	now         func() time.Time
}

func NewAuthService(
	users repository.IUserRepository,
	tokens repository.ITokenRepository,
	attempts repository.IAttemptRepository,
	issuer *TokenService,
	accessTTL time.Duration,
	maxFailures int,
	window time.Duration,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		attempts:    attempts,
		issuer:      issuer,
		accessTTL:   accessTTL,
		maxFailures: maxFailures,
		window:      window,
		now:         now,
	}
}

// Login authenticates a user by email or uid and returns a fresh token
// pair. A re-login from the same device revokes the device's previous
// refresh token before the new one is persisted.
func (s *AuthService) Login(input LoginInput) (*model.TokenPair, error) {
	// Malformed identifier combinations are rejected before any storage access.
	if (input.Email == "" && input.UID == "") || (input.Email != "" && input.UID != "") {
		return nil, common.ErrInvalidCredentialsRequest
	}

	var user *model.User
	var err error
	if input.Email != "" {
		user, err = s.users.GetByEmail(input.Email)
	} else {
		user, err = s.users.GetByUID(input.UID)
	}
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The message must not reveal which identifier was wrong.
		logger.Log.WithField("ip", input.IP).Warn("Failed login attempt: user not found")
		return nil, common.ErrAuthenticationFailed
	}

	// The lockout check runs before the password comparison so that
	// repeated probing cannot bypass the limiter, even with the correct
	// password.
	if err := s.checkLockout(user.ID, input.IP); err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"ip":      input.IP,
		}).Warn("Failed login attempt: invalid password")

		if err := s.attempts.Record(user.ID, input.IP, false); err != nil {
			return nil, err
		}
		return nil, common.ErrAuthenticationFailed
	}

	if err := s.attempts.Record(user.ID, input.IP, true); err != nil {
		return nil, err
	}

	accessToken, err := s.issuer.Sign(user.UID, user.Email, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issueRefreshToken(user, input.DeviceInfo, input.IP)
	if err != nil {
		return nil, err
	}

	if err := s.users.MarkLastLogin(user.ID, s.now()); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login timestamp")
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"device":  input.DeviceInfo,
	}).Info("User logged in successfully")

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// checkLockout evaluates the brute-force policy: if the most recent
// maxFailures failed attempts for (user, ip) all fit in the lookback and
// the newest failure is younger than the window, the attempt is refused.
// A successful login does not reset the counter; recovery happens once
// failures age out of the window.
func (s *AuthService) checkLockout(userID int, ip string) error {
	failures, err := s.attempts.RecentFailures(userID, ip, s.maxFailures)
	if err != nil {
		return err
	}

	if len(failures) >= s.maxFailures {
		elapsed := s.now().Sub(failures[0].CreatedAt)
		if elapsed < s.window {
			logger.Log.WithFields(logrus.Fields{
				"user_id": userID,
				"ip":      ip,
			}).Warn("Login locked out: too many recent failures")
			return common.ErrTooManyLoginAttempts
		}
	}
	return nil
}

// issueRefreshToken revokes the previous active token for the device,
// then signs and persists a new 7-day token. The revocation write always
// precedes the insert.
func (s *AuthService) issueRefreshToken(user *model.User, deviceInfo, ip string) (string, error) {
	old, err := s.tokens.GetActiveByUserAndDevice(user.ID, deviceInfo)
	if err != nil {
		return "", err
	}
	if old != nil {
		if err := s.tokens.RevokeAndSoftDelete(old.ID, s.now()); err != nil {
			return "", err
		}
	}

	refreshToken, err := s.issuer.Sign(user.UID, user.Email, RefreshTokenTTL)
	if err != nil {
		return "", err
	}

	record := &model.RefreshToken{
		UserID:     user.ID,
		Token:      refreshToken,
		ExpiresAt:  s.now().Add(RefreshTokenTTL),
		IPAddress:  ip,
		DeviceInfo: deviceInfo,
	}
	if err := s.tokens.Create(record); err != nil {
		return "", err
	}
	return refreshToken, nil
}

// RefreshTokens exchanges a valid refresh token for a new access token.
// The refresh token itself is echoed back unchanged: only login rotates
// per-device tokens, so its lifetime stays capped at the original 7 days.
func (s *AuthService) RefreshTokens(refreshToken string) (*model.TokenPair, error) {
	claims, err := s.issuer.Verify(refreshToken)
	if err != nil {
		logger.Log.Warn("Refresh rejected: token failed verification")
		return nil, common.ErrInvalidToken
	}

	record, err := s.tokens.GetByToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil || record.IsRevoked {
		logger.Log.Warn("Refresh rejected: token revoked or unknown")
		return nil, common.ErrInvalidToken
	}

	accessToken, err := s.issuer.Sign(claims.UID, claims.Email, s.accessTTL)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("uid", claims.UID).Info("Access token refreshed")

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: record.Token,
	}, nil
}

// Logout revokes the presented refresh token. Tokens held by the user's
// other devices are unaffected.
func (s *AuthService) Logout(refreshToken string) error {
	record, err := s.tokens.GetByToken(refreshToken)
	if err != nil {
		return err
	}
	if record == nil {
		logger.Log.Warn("Logout rejected: unknown refresh token")
		return common.ErrInvalidToken
	}

	if err := s.tokens.Revoke(record.ID); err != nil {
		return err
	}

	logger.Log.WithField("user_id", record.UserID).Info("User logged out, refresh token revoked")
	return nil
}

// RevokeByString revokes a refresh token by its exact string, for
// administrative device management. Unlike Logout it reports a missing
// record as ErrTokenNotFound.
func (s *AuthService) RevokeByString(refreshToken string) error {
	record, err := s.tokens.GetByToken(refreshToken)
	if err != nil {
		return err
	}
	if record == nil {
		return common.ErrTokenNotFound
	}
	return s.tokens.Revoke(record.ID)
}

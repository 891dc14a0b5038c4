package service

import (
	"context"
	"errors"
	"fmt"
	"go-content-api/logger"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	verificationCodeTTL = 5 * time.Minute
	resendInterval      = 1 * time.Minute
)

var (
	// ErrResendThrottled means a code was sent for this address less than
	// a minute ago.
	ErrResendThrottled = errors.New("a verification code was sent recently, try again later")

	// ErrCodeInvalid covers expired, missing and mismatched codes alike.
	ErrCodeInvalid = errors.New("verification code is invalid or expired")

	// ErrMailDeliveryFailed means the SMTP transport rejected the message.
	ErrMailDeliveryFailed = errors.New("failed to deliver verification email")
)

// VerificationService manages email verification codes. Codes and their
// resend throttles live in Redis with short TTLs; nothing is persisted.
type VerificationService struct {
	cache  ICacheClient
	mailer Mailer
}

func NewVerificationService(cache ICacheClient, mailer Mailer) *VerificationService {
	return &VerificationService{cache: cache, mailer: mailer}
}

func verificationKey(email string) string { return "verification_code:" + email }
func lastSentKey(email string) string     { return "last_sent_time:" + email }

// SendCode generates a 6-digit code, stores it with a 5 minute TTL and
// mails it. A second request within a minute of the first is refused.
func (s *VerificationService) SendCode(ctx context.Context, email string) error {
	ttl, err := s.cache.TTL(ctx, lastSentKey(email)).Result()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read resend throttle key")
		return err
	}
	if ttl > 0 {
		return ErrResendThrottled
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	if err := s.cache.Set(ctx, verificationKey(email), code, verificationCodeTTL).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to store verification code")
		return err
	}
	if err := s.cache.Set(ctx, lastSentKey(email), time.Now().Unix(), resendInterval).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to store resend throttle key")
		return err
	}

	if err := s.mailer.SendVerificationCode(email, code); err != nil {
		return ErrMailDeliveryFailed
	}

	logger.Log.WithField("email", email).Info("Verification code issued")
	return nil
}

// VerifyCode checks the submitted code and consumes it on success.
func (s *VerificationService) VerifyCode(ctx context.Context, email, code string) error {
	stored, err := s.cache.Get(ctx, verificationKey(email)).Result()
	if err == redis.Nil {
		return ErrCodeInvalid
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read verification code")
		return err
	}

	if stored != code {
		return ErrCodeInvalid
	}

	if err := s.cache.Del(ctx, verificationKey(email)).Err(); err != nil {
		logger.Log.WithError(err).Warn("Failed to delete consumed verification code")
	}

	logger.Log.WithField("email", email).Info("Verification code accepted")
	return nil
}

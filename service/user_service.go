package service

import (
	"errors"
	"fmt"
	"go-content-api/common"
	"go-content-api/logger"
	"go-content-api/model"
	"go-content-api/repository"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned by profile lookups for an unknown or
// soft-deleted uid.
var ErrUserNotFound = errors.New("user not found")

// bcryptCost matches the work factor used when the password table was
// first populated.
const bcryptCost = 10

// UserService handles registration and user lookups.
type UserService struct {
	userRepo    repository.IUserRepository
	generateUID func() string
}

func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		generateUID: GenerateUID,
	}
}

// GenerateUID produces a unique numeric-string identifier from the
// current millisecond timestamp plus a random suffix.
func GenerateUID() string {
	return fmt.Sprintf("%d%d", time.Now().UnixMilli(), rand.Intn(1000000))
}

// Register creates a new user. The email-uniqueness check and the insert
// run inside a single serializable transaction in the repository, so two
// concurrent registrations for the same email cannot both succeed.
func (s *UserService) Register(req *model.RegisterRequest) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return nil, err
	}

	user := &model.User{
		UID:          s.generateUID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
		Role:         model.RoleViewer,
	}

	if err := s.userRepo.Register(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// FindByUID returns the public profile for a uid.
func (s *UserService) FindByUID(uid string) (*model.User, error) {
	user, err := s.userRepo.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile applies the given profile changes to the user behind the
// uid. Only username and bio are client-mutable.
func (s *UserService) UpdateProfile(uid string, req *model.UpdateProfileRequest) (*model.User, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.FindByUID(uid)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User profile updated")
	return user, nil
}

// CheckPassword reports whether a candidate password satisfies the
// registration policy, without creating anything.
func (s *UserService) CheckPassword(password string) error {
	return common.ValidateStruct(&model.CheckPasswordRequest{Password: password})
}

// IsEmailRegistered reports whether a non-deleted user holds the email.
func (s *UserService) IsEmailRegistered(email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// IsUsernameUnique reports whether the username is still free.
func (s *UserService) IsUsernameUnique(username string) (bool, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return false, err
	}
	return user == nil, nil
}

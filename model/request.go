package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// LoginRequest defines the payload for user authentication. Exactly one
// of Email or UID must be set; the service enforces that before touching
// storage, so neither field is individually required here.
type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	UID      string `json:"uid,omitempty"`
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// CheckUsernameRequest asks whether a username is still free.
type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// CheckPasswordRequest carries a candidate password to test against the
// registration policy.
type CheckPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=20"`
}

// UpdateProfileRequest updates the mutable profile fields of the
// authenticated user. All fields are optional.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=500"`
}

// RefreshRequest carries the refresh token presented by the client.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// SendCodeRequest asks for an email verification code to be delivered.
type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyCodeRequest checks a previously delivered verification code.
type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// CreateCategoryRequest defines the payload for creating a category.
type CreateCategoryRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=255"`
	Type             string `json:"type" validate:"required"`
	ParentCategoryID *int   `json:"parent_category_id,omitempty"`
}

// UpdateCategoryRequest defines the payload for renaming or re-parenting
// a category. All fields are optional.
type UpdateCategoryRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	ParentCategoryID *int    `json:"parent_category_id,omitempty"`
}

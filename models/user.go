package models

import "time"

// User represents a registered account. Password and RefreshToken are never
// serialized; use [User.Public] before handing a user to any outer layer.
type User struct {
	// ID is the server-assigned identifier of the user.
	ID int64 `json:"_id"`

	// Username is the unique, lower-cased login name.
	Username string `json:"username"`

	// Email is the unique, lower-cased e-mail address.
	Email string `json:"email"`

	// FullName is the display name shown in the UI.
	FullName string `json:"fullname"`

	// Avatar is an optional public URL of the user's avatar image.
	Avatar string `json:"avatar,omitempty"`

	// CoverImage is an optional public URL of the user's cover image.
	CoverImage string `json:"coverImage,omitempty"`

	// Password holds the bcrypt hash of the user's password once persisted.
	// Before the hashing step it may carry the plaintext received on
	// registration.
	Password string `json:"-"`

	// RefreshToken is the single currently valid refresh token, or nil when
	// the user has no active session.
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns a copy of u with the password hash and refresh token removed.
func (u User) Public() User {
	u.Password = ""
	u.RefreshToken = nil
	return u
}

// TableName returns the name of the database table associated with User.
func (u User) TableName() string {
	return "users"
}

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	FullName string `json:"fullname" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,notblank,trimmedmin=3"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// LoginRequest is the body of POST /users/login. Either Username or Email
// identifies the account; the request validator enforces that one is set.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password" validate:"required"`
}

// Identity returns whichever of Email or Username was supplied, preferring
// Email.
func (r LoginRequest) Identity() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// RefreshRequest is the optional body of POST /users/refresh-token for
// clients that do not use cookies.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

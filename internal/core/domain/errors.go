package domain

import "errors"

var ErrInvalidInput = errors.New("invalid input")
var ErrWeakPassword = errors.New("password does not meet policy")
var ErrUsernameTaken = errors.New("username already registered")
var ErrEmailTaken = errors.New("email already registered")
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrUnauthorized = errors.New("unauthorized")
var ErrForbidden = errors.New("access forbidden")

// ErrCorruptHash signals a stored password hash that bcrypt cannot parse.
// This is a system fault, never a client error.
var ErrCorruptHash = errors.New("corrupt password hash")

var ErrTokenExpired = errors.New("token expired")
var ErrInvalidSignature = errors.New("invalid token signature")
var ErrTokenMalformed = errors.New("malformed token")

// Package v1 provides the business logic for API version 1: application
// token issuance, account registration, login, logout and the
// collection/card workflows.
//
// Error Handling:
// Methods return the sentinels below wrapped with context via
// fmt.Errorf("%w"). Handlers map them with errors.Is:
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
//	    c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
//	case errors.Is(err, logicv1.ErrUserExists):
//	    c.JSON(http.StatusConflict, gin.H{"message": "..."})
//	default:
//	    c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
//	}
package v1

import "errors"

var (
	// ErrInvalidCredentials indicates the password does not match.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound indicates the user does not exist.
	// HTTP Status: 401 Unauthorized (same body as ErrInvalidCredentials on login)
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates the username is taken.
	// HTTP Status: 409 Conflict
	ErrUserExists = errors.New("user already exists")

	// ErrBlankUsername and ErrBlankPassword reject empty or whitespace-only
	// registration fields.
	// HTTP Status: 401 Unauthorized
	ErrBlankUsername = errors.New("username must not be blank")
	ErrBlankPassword = errors.New("password must not be blank")

	// ErrUsernameTooLong rejects usernames wider than the users table allows.
	// HTTP Status: 400 Bad Request
	ErrUsernameTooLong = errors.New("username too long")

	// ErrSessionNotFound indicates the session id is unknown or expired.
	// HTTP Status: 401 Unauthorized
	ErrSessionNotFound = errors.New("session not found")

	// HTTP Status: 404 Not Found
	ErrCollectionNotFound = errors.New("collection not found")
	ErrCardNotFound       = errors.New("card not found")

	// ErrForbidden indicates the collection belongs to another user.
	// HTTP Status: 403 Forbidden
	ErrForbidden = errors.New("collection belongs to another user")

	// ErrCardCollectionMismatch indicates the card is not part of the
	// collection named in the path.
	// HTTP Status: 400 Bad Request
	ErrCardCollectionMismatch = errors.New("card does not belong to the collection")

	// HTTP Status: 400 Bad Request
	ErrInvalidCollection = errors.New("invalid collection")
	ErrInvalidCard       = errors.New("invalid card")
)

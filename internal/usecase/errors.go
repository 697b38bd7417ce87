package usecase

import "errors"

var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates the provided username or password are
	// incorrect. Unknown usernames and wrong passwords are deliberately
	// indistinguishable to avoid username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidAccessToken indicates the provided token is malformed,
	// unsigned, altered, or revoked.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the provided token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrPasswordPolicy indicates the password does not satisfy the policy.
	ErrPasswordPolicy = errors.New("password does not meet requirements")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrMessageNotFound indicates the referenced message does not exist.
	ErrMessageNotFound = errors.New("message not found")
	// ErrRecipientNotFound indicates the message recipient is not registered.
	ErrRecipientNotFound = errors.New("recipient not found")
	// ErrNotParticipant indicates the viewer is neither sender nor recipient.
	ErrNotParticipant = errors.New("not a participant of this message")
	// ErrNotRecipient indicates only the recipient may perform the operation.
	ErrNotRecipient = errors.New("only the recipient may mark a message read")
)

package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// UserSummary describes the public counterparty view of a user.
type UserSummary struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UserPayload is the full public profile of a user.
type UserPayload struct {
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `json:"phone"`
	JoinAt      time.Time `json:"join_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// RegistrationRequest defines the account registration payload.
type RegistrationRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
}

// AuthLoginRequest defines the payload for the login endpoint.
type AuthLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by registration and login. The token authenticates
// subsequent requests as the embedded user.
type AuthResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
	ExpiresIn int         `json:"expires_in"`
	User      UserPayload `json:"user"`
}

// UserListResponse wraps the user directory listing.
type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

// UserResponse wraps a single user profile.
type UserResponse struct {
	User UserPayload `json:"user"`
}

// MessageSendRequest defines the payload for sending a message.
type MessageSendRequest struct {
	ToUsername string `json:"to_username" binding:"required"`
	Body       string `json:"body" binding:"required"`
}

// MessagePayload is a single message with both parties expanded.
type MessagePayload struct {
	ID       string      `json:"id"`
	Body     string      `json:"body"`
	SentAt   time.Time   `json:"sent_at"`
	ReadAt   *time.Time  `json:"read_at,omitempty"`
	FromUser UserSummary `json:"from_user"`
	ToUser   UserSummary `json:"to_user"`
}

// MessageResponse wraps a single message.
type MessageResponse struct {
	Message MessagePayload `json:"message"`
}

// MessageCreatedResponse is returned after a message is stored.
type MessageCreatedResponse struct {
	Message MessageCreatedPayload `json:"message"`
}

// MessageCreatedPayload echoes the stored message without expanded parties.
type MessageCreatedPayload struct {
	ID           string    `json:"id"`
	FromUsername string    `json:"from_username"`
	ToUsername   string    `json:"to_username"`
	Body         string    `json:"body"`
	SentAt       time.Time `json:"sent_at"`
}

// ConversationEntryPayload is one element of a sent or received listing. The
// counterpart key differs per direction, so both fields are optional and
// exactly one is set.
type ConversationEntryPayload struct {
	ID       string       `json:"id"`
	Body     string       `json:"body"`
	SentAt   time.Time    `json:"sent_at"`
	ReadAt   *time.Time   `json:"read_at,omitempty"`
	ToUser   *UserSummary `json:"to_user,omitempty"`
	FromUser *UserSummary `json:"from_user,omitempty"`
}

// ConversationListResponse wraps a sent or received message listing.
type ConversationListResponse struct {
	Messages []ConversationEntryPayload `json:"messages"`
}

// MessageReadResponse confirms a read receipt.
type MessageReadResponse struct {
	Message MessageReadPayload `json:"message"`
}

// MessageReadPayload carries the read receipt timestamp.
type MessageReadPayload struct {
	ID     string    `json:"id"`
	ReadAt time.Time `json:"read_at"`
}

// HealthResponse describes the service health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse describes readiness probe results with dependency checks.
type ReadyResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func newUserSummary(summary domain.UserSummary) UserSummary {
	return UserSummary{
		Username:  summary.Username,
		FirstName: summary.FirstName,
		LastName:  summary.LastName,
		Phone:     summary.Phone,
	}
}

func newUserPayload(user domain.User) UserPayload {
	return UserPayload{
		Username:    user.Username,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		JoinAt:      user.JoinAt,
		LastLoginAt: user.LastLoginAt,
	}
}

func newMessagePayload(detail domain.MessageDetail) MessagePayload {
	return MessagePayload{
		ID:       detail.ID,
		Body:     detail.Body,
		SentAt:   detail.SentAt,
		ReadAt:   detail.ReadAt,
		FromUser: newUserSummary(detail.FromUser),
		ToUser:   newUserSummary(detail.ToUser),
	}
}

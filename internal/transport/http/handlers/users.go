package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-messaging/internal/core/domain"
	"github.com/arklim/social-platform-messaging/internal/usecase"
)

// UserHandler exposes the user directory and per-user message listings. Every
// route requires authentication; the profile and message listings are further
// restricted to the account owner at the routing layer.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns the public summary of every registered user.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	payload := make([]UserSummary, 0, len(users))
	for _, user := range users {
		payload = append(payload, newUserSummary(user))
	}

	c.JSON(http.StatusOK, UserListResponse{Users: payload})
}

// Get returns the full profile of the named user.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "username is required"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, UserResponse{User: newUserPayload(user)})
}

// MessagesFrom returns the messages the named user sent.
func (h *UserHandler) MessagesFrom(c *gin.Context) {
	entries, err := h.users.MessagesFrom(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConversationListResponse{Messages: newConversationList(entries, true)})
}

// MessagesTo returns the messages the named user received.
func (h *UserHandler) MessagesTo(c *gin.Context) {
	entries, err := h.users.MessagesTo(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondListError(c, err)
		return
	}

	c.JSON(http.StatusOK, ConversationListResponse{Messages: newConversationList(entries, false)})
}

func respondListError(c *gin.Context, err error) {
	RespondWithMappedError(c, err, []ErrorCase{
		{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "username is required"},
		{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	}, http.StatusInternalServerError, "failed to list messages")
}

// newConversationList converts entries to their payload form. For sent
// listings the counterpart is the recipient, for received listings it is the
// sender.
func newConversationList(entries []domain.ConversationEntry, sent bool) []ConversationEntryPayload {
	payload := make([]ConversationEntryPayload, 0, len(entries))
	for _, entry := range entries {
		item := ConversationEntryPayload{
			ID:     entry.ID,
			Body:   entry.Body,
			SentAt: entry.SentAt,
			ReadAt: entry.ReadAt,
		}

		counterpart := newUserSummary(entry.Counterpart)
		if sent {
			item.ToUser = &counterpart
		} else {
			item.FromUser = &counterpart
		}

		payload = append(payload, item)
	}
	return payload
}

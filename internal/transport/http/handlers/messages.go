package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-messaging/internal/transport/http/middleware"
	"github.com/arklim/social-platform-messaging/internal/usecase"
)

// MessageHandler exposes message exchange endpoints. The sender is always the
// authenticated caller, never a field of the payload.
type MessageHandler struct {
	messages *usecase.MessageService
}

// NewMessageHandler constructs MessageHandler.
func NewMessageHandler(messages *usecase.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send stores a new message from the caller to the named recipient.
func (h *MessageHandler) Send(c *gin.Context) {
	username, ok := middleware.GetAuthenticatedUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req MessageSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid message payload"))
		return
	}

	message, err := h.messages.Create(c.Request.Context(), username, req.ToUsername, req.Body)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "invalid message payload"},
			{Err: usecase.ErrRecipientNotFound, Status: http.StatusBadRequest, Message: "recipient not found"},
		}, http.StatusInternalServerError, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, MessageCreatedResponse{
		Message: MessageCreatedPayload{
			ID:           message.ID,
			FromUsername: message.FromUsername,
			ToUsername:   message.ToUsername,
			Body:         message.Body,
			SentAt:       message.SentAt,
		},
	})
}

// Get returns the full detail of a single message to one of its participants.
func (h *MessageHandler) Get(c *gin.Context) {
	username, ok := middleware.GetAuthenticatedUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	detail, err := h.messages.Get(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "message id is required"},
			{Err: usecase.ErrMessageNotFound, Status: http.StatusNotFound, Message: "message not found"},
			{Err: usecase.ErrNotParticipant, Status: http.StatusForbidden, Message: "access restricted to message participants"},
		}, http.StatusInternalServerError, "failed to load message")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: newMessagePayload(detail)})
}

// MarkRead records the read receipt on behalf of the recipient.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	username, ok := middleware.GetAuthenticatedUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	receipt, err := h.messages.MarkRead(c.Request.Context(), c.Param("id"), username)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "message id is required"},
			{Err: usecase.ErrMessageNotFound, Status: http.StatusNotFound, Message: "message not found"},
			{Err: usecase.ErrNotRecipient, Status: http.StatusForbidden, Message: "only the recipient may mark a message read"},
		}, http.StatusInternalServerError, "failed to mark message read")
		return
	}

	c.JSON(http.StatusOK, MessageReadResponse{
		Message: MessageReadPayload{ID: receipt.ID, ReadAt: receipt.ReadAt},
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/anon-forum/internal/dto"
	apierrors "github.com/yukikurage/anon-forum/internal/errors"
	"github.com/yukikurage/anon-forum/internal/middleware"
	"github.com/yukikurage/anon-forum/internal/services"
	"github.com/yukikurage/anon-forum/internal/utils"
)

// MessageHandler serves direct messages.
type MessageHandler struct {
	messageService *services.MessageService
	authService    *services.AuthService
	renderer       *utils.ContentRenderer
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *services.MessageService, authService *services.AuthService, renderer *utils.ContentRenderer) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		authService:    authService,
		renderer:       renderer,
	}
}

// ListConversations returns the session user's threads
func (h *MessageHandler) ListConversations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	conversations, err := h.messageService.Conversations(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ConversationListResponse{Conversations: conversations})
}

// GetThread returns one conversation. Query: since (RFC 3339) for polling.
func (h *MessageHandler) GetThread(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid since timestamp")
			return
		}
		since = &t
	}

	otherID := middleware.GetIDParam(c, "id")
	other, err := h.authService.GetUser(c.Request.Context(), otherID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	messages, err := h.messageService.Thread(c.Request.Context(), userID, otherID, since)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ThreadResponse{
		With:     dto.ToUserDTO(*other),
		Messages: dto.ToMessageDTOs(messages, h.renderer),
	})
}

// MarkRead marks the messages received from the user in the path as read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	marked, err := h.messageService.MarkRead(c.Request.Context(), userID, middleware.GetIDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": marked})
}

// SendMessage delivers a message to the user in the path
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SendRequest struct {
		Content string `json:"content"`
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), userID, middleware.GetIDParam(c, "id"), req.Content)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMessageDTO(*msg, h.renderer))
}

// SearchRecipients finds users to message. Query: q.
func (h *MessageHandler) SearchRecipients(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	users, err := h.messageService.SearchRecipients(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	results := make([]dto.UserDTO, len(users))
	for i, u := range users {
		results[i] = dto.ToUserDTO(u)
	}

	c.JSON(http.StatusOK, gin.H{"users": results})
}

package conversations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/desirekokuvi/bablit/pkg/common"
)

// Handler handles HTTP requests for conversations
type Handler struct {
	service *Service
}

// NewHandler creates a new conversations handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListConversations returns summaries of all conversations
func (h *Handler) ListConversations(c *gin.Context) {
	convs, err := h.service.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list conversations")
		return
	}

	summaries := make([]ConversationSummary, len(convs))
	for i, conv := range convs {
		summaries[i] = conv.Summary()
	}

	common.SuccessResponse(c, summaries)
}

// GetConversation returns one conversation with its full message history
func (h *Handler) GetConversation(c *gin.Context) {
	id := c.Param("id")

	conv, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "conversation not found")
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get conversation")
		return
	}

	common.SuccessResponse(c, conv)
}

// RegisterRoutes registers conversation routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	convs := rg.Group("/conversations")
	{
		convs.GET("", h.ListConversations)
		convs.GET("/:id", h.GetConversation)
	}
}

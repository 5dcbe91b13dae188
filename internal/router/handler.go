package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/desirekokuvi/bablit/internal/sms"
	"github.com/desirekokuvi/bablit/internal/translate"
	"github.com/desirekokuvi/bablit/pkg/common"
	"github.com/desirekokuvi/bablit/pkg/langcode"
	"github.com/desirekokuvi/bablit/pkg/logger"
)

// addressBusiness is the synthetic address for the business side of a
// GoHighLevel thread; it never receives SMS directly.
const addressBusiness = "business"

// ServiceInterface defines the router operations used by the webhook handlers
type ServiceInterface interface {
	ProcessMessage(ctx context.Context, msg InboundMessage) (*Decision, error)
	Translate(ctx context.Context, text, sourceLang, targetLang string) (*translate.Result, error)
}

// Handler handles webhook ingestion and the translation test endpoint
type Handler struct {
	service  ServiceInterface
	sender   sms.Sender // nil disables auto-send
	autoSend bool
}

// NewHandler creates a new router handler. sender may be nil; auto-send is
// only active when both a sender is wired and autoSend is true.
func NewHandler(service ServiceInterface, sender sms.Sender, autoSend bool) *Handler {
	return &Handler{service: service, sender: sender, autoSend: autoSend}
}

// GHLWebhookRequest is the GoHighLevel webhook payload
type GHLWebhookRequest struct {
	ContactID      string `json:"contactId"`
	LocationID     string `json:"locationId"`
	MessageBody    string `json:"messageBody"`
	Phone          string `json:"phone"`
	Direction      string `json:"direction"`
	ConversationID string `json:"conversationId"`
}

// UniversalWebhookRequest accepts Twilio-style and generic payloads
type UniversalWebhookRequest struct {
	From     string `json:"from" form:"From"`
	To       string `json:"to" form:"To"`
	Body     string `json:"body" form:"Body"`
	Message  string `json:"message"`
	Platform string `json:"platform"`
}

// WebhookResponse is the routing outcome returned to webhook callers
type WebhookResponse struct {
	OriginalMessage   string  `json:"original_message"`
	TranslatedMessage string  `json:"translated_message,omitempty"`
	Confidence        float64 `json:"confidence"`
	ShouldTranslate   bool    `json:"should_translate"`
	Action            string  `json:"action"`
}

// TranslateRequest is the API request for the test translation endpoint
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	SourceLang string `json:"source_lang" binding:"required"`
	TargetLang string `json:"target_lang" binding:"required"`
}

// GHLWebhook handles GoHighLevel message webhooks
func (h *Handler) GHLWebhook(c *gin.Context) {
	var req GHLWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	if req.MessageBody == "" || req.Phone == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "messageBody and phone are required")
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = fmt.Sprintf("%s-%s", req.LocationID, req.ContactID)
	}

	// Inbound messages come from the customer's phone; outbound go to it.
	fromAddress, toAddress := req.Phone, addressBusiness
	if req.Direction != "inbound" {
		fromAddress, toAddress = addressBusiness, req.Phone
	}

	h.route(c, InboundMessage{
		ConversationID: conversationID,
		FromAddress:    fromAddress,
		ToAddress:      toAddress,
		Text:           req.MessageBody,
		Platform:       "gohighlevel",
	})
}

// UniversalWebhook handles Twilio-style and generic message webhooks
func (h *Handler) UniversalWebhook(c *gin.Context) {
	var req UniversalWebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid webhook payload")
		return
	}

	msg, ok := extractMessage(req)
	if !ok {
		common.ErrorResponse(c, http.StatusBadRequest, "could not extract message data")
		return
	}

	h.route(c, msg)
}

// extractMessage maps the flexible universal payload onto an inbound event.
func extractMessage(req UniversalWebhookRequest) (InboundMessage, bool) {
	// Twilio form posts carry From/To/Body.
	if req.From != "" && req.Body != "" {
		return InboundMessage{
			ConversationID: fmt.Sprintf("%s-%s", req.From, req.To),
			FromAddress:    req.From,
			ToAddress:      req.To,
			Text:           req.Body,
			Platform:       "twilio",
		}, true
	}

	if req.From != "" && req.Message != "" {
		to := req.To
		if to == "" {
			to = addressBusiness
		}
		platform := req.Platform
		if platform == "" {
			platform = PlatformGeneric
		}
		return InboundMessage{
			ConversationID: fmt.Sprintf("%s-%s", req.From, to),
			FromAddress:    req.From,
			ToAddress:      to,
			Text:           req.Message,
			Platform:       platform,
		}, true
	}

	return InboundMessage{}, false
}

// route processes the event and writes the webhook response.
func (h *Handler) route(c *gin.Context, msg InboundMessage) {
	decision, err := h.service.ProcessMessage(c.Request.Context(), msg)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMessage):
			common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, translate.ErrTranslationUnavailable):
			// Retryable: the caller must not deliver the original as if
			// it had been translated.
			common.ErrorResponse(c, http.StatusServiceUnavailable, "translation unavailable")
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "message processing failed")
		}
		return
	}

	resp := WebhookResponse{
		OriginalMessage: msg.Text,
		Confidence:      decision.Confidence,
		ShouldTranslate: decision.ShouldTranslate,
		Action:          "no_translation_needed",
	}
	if decision.ShouldTranslate {
		resp.TranslatedMessage = decision.TextToDeliver
		resp.Action = "translate_and_send"
		h.maybeAutoSend(c.Request.Context(), msg.ToAddress, decision.TextToDeliver)
	}

	common.SuccessResponse(c, resp)
}

// maybeAutoSend delivers the translated text as an SMS when auto-send is
// enabled and the receiver is a real phone address. Failures are logged,
// never surfaced to the webhook caller.
func (h *Handler) maybeAutoSend(ctx context.Context, toAddress, text string) {
	if !h.autoSend || h.sender == nil || toAddress == addressBusiness {
		return
	}

	log := logger.WithContext(ctx)
	go func() {
		if err := h.sender.Send(context.Background(), toAddress, text); err != nil {
			log.Error("auto-send failed",
				zap.String("to", toAddress),
				zap.Error(err),
			)
		}
	}()
}

// TestTranslate exercises the provider chain directly
func (h *Handler) TestTranslate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "text, source_lang and target_lang are required")
		return
	}

	result, err := h.service.Translate(c.Request.Context(), req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		if errors.Is(err, translate.ErrTranslationUnavailable) {
			common.ErrorResponse(c, http.StatusServiceUnavailable, "translation unavailable")
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "translation failed")
		return
	}

	common.SuccessResponse(c, result)
}

// ListLanguages returns the supported language codes and names
func (h *Handler) ListLanguages(c *gin.Context) {
	common.SuccessResponse(c, langcode.Supported())
}

// RegisterWebhookRoutes registers the webhook ingestion routes
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/gohighlevel", h.GHLWebhook)
	rg.POST("/universal", h.UniversalWebhook)
}

// RegisterAPIRoutes registers the management-facing translation routes
func (h *Handler) RegisterAPIRoutes(rg *gin.RouterGroup) {
	rg.POST("/translate", h.TestTranslate)
	rg.GET("/languages", h.ListLanguages)
}

package preferences

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/desirekokuvi/bablit/pkg/common"
)

// Handler handles HTTP requests for language preferences
type Handler struct {
	service *Service
}

// NewHandler creates a new preferences handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PreferenceResponse is the API response for a single preference
type PreferenceResponse struct {
	Address  string `json:"address"`
	Language string `json:"language"`
}

// SetPreferenceRequest is the API request for a preference write
type SetPreferenceRequest struct {
	Language string `json:"language" binding:"required"`
}

// ListPreferences returns all known preferences
func (h *Handler) ListPreferences(c *gin.Context) {
	prefs, err := h.service.List(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list preferences")
		return
	}

	common.SuccessResponse(c, prefs)
}

// GetPreference returns the preference for one address
func (h *Handler) GetPreference(c *gin.Context) {
	address := c.Param("address")

	lang, err := h.service.Get(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "no preference for address")
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get preference")
		return
	}

	common.SuccessResponse(c, PreferenceResponse{Address: address, Language: lang})
}

// SetPreference stores a preference for one address
func (h *Handler) SetPreference(c *gin.Context) {
	address := c.Param("address")

	var req SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "language is required")
		return
	}

	if err := h.service.Set(c.Request.Context(), address, req.Language); err != nil {
		if errors.Is(err, ErrInvalidPreference) {
			common.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to store preference")
		return
	}

	common.SuccessResponse(c, PreferenceResponse{Address: address, Language: req.Language})
}

// RegisterRoutes registers preference routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	prefs := rg.Group("/preferences")
	{
		prefs.GET("", h.ListPreferences)
		prefs.GET("/:address", h.GetPreference)
		prefs.PUT("/:address", h.SetPreference)
	}
}

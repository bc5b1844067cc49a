package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"steam-valuator/internal/services/valuation"
	"steam-valuator/internal/steamid"
)

type Handler struct {
	valuation *valuation.Service
}

func SetupRoutes(r *gin.Engine, svc *valuation.Service) {
	handler := &Handler{valuation: svc}

	r.POST("/value", handler.Value)
	r.GET("/health", handler.Health)
}

type valueRequest struct {
	TradeURL string `json:"trade_url" form:"trade_url"`
}

// Value resolves the submitted profile URL to a SteamID and returns the
// inventory valuation. The URL is accepted as form data or a JSON body;
// ?detailed=true requests the per-item breakdown.
func (h *Handler) Value(c *gin.Context) {
	tradeURL := c.PostForm("trade_url")
	if tradeURL == "" {
		var req valueRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			tradeURL = req.TradeURL
		}
	}

	steamID, err := steamid.Extract(tradeURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL"})
		return
	}

	detailed := strings.EqualFold(c.Query("detailed"), "true")

	result, err := h.valuation.ValueInventory(c.Request.Context(), steamID, detailed)
	if err != nil {
		if errors.Is(err, valuation.ErrEmptyInventory) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No items found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

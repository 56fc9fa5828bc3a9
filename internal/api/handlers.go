package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/matchday/internal/models"
	"github.com/yourusername/matchday/internal/provider"
	"github.com/yourusername/matchday/internal/service"
)

type handlers struct {
	predictor *service.Predictor
	log       *logrus.Logger
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// sportParam resolves and validates the ?sport= query parameter.
func sportParam(c *gin.Context) (models.Sport, bool) {
	sport := models.Sport(c.DefaultQuery("sport", string(models.SportBasketball)))
	if !sport.Valid() {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "sport must be nba or nfl"})
		return "", false
	}
	return sport, true
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}

func (h *handlers) getPredictions(c *gin.Context) {
	sport, ok := sportParam(c)
	if !ok {
		return
	}

	preds, err := h.predictor.Predictions(c.Request.Context(), sport)
	if err != nil {
		h.log.WithError(err).Error("Failed to load predictions")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load predictions"})
		return
	}
	if preds == nil {
		preds = []models.Prediction{}
	}
	c.JSON(http.StatusOK, gin.H{"sport": sport, "predictions": preds})
}

func (h *handlers) getStats(c *gin.Context) {
	sport, ok := sportParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sport": sport, "stats": h.predictor.Stats(sport)})
}

func (h *handlers) getHistory(c *gin.Context) {
	sport, ok := sportParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"sport": sport, "history": h.predictor.History(sport)})
}

// runPredictions triggers generation for a slate. Basketball defaults to
// today's date; football to the feed's current week.
func (h *handlers) runPredictions(c *gin.Context) {
	sport, ok := sportParam(c)
	if !ok {
		return
	}

	slate := provider.Slate{Sport: sport}
	if sport == models.SportBasketball {
		slate.Date = c.DefaultQuery("date", time.Now().UTC().Format(models.DateLayout))
	} else if date := c.Query("date"); date != "" {
		slate.Date = date
	}

	preds, err := h.predictor.GeneratePredictions(c.Request.Context(), slate)
	if err != nil {
		h.log.WithError(err).Error("Prediction generation failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "prediction generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sport": sport, "generated": len(preds), "predictions": preds})
}

func (h *handlers) runReconcile(c *gin.Context) {
	sport, ok := sportParam(c)
	if !ok {
		return
	}

	settled, err := h.predictor.ReconcilePending(c.Request.Context(), sport)
	if err != nil {
		h.log.WithError(err).Error("Reconciliation failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "reconciliation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sport": sport, "settled": settled, "stats": h.predictor.Stats(sport)})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetState  = "failed to load state"
	errAtInvalid = "invalid 'at' time; use RFC3339"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(requestIDKey)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// getState reports the persisted run state. Before the first run it answers
// with initialized=false and a baseline state.
//
// @Summary      Get persisted run state
// @Description  initialized is false until the first run has saved a state
// @Tags         heating
// @Produce      json
// @Success      200  {object}  service.StateView
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/state [get]
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// getWindow evaluates the weekday morning window at ?at= (RFC3339, default
// now). The offset in the query decides which wall clock is checked.
//
// @Summary      Evaluate the run window
// @Description  Weekdays 08:30 to 10:00 inclusive, in the offset of 'at'
// @Tags         heating
// @Produce      json
// @Param        at   query     string  false  "Instant to evaluate (RFC3339), default now"  example(2024-01-08T09:00:00Z)
// @Success      200  {object}  service.WindowView
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/window [get]
func (h *Handler) getWindow(c *gin.Context) {
	at := h.now()
	if qs := c.Query("at"); qs != "" {
		parsed, err := time.Parse(time.RFC3339, qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errAtInvalid})
			return
		}
		at = parsed
	}
	c.JSON(http.StatusOK, h.services.Monitoring.Window(at))
}

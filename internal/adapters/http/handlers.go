package http

import (
	"errors"
	"net/http"

	"github.com/dkeye/huddle/internal/adapters/rtc"
	"github.com/dkeye/huddle/internal/adapters/signal"
	"github.com/dkeye/huddle/internal/app"
	"github.com/dkeye/huddle/internal/app/orch"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	orch *orch.Orchestrator
	ice  rtc.ICEConfig
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"connections": h.orch.Registry.Len(),
	})
}

func (h *handlers) rooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Snapshot())
}

func (h *handlers) presence(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.orch.Online()})
}

func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ice_servers": h.ice.Browser()})
}

type loginRequest struct {
	Token string `json:"token" binding:"required"`
}

// login checks a session token and stores it in the cookie session, so the
// browser can open the signal socket without passing the token in the URL.
func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	identity, err := h.orch.Authenticate(c.Request.Context(), req.Token)
	if err != nil {
		status := http.StatusServiceUnavailable
		switch {
		case errors.Is(err, app.ErrAccessDenied):
			status = http.StatusForbidden
		case errors.Is(err, app.ErrAuthRejected):
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": app.RejectReason(err)})
		return
	}

	sess := sessions.Default(c)
	sess.Set(signal.SessionKey, req.Token)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"identity": identity.Key(), "user_id": identity.ID})
}

func (h *handlers) logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Delete(signal.SessionKey)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
	}
	c.Status(http.StatusNoContent)
}

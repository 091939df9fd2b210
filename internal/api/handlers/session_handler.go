package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"poiviewer/internal/api/middleware"
	"poiviewer/internal/services"
)

// SessionHandler drives one viewer session: selection, the Map/AR switch and
// the one-shot location request.
type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /sessions. The returned session id is the bearer token
// of every /session route.
func (h *SessionHandler) Create(c *gin.Context) {
	coord, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": coord.ID(),
		"stream":     "/session/stream?session=" + coord.ID(),
		"state":      coord.Snapshot(),
	})
}

// Get handles GET /session.
func (h *SessionHandler) Get(c *gin.Context) {
	h.respondState(c, http.StatusOK)
}

// Delete handles DELETE /session.
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SelectRequest is the body of PUT /session/selection.
type SelectRequest struct {
	POIID string `json:"poi_id" binding:"required"`
}

// Select handles PUT /session/selection. It responds with the info panel
// content for the POI.
func (h *SessionHandler) Select(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := middleware.GetCoordinator(c).Select(req.POIID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ClosePanel handles DELETE /session/selection.
func (h *SessionHandler) ClosePanel(c *gin.Context) {
	middleware.GetCoordinator(c).ClosePanel()
	h.respondState(c, http.StatusOK)
}

// EnterAR handles POST /session/ar/enter. Entry completes asynchronously, so
// a successful request answers 202 with the state at that moment.
func (h *SessionHandler) EnterAR(c *gin.Context) {
	if err := middleware.GetCoordinator(c).EnterAR(); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":  err.Error(),
			"notice": services.NoticeSelectFirst,
		})
		return
	}
	h.respondState(c, http.StatusAccepted)
}

// ExitAR handles POST /session/ar/exit.
func (h *SessionHandler) ExitAR(c *gin.Context) {
	middleware.GetCoordinator(c).ExitAR()
	h.respondState(c, http.StatusOK)
}

// Locate handles POST /session/locate. It blocks until the browser reports a
// fix or an error, or the one-shot timeout elapses.
func (h *SessionHandler) Locate(c *gin.Context) {
	pos, err := middleware.GetCoordinator(c).Locate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *SessionHandler) respondState(c *gin.Context, status int) {
	snap, err := h.sessions.Snapshot(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"state": snap}
	if info, ok := middleware.GetCoordinator(c).Selection(); ok {
		body["selection"] = info
	}
	c.JSON(status, body)
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mm-mmFrank/TheAudioApp/internal/app"
	"github.com/mm-mmFrank/TheAudioApp/internal/domain"
	"github.com/mm-mmFrank/TheAudioApp/internal/spotify"
)

type Handlers struct {
	Router *app.EventRouter
	Search *spotify.Client
}

type createSessionRequest struct {
	SessionName string `json:"sessionName" binding:"required,max=100"`
	HostName    string `json:"hostName" binding:"required,max=50"`
}

// CreateSession generates the session and host identifiers and seeds the
// transient-state cache.
func (h *Handlers) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid session data"})
		return
	}

	sess, err := h.Router.CreateSession(req.SessionName, req.HostName)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.httpapi").Msg("create session")
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid session data"})
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (h *Handlers) GetSession(c *gin.Context) {
	sess, ok := h.Router.Session(domain.SessionID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// SearchTracks proxies the external music catalog. Without credentials the
// client serves the fixed demo result set instead.
func (h *Handlers) SearchTracks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Search query is required"})
		return
	}

	result, err := h.Search.Search(c.Request.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.httpapi").Str("query", query).Msg("spotify search")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to search Spotify"})
		return
	}
	c.JSON(http.StatusOK, result)
}

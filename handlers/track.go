package handlers

import (
	"errors"
	"net/http"

	"gclient/middleware"
	"gclient/models"
	"gclient/services/track"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TrackHandler struct {
	TrackService track.TrackService
}

func NewTrackHandler(svc track.TrackService) *TrackHandler {
	return &TrackHandler{TrackService: svc}
}

// CreateTrackHandler handles POST /api/tracks.
func (h *TrackHandler) CreateTrackHandler(c *gin.Context) {
	logger := getLogger(c)

	var req models.CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid create track request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	adminID, _, _ := middleware.ActorFromContext(c)
	t, err := h.TrackService.CreateTrack(c.Request.Context(), adminID, req)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to create track", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Track created successfully", "track": t})
}

// GetTrackHandler handles GET /api/tracks/:id.
func (h *TrackHandler) GetTrackHandler(c *gin.Context) {
	t, err := h.TrackService.GetTrack(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, track.ErrTrackNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Track not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load track", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Track retrieved successfully", "track": t})
}

// ListTracksHandler handles GET /api/tracks.
func (h *TrackHandler) ListTracksHandler(c *gin.Context) {
	tracks, err := h.TrackService.ListTracks(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list tracks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tracks retrieved successfully", "count": len(tracks), "tracks": tracks})
}

package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/service"
	"github.com/gin-gonic/gin"
)

// LabelSource reports the classifier's label order.
type LabelSource interface {
	Labels() []domain.Emotion
}

// HealthProbe reports whether the inference backend answers.
type HealthProbe interface {
	Available(ctx context.Context) bool
}

type SessionHandler struct {
	log           *slog.Logger
	sessions      service.SessionService
	defaultUserID string
	maxFrameBytes int64
	now           func() time.Time
}

func NewSessionHandler(log *slog.Logger, sessions service.SessionService, defaultUserID string, maxFrameBytes int64) *SessionHandler {
	return &SessionHandler{
		log:           log,
		sessions:      sessions,
		defaultUserID: defaultUserID,
		maxFrameBytes: maxFrameBytes,
		now:           time.Now,
	}
}

// StartSession accepts an optional {"user_id": ...} body.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			abortBadRequest(c, "invalid JSON body")
			return
		}
	}
	if req.UserID == "" {
		req.UserID = h.defaultUserID
	}

	sess, err := h.sessions.StartSession(c.Request.Context(), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.log.InfoContext(c.Request.Context(), "session started", "session_id", sess.ID, "user_id", sess.UserID)
	c.JSON(http.StatusOK, startSessionResponse{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		StartTime: formatTime(sess.StartTime),
	})
}

func (h *SessionHandler) EndSession(c *gin.Context) {
	id := c.Param("id")
	summary, err := h.sessions.EndSession(c.Request.Context(), id, h.now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.log.InfoContext(c.Request.Context(), "session ended",
		"session_id", id,
		"duration_min", summary.TotalDurationMin,
		"average_attention_score", summary.AverageAttentionScore,
	)
	c.JSON(http.StatusOK, endSessionResponse{
		Message:        "Session ended successfully",
		SessionSummary: toSummaryResponse(*summary),
	})
}

// AnalyzeFocus takes the frame as multipart field "file" and the session
// as query parameter session_id.
func (h *SessionHandler) AnalyzeFocus(c *gin.Context) {
	id := c.Query("session_id")
	if id == "" {
		abortBadRequest(c, "session_id query parameter is required")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		abortBadRequest(c, "multipart field \"file\" is required")
		return
	}
	if h.maxFrameBytes > 0 && fh.Size > h.maxFrameBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"detail": "frame too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		abortBadRequest(c, "reading uploaded file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		abortBadRequest(c, "reading uploaded file")
		return
	}

	fb, err := h.sessions.AnalyzeFrame(c.Request.Context(), id, data, h.now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toFeedbackResponse(fb))
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.ListSessions(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *SessionHandler) SessionMetrics(c *gin.Context) {
	m, err := h.sessions.GetSessionMetrics(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toMetricsResponse(m))
}

type InfoHandler struct {
	labels LabelSource
	health HealthProbe
}

func NewInfoHandler(labels LabelSource, health HealthProbe) *InfoHandler {
	return &InfoHandler{labels: labels, health: health}
}

func (h *InfoHandler) Emotions(c *gin.Context) {
	labels := domain.EmotionLabels
	if h.labels != nil {
		labels = h.labels.Labels()
	}
	c.JSON(http.StatusOK, gin.H{"emotions": labels})
}

// Health always answers 200 while the API is up. The inference backend's
// state is reported, not enforced.
func (h *InfoHandler) Health(c *gin.Context) {
	body := gin.H{"status": "healthy"}
	if h.health != nil {
		body["inference_available"] = h.health.Available(c.Request.Context())
	}
	c.JSON(http.StatusOK, body)
}

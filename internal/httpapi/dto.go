package httpapi

import (
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/service"
)

type startSessionRequest struct {
	UserID string `json:"user_id"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	StartTime string `json:"start_time"`
}

type summaryResponse struct {
	TotalDuration            float64 `json:"total_duration"`
	AverageAttentionScore    float64 `json:"average_attention_score"`
	RecommendedBreakDuration int     `json:"recommended_break_duration"`
}

type endSessionResponse struct {
	Message        string          `json:"message"`
	SessionSummary summaryResponse `json:"session_summary"`
}

type feedbackResponse struct {
	Focused           bool    `json:"focused"`
	AttentionScore    float64 `json:"attention_score"`
	StudyState        string  `json:"study_state"`
	DominantEmotion   *string `json:"dominant_emotion"`
	EmotionConfidence float64 `json:"emotion_confidence"`
	BreakRecommended  bool    `json:"break_recommended"`
}

type sessionResponse struct {
	ID                       string   `json:"id"`
	UserID                   string   `json:"user_id"`
	StartTime                string   `json:"start_time"`
	EndTime                  *string  `json:"end_time"`
	TotalDuration            *float64 `json:"total_duration"`
	AverageAttentionScore    *float64 `json:"average_attention_score"`
	RecommendedBreakDuration *int     `json:"recommended_break_duration"`
}

type sampleResponse struct {
	Seq               int     `json:"seq"`
	Timestamp         string  `json:"timestamp"`
	AttentionScore    float64 `json:"attention_score"`
	Focused           bool    `json:"focused"`
	DominantEmotion   *string `json:"dominant_emotion"`
	EmotionConfidence float64 `json:"emotion_confidence"`
	StudyState        string  `json:"study_state"`
	BreakRecommended  bool    `json:"break_recommended"`
}

type metricsResponse struct {
	SessionID                string           `json:"session_id"`
	StartTime                string           `json:"start_time"`
	EndTime                  *string          `json:"end_time"`
	TotalDuration            *float64         `json:"total_duration"`
	AverageAttentionScore    *float64         `json:"average_attention_score"`
	RecommendedBreakDuration *int             `json:"recommended_break_duration"`
	Metrics                  []sampleResponse `json:"metrics"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// emotionOrNull renders the empty emotion of an unfocused frame as null.
func emotionOrNull(e domain.Emotion) *string {
	if e == "" {
		return nil
	}
	s := string(e)
	return &s
}

func toSummaryResponse(s domain.SessionSummary) summaryResponse {
	return summaryResponse{
		TotalDuration:            s.TotalDurationMin,
		AverageAttentionScore:    s.AverageAttentionScore,
		RecommendedBreakDuration: s.RecommendedBreakMin,
	}
}

func toFeedbackResponse(f *service.Feedback) feedbackResponse {
	return feedbackResponse{
		Focused:           f.Focused,
		AttentionScore:    f.AttentionScore,
		StudyState:        string(f.StudyState),
		DominantEmotion:   emotionOrNull(f.DominantEmotion),
		EmotionConfidence: f.EmotionConfidence,
		BreakRecommended:  f.BreakRecommended,
	}
}

func toSessionResponse(s *domain.StudySession) sessionResponse {
	out := sessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		StartTime: formatTime(s.StartTime),
	}
	if s.EndTime != nil {
		end := formatTime(*s.EndTime)
		out.EndTime = &end
	}
	if s.Summary != nil {
		out.TotalDuration = &s.Summary.TotalDurationMin
		out.AverageAttentionScore = &s.Summary.AverageAttentionScore
		out.RecommendedBreakDuration = &s.Summary.RecommendedBreakMin
	}
	return out
}

func toMetricsResponse(m *service.SessionMetrics) metricsResponse {
	sess := toSessionResponse(m.Session)
	out := metricsResponse{
		SessionID:                sess.ID,
		StartTime:                sess.StartTime,
		EndTime:                  sess.EndTime,
		TotalDuration:            sess.TotalDuration,
		AverageAttentionScore:    sess.AverageAttentionScore,
		RecommendedBreakDuration: sess.RecommendedBreakDuration,
		Metrics:                  make([]sampleResponse, 0, len(m.Samples)),
	}
	for _, s := range m.Samples {
		out.Metrics = append(out.Metrics, sampleResponse{
			Seq:               s.Seq,
			Timestamp:         formatTime(s.Timestamp),
			AttentionScore:    s.Score,
			Focused:           s.Focused,
			DominantEmotion:   emotionOrNull(s.DominantEmotion),
			EmotionConfidence: s.EmotionConfidence,
			StudyState:        string(s.StudyState),
			BreakRecommended:  s.BreakRecommended,
		})
	}
	return out
}

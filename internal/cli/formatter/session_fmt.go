package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/studysync/internal/attention"
	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/service"
)

const scoreBarWidth = 20

// BreakBanner is shown whenever a break is recommended.
func BreakBanner() string {
	return StyleRed.Bold(true).Render("▲ Attention is dropping. Time for a short break.")
}

// FormatFeedback renders the per-frame result of an analysis.
func FormatFeedback(fb *service.Feedback) string {
	var b strings.Builder
	if !fb.Focused {
		b.WriteString(StyleYellow.Render("○ No face detected") + "\n")
	} else {
		b.WriteString(StyleGreen.Render("● Focused") + "\n")
	}
	fmt.Fprintf(&b, "Attention  %s\n", RenderScoreBar(fb.AttentionScore, scoreBarWidth))
	fmt.Fprintf(&b, "State      %s\n", StudyStateBadge(fb.StudyState))
	emotion := EmotionLabel(fb.DominantEmotion)
	if fb.DominantEmotion != "" {
		emotion += " " + Dim(FormatConfidence(fb.EmotionConfidence))
	}
	fmt.Fprintf(&b, "Emotion    %s\n", emotion)
	fmt.Fprintf(&b, "Sample     %s", Dim(fmt.Sprintf("#%d at %s", fb.Sample.Seq, ClockTime(fb.Sample.Timestamp))))
	if fb.BreakRecommended {
		b.WriteString("\n\n" + BreakBanner())
	}
	return b.String()
}

// FormatSummary renders the statistics of a closed session.
func FormatSummary(s domain.SessionSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Duration           %s\n", FormatMinutes(s.TotalDurationMin))
	fmt.Fprintf(&b, "Average attention  %s\n", RenderScoreBar(s.AverageAttentionScore, scoreBarWidth))
	fmt.Fprintf(&b, "Recommended break  %s", Bold(fmt.Sprintf("%d min", s.RecommendedBreakMin)))
	return b.String()
}

func sessionStatus(s *domain.StudySession) string {
	if s.IsOpen() {
		return StyleGreen.Render("● open")
	}
	return Dim("✔ closed")
}

// FormatSessionList renders all sessions as a table.
func FormatSessionList(sessions []*domain.StudySession, now time.Time) string {
	if len(sessions) == 0 {
		return Dim("No sessions yet. Start one with: studysync session start")
	}
	headers := []string{"ID", "USER", "STARTED", "STATUS", "DURATION", "AVG", "BREAK"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		duration, avg, brk := Dim("--"), Dim("--"), Dim("--")
		if s.Summary != nil {
			duration = FormatMinutes(s.Summary.TotalDurationMin)
			avg = FormatScore(s.Summary.AverageAttentionScore)
			brk = fmt.Sprintf("%dm", s.Summary.RecommendedBreakMin)
		} else if s.IsOpen() {
			duration = Dim(FormatMinutes(now.Sub(s.StartTime).Minutes()))
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			s.UserID,
			HumanTimestamp(s.StartTime, now),
			sessionStatus(s),
			duration,
			avg,
			brk,
		})
	}
	return RenderBox("Sessions", RenderTable(headers, rows,
		AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight))
}

// FormatMetrics renders a session header followed by its samples in order.
func FormatMetrics(m *service.SessionMetrics, now time.Time) string {
	var b strings.Builder
	s := m.Session
	fmt.Fprintf(&b, "%s  %s  %s\n", Bold(s.ID), s.UserID, sessionStatus(s))
	fmt.Fprintf(&b, "Started %s\n", HumanTimestamp(s.StartTime, now))
	if s.Summary != nil {
		b.WriteString("\n" + FormatSummary(*s.Summary) + "\n")
	}
	b.WriteString("\n")

	if len(m.Samples) == 0 {
		b.WriteString(Dim("No frames recorded."))
		return RenderBox("Session metrics", b.String())
	}

	headers := []string{"#", "TIME", "SCORE", "EMOTION", "CONF", "STATE", "BREAK"}
	rows := make([][]string, 0, len(m.Samples))
	var sum float64
	for _, sm := range m.Samples {
		sum += sm.Score
		brk := ""
		if sm.BreakRecommended {
			brk = StyleRed.Render("▲")
		}
		conf := Dim("--")
		if sm.Focused {
			conf = FormatConfidence(sm.EmotionConfidence)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", sm.Seq),
			ClockTime(sm.Timestamp),
			FormatScore(sm.Score),
			EmotionLabel(sm.DominantEmotion),
			conf,
			StudyStateBadge(sm.StudyState),
			brk,
		})
	}
	b.WriteString(RenderTable(headers, rows, AlignRight, AlignLeft, AlignRight, AlignLeft, AlignRight))
	fmt.Fprintf(&b, "\n%s", Dim(fmt.Sprintf("%d frames, mean score %.1f", len(m.Samples), sum/float64(len(m.Samples)))))
	return RenderBox("Session metrics", b.String())
}

// FormatLabels renders the label table the scorer uses.
func FormatLabels(t attention.Tuning) string {
	headers := []string{"LABEL", "WEIGHT", "SCORE", "STUDY STATE"}
	rows := make([][]string, 0, len(t.Labels))
	for _, l := range t.Labels {
		w, ok := t.Weights[l]
		if !ok {
			w = 1.0
		}
		rows = append(rows, []string{
			StylePurple.Render(string(l)),
			fmt.Sprintf("%.1f", w),
			FormatScore(min(100, t.BaseScore*w)),
			StudyStateBadge(attention.MapStudyState(t.StudyStates, l)),
		})
	}
	footer := Dim(fmt.Sprintf("Break after %d frames when the %s mean drops below %.0f.",
		t.BreakMinSamples, t.BreakWindow, t.BreakThreshold))
	return RenderBox("Emotion labels", RenderTable(headers, rows, AlignLeft, AlignRight, AlignRight)+"\n"+footer)
}

package attention

import (
	"math"

	"github.com/alexanderramin/studysync/internal/domain"
)

// Scorer turns a frame result into an attention score and a study state.
// It holds no per-frame state.
type Scorer struct {
	tuning Tuning
}

func NewScorer(t Tuning) *Scorer {
	return &Scorer{tuning: t}
}

// Assessment is the scorer's view of a single frame.
type Assessment struct {
	Score             float64
	DominantEmotion   domain.Emotion // empty when no face was found
	EmotionConfidence float64
	StudyState        domain.StudyState
}

func (s *Scorer) Assess(fr domain.FrameResult) Assessment {
	dominant, conf, _ := s.Dominant(fr)
	return Assessment{
		Score:             s.Score(fr),
		DominantEmotion:   dominant,
		EmotionConfidence: conf,
		StudyState:        s.StudyState(dominant),
	}
}

// Dominant returns the dominant emotion of a focused frame.
func (s *Scorer) Dominant(fr domain.FrameResult) (domain.Emotion, float64, bool) {
	if !fr.Focused {
		return "", 0, false
	}
	return fr.Emotions.Dominant(s.tuning.Labels)
}

// Score is 0 for an unfocused frame, otherwise BaseScore scaled by the
// dominant emotion's weight and clamped to [0,100]. Labels without a weight
// count as 1.0.
func (s *Scorer) Score(fr domain.FrameResult) float64 {
	if !fr.Focused {
		return 0.0
	}

	weight := 1.0
	if dominant, _, ok := fr.Emotions.Dominant(s.tuning.Labels); ok {
		if w, known := s.tuning.Weights[dominant]; known {
			weight = w
		}
	}
	return clamp(s.tuning.BaseScore*weight, 0, 100)
}

// StudyState maps a dominant emotion to its display state.
func (s *Scorer) StudyState(e domain.Emotion) domain.StudyState {
	return MapStudyState(s.tuning.StudyStates, e)
}

// MapStudyState looks e up in table; anything missing is StateUnknown.
func MapStudyState(table map[domain.Emotion]domain.StudyState, e domain.Emotion) domain.StudyState {
	if st, ok := table[e]; ok {
		return st
	}
	return domain.StateUnknown
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package attention

import (
	"testing"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/stretchr/testify/assert"
)

func focused(d domain.EmotionDistribution) domain.FrameResult {
	return domain.FrameResult{Focused: true, Emotions: d}
}

func TestScore_UnfocusedIsZero(t *testing.T) {
	s := NewScorer(DefaultTuning())

	assert.Equal(t, 0.0, s.Score(domain.Unfocused()))
	// Even a stray distribution does not count without a face.
	assert.Equal(t, 0.0, s.Score(domain.FrameResult{
		Focused:  false,
		Emotions: domain.EmotionDistribution{domain.EmotionNeutral: 1},
	}))
}

func TestScore_NeutralDominantIsBase(t *testing.T) {
	s := NewScorer(DefaultTuning())

	got := s.Score(focused(domain.EmotionDistribution{
		domain.EmotionNeutral: 0.6,
		domain.EmotionHappy:   0.3,
		domain.EmotionSad:     0.1,
	}))
	assert.Equal(t, 50.0, got)
}

func TestScore_WeightTable(t *testing.T) {
	s := NewScorer(DefaultTuning())

	tests := []struct {
		emotion domain.Emotion
		want    float64
	}{
		{domain.EmotionNeutral, 50.0},
		{domain.EmotionHappy, 40.0},
		{domain.EmotionSurprise, 30.0},
		{domain.EmotionFear, 20.0},
		{domain.EmotionSad, 20.0},
		{domain.EmotionAngry, 15.0},
		{domain.EmotionDisgust, 15.0},
	}
	for _, tt := range tests {
		t.Run(string(tt.emotion), func(t *testing.T) {
			got := s.Score(focused(domain.EmotionDistribution{tt.emotion: 0.9}))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScore_UnknownLabelWeighsOne(t *testing.T) {
	s := NewScorer(DefaultTuning())
	got := s.Score(focused(domain.EmotionDistribution{"contempt": 0.8}))
	assert.Equal(t, 50.0, got)
}

func TestScore_FocusedEmptyDistributionUsesBase(t *testing.T) {
	s := NewScorer(DefaultTuning())
	assert.Equal(t, 50.0, s.Score(focused(domain.EmotionDistribution{})))
}

func TestScore_Clamped(t *testing.T) {
	tun := DefaultTuning()
	tun.BaseScore = 80
	tun.Weights[domain.EmotionHappy] = 2.0
	s := NewScorer(tun)

	assert.Equal(t, 100.0, s.Score(focused(domain.EmotionDistribution{domain.EmotionHappy: 1})))
}

func TestScore_TieUsesFirstLabel(t *testing.T) {
	s := NewScorer(DefaultTuning())

	a := s.Assess(focused(domain.EmotionDistribution{
		domain.EmotionAngry:   0.5,
		domain.EmotionDisgust: 0.5,
		domain.EmotionHappy:   0.0,
	}))
	assert.Equal(t, domain.EmotionAngry, a.DominantEmotion)
	assert.InDelta(t, 15.0, a.Score, 1e-9)
	assert.Equal(t, domain.StateFrustrated, a.StudyState)
	assert.Equal(t, 0.5, a.EmotionConfidence)
}

func TestStudyState_Table(t *testing.T) {
	s := NewScorer(DefaultTuning())

	tests := map[domain.Emotion]domain.StudyState{
		domain.EmotionAngry:    domain.StateFrustrated,
		domain.EmotionDisgust:  domain.StateFrustrated,
		domain.EmotionFear:     domain.StateAnxious,
		domain.EmotionSad:      domain.StateAnxious,
		domain.EmotionNeutral:  domain.StateZonedOut,
		domain.EmotionHappy:    domain.StateMotivated,
		domain.EmotionSurprise: domain.StateDistracted,
		"contempt":             domain.StateUnknown,
		"":                     domain.StateUnknown,
	}
	for emotion, want := range tests {
		assert.Equal(t, want, s.StudyState(emotion), "emotion %q", emotion)
	}
}

func TestAssess_Unfocused(t *testing.T) {
	s := NewScorer(DefaultTuning())
	a := s.Assess(domain.Unfocused())

	assert.Equal(t, 0.0, a.Score)
	assert.Empty(t, a.DominantEmotion)
	assert.Equal(t, 0.0, a.EmotionConfidence)
	assert.Equal(t, domain.StateUnknown, a.StudyState)
}

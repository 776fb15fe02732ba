package attention

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"gopkg.in/yaml.v3"
)

// BreakTier maps averages strictly below Below to a break length.
type BreakTier struct {
	Below   float64 `yaml:"below"`
	Minutes int     `yaml:"minutes"`
}

// Tuning holds every table and threshold used by the scorer, the study-state
// mapper, the break recommender and the session summary.
type Tuning struct {
	Labels      []domain.Emotion                     `yaml:"labels"`
	BaseScore   float64                              `yaml:"base_score"`
	Weights     map[domain.Emotion]float64           `yaml:"weights"`
	StudyStates map[domain.Emotion]domain.StudyState `yaml:"study_states"`

	BreakMinSamples int           `yaml:"break_min_samples"`
	BreakWindow     time.Duration `yaml:"break_window"`
	BreakThreshold  float64       `yaml:"break_threshold"`

	// BreakTiers must be sorted by Below ascending. Averages at or above the
	// last bound get HighAttentionBreakMin.
	BreakTiers            []BreakTier `yaml:"break_tiers"`
	HighAttentionBreakMin int         `yaml:"high_attention_break_min"`
	DefaultBreakMin       int         `yaml:"default_break_min"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Labels:    append([]domain.Emotion(nil), domain.EmotionLabels...),
		BaseScore: 50.0,
		Weights: map[domain.Emotion]float64{
			domain.EmotionNeutral:  1.0,
			domain.EmotionHappy:    0.8,
			domain.EmotionSurprise: 0.6,
			domain.EmotionFear:     0.4,
			domain.EmotionSad:      0.4,
			domain.EmotionAngry:    0.3,
			domain.EmotionDisgust:  0.3,
		},
		StudyStates: map[domain.Emotion]domain.StudyState{
			domain.EmotionAngry:    domain.StateFrustrated,
			domain.EmotionDisgust:  domain.StateFrustrated,
			domain.EmotionFear:     domain.StateAnxious,
			domain.EmotionSad:      domain.StateAnxious,
			domain.EmotionNeutral:  domain.StateZonedOut,
			domain.EmotionHappy:    domain.StateMotivated,
			domain.EmotionSurprise: domain.StateDistracted,
		},
		BreakMinSamples: 10,
		BreakWindow:     5 * time.Minute,
		BreakThreshold:  40.0,
		BreakTiers: []BreakTier{
			{Below: 40, Minutes: 15},
			{Below: 60, Minutes: 10},
		},
		HighAttentionBreakMin: 5,
		DefaultBreakMin:       5,
	}
}

// Validate checks the tables for values the scorer cannot work with.
func (t Tuning) Validate() error {
	var errs []error
	if len(t.Labels) == 0 {
		errs = append(errs, errors.New("labels must not be empty"))
	}
	seen := make(map[domain.Emotion]bool, len(t.Labels))
	for _, l := range t.Labels {
		if seen[l] {
			errs = append(errs, fmt.Errorf("duplicate label %q", l))
		}
		seen[l] = true
	}
	if t.BaseScore < 0 || t.BaseScore > 100 {
		errs = append(errs, fmt.Errorf("base_score %.2f outside [0,100]", t.BaseScore))
	}
	for e, w := range t.Weights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("weight for %q is negative", e))
		}
	}
	for e, s := range t.StudyStates {
		if !domain.ValidStudyStates[s] {
			errs = append(errs, fmt.Errorf("study state %q for %q is not recognized", s, e))
		}
	}
	if t.BreakMinSamples < 1 {
		errs = append(errs, errors.New("break_min_samples must be at least 1"))
	}
	if t.BreakWindow <= 0 {
		errs = append(errs, errors.New("break_window must be positive"))
	}
	for i := 1; i < len(t.BreakTiers); i++ {
		if t.BreakTiers[i].Below <= t.BreakTiers[i-1].Below {
			errs = append(errs, errors.New("break_tiers must be sorted by ascending bound"))
			break
		}
	}
	return errors.Join(errs...)
}

// LoadTuning reads a YAML file and overlays it on DefaultTuning. Keys absent
// from the file keep their defaults, including individual map entries.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("reading tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("parsing tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("validating tuning file: %w", err)
	}
	return t, nil
}

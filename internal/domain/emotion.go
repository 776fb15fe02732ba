package domain

import "sort"

// EmotionDistribution maps emotion labels to classifier probabilities.
// It is not assumed to be normalized and may be empty.
type EmotionDistribution map[Emotion]float64

// NewEmotionDistribution zips an ordered score vector with its labels.
// Extra scores or labels beyond the shorter of the two are ignored.
func NewEmotionDistribution(labels []Emotion, scores []float64) EmotionDistribution {
	n := len(labels)
	if len(scores) < n {
		n = len(scores)
	}
	d := make(EmotionDistribution, n)
	for i := 0; i < n; i++ {
		d[labels[i]] = scores[i]
	}
	return d
}

// Dominant returns the label with the highest probability. Labels are
// visited in the given order first, then any remaining labels sorted by
// name, and only a strictly greater probability replaces the current pick.
// ok is false for an empty distribution.
func (d EmotionDistribution) Dominant(order []Emotion) (label Emotion, prob float64, ok bool) {
	if len(d) == 0 {
		return "", 0, false
	}

	seen := make(map[Emotion]bool, len(order))
	visit := func(e Emotion) {
		p, present := d[e]
		if !present || seen[e] {
			return
		}
		seen[e] = true
		if !ok || p > prob {
			label, prob, ok = e, p, true
		}
	}

	for _, e := range order {
		visit(e)
	}

	var rest []Emotion
	for e := range d {
		if !seen[e] {
			rest = append(rest, e)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, e := range rest {
		visit(e)
	}

	return label, prob, ok
}

// FrameResult is the normalized outcome of analyzing one frame.
// Emotions is empty iff Focused is false.
type FrameResult struct {
	Focused  bool
	Emotions EmotionDistribution
}

// Unfocused returns the result used when no face was detected.
func Unfocused() FrameResult {
	return FrameResult{Focused: false, Emotions: EmotionDistribution{}}
}

package domain

type Emotion string

const (
	EmotionAngry    Emotion = "angry"
	EmotionDisgust  Emotion = "disgust"
	EmotionFear     Emotion = "fear"
	EmotionHappy    Emotion = "happy"
	EmotionSad      Emotion = "sad"
	EmotionSurprise Emotion = "surprise"
	EmotionNeutral  Emotion = "neutral"
)

// EmotionLabels is the canonical classifier output order. Dominant-emotion
// ties are broken by position in this list.
var EmotionLabels = []Emotion{
	EmotionAngry,
	EmotionDisgust,
	EmotionFear,
	EmotionHappy,
	EmotionSad,
	EmotionSurprise,
	EmotionNeutral,
}

type StudyState string

const (
	StateFrustrated StudyState = "Frustrated"
	StateAnxious    StudyState = "Anxious / Overwhelmed"
	StateZonedOut   StudyState = "Zoned Out / Passive"
	StateMotivated  StudyState = "Motivated / Engaged"
	StateDistracted StudyState = "Distracted / Alert"
	StateUnknown    StudyState = "Unknown"
)

// ValidStudyStates is the canonical set of accepted study state strings.
var ValidStudyStates = map[StudyState]bool{
	StateFrustrated: true, StateAnxious: true, StateZonedOut: true,
	StateMotivated: true, StateDistracted: true, StateUnknown: true,
}

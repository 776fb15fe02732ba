package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/testutil"
	"github.com/alexanderramin/studysync/internal/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFrame_FocusedHappyFrame(t *testing.T) {
	analyzer, det, cls := testutil.NewTestAnalyzer(testutil.ScoresFor(domain.EmotionHappy, 0.7))
	svc, database := newTestService(t, analyzer, SessionOptions{})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	fb, err := svc.AnalyzeFrame(ctx, sess.ID, testutil.PNGFrame(t, 64, 64), t0.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, fb.Focused)
	assert.InDelta(t, 40.0, fb.AttentionScore, 1e-9)
	assert.Equal(t, domain.EmotionHappy, fb.DominantEmotion)
	assert.InDelta(t, 0.7, fb.EmotionConfidence, 1e-9)
	assert.Equal(t, domain.StateMotivated, fb.StudyState)
	assert.Equal(t, int32(1), det.Calls.Load())
	assert.Equal(t, int32(1), cls.Calls.Load())
	assert.Len(t, storedSamples(t, database, sess.ID), 1)
}

func TestAnalyzeFrame_NoFaceIsNotAnError(t *testing.T) {
	analyzer, det, cls := testutil.NewTestAnalyzer(testutil.ScoresFor(domain.EmotionHappy, 0.7))
	det.Faces = nil
	svc, _ := newTestService(t, analyzer, SessionOptions{})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	fb, err := svc.AnalyzeFrame(ctx, sess.ID, testutil.PNGFrame(t, 64, 64), t0)
	require.NoError(t, err)
	assert.False(t, fb.Focused)
	assert.Equal(t, 0.0, fb.AttentionScore)
	assert.Equal(t, int32(0), cls.Calls.Load())
}

func TestAnalyzeFrame_DecodeErrorLeavesSessionUnchanged(t *testing.T) {
	analyzer, det, _ := testutil.NewTestAnalyzer(testutil.ScoresFor(domain.EmotionHappy, 0.7))
	svc, database := newTestService(t, analyzer, SessionOptions{})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.AnalyzeFrame(ctx, sess.ID, []byte("not an image"), t0)
	assert.ErrorIs(t, err, vision.ErrDecode)
	assert.Equal(t, int32(0), det.Calls.Load())
	assert.Empty(t, storedSamples(t, database, sess.ID))
}

func TestAnalyzeFrame_ClassifierErrorLeavesSessionUnchanged(t *testing.T) {
	analyzer, _, cls := testutil.NewTestAnalyzer(nil)
	cls.Err = errors.New("model crashed")
	svc, database := newTestService(t, analyzer, SessionOptions{})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.AnalyzeFrame(ctx, sess.ID, testutil.PNGFrame(t, 64, 64), t0)
	assert.ErrorIs(t, err, vision.ErrClassifier)
	assert.Empty(t, storedSamples(t, database, sess.ID))
}

func TestAnalyzeFrame_ClosedSessionSkipsInference(t *testing.T) {
	analyzer, det, _ := testutil.NewTestAnalyzer(testutil.ScoresFor(domain.EmotionHappy, 0.7))
	svc, _ := newTestService(t, analyzer, SessionOptions{})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)
	_, err = svc.EndSession(ctx, sess.ID, t0.Add(time.Minute))
	require.NoError(t, err)

	_, err = svc.AnalyzeFrame(ctx, sess.ID, testutil.PNGFrame(t, 64, 64), t0.Add(2*time.Minute))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int32(0), det.Calls.Load())

	_, err = svc.AnalyzeFrame(ctx, "missing", testutil.PNGFrame(t, 64, 64), t0)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAnalyzeFrame_Timeout(t *testing.T) {
	analyzer, _, cls := testutil.NewTestAnalyzer(testutil.ScoresFor(domain.EmotionHappy, 0.7))
	cls.Delay = 2 * time.Second
	svc, database := newTestService(t, analyzer, SessionOptions{AnalyzeTimeout: 30 * time.Millisecond})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.AnalyzeFrame(ctx, sess.ID, testutil.PNGFrame(t, 64, 64), t0)
	assert.ErrorIs(t, err, ErrAnalysisTimeout)
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, storedSamples(t, database, sess.ID))
}

type blockingAnalyzer struct {
	release chan struct{}
}

func (b *blockingAnalyzer) Analyze(context.Context, []byte) (domain.FrameResult, error) {
	<-b.release
	return domain.Unfocused(), nil
}

func TestAnalyzeFrame_TimeoutWhenAnalyzerIgnoresContext(t *testing.T) {
	analyzer := &blockingAnalyzer{release: make(chan struct{})}
	defer close(analyzer.release)
	svc, _ := newTestService(t, analyzer, SessionOptions{AnalyzeTimeout: 20 * time.Millisecond})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.AnalyzeFrame(ctx, sess.ID, []byte("frame"), t0)
	assert.ErrorIs(t, err, ErrAnalysisTimeout)
}

func TestAnalyzeFrame_NoTimeoutConfigured(t *testing.T) {
	analyzer, _, cls := testutil.NewTestAnalyzer(testutil.ScoresFor(domain.EmotionNeutral, 0.6))
	cls.Delay = 30 * time.Millisecond
	svc, _ := newTestService(t, analyzer, SessionOptions{})
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, "alice")
	require.NoError(t, err)

	fb, err := svc.AnalyzeFrame(ctx, sess.ID, testutil.PNGFrame(t, 64, 64), t0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, fb.AttentionScore)
}

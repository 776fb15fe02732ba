package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/studysync/internal/cli/formatter"
	"github.com/alexanderramin/studysync/internal/domain"
	"github.com/alexanderramin/studysync/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// frameAnalyzedMsg carries the outcome of one AnalyzeFrame call.
type frameAnalyzedMsg struct {
	file string
	fb   *service.Feedback
	err  error
}

// nextFrameMsg fires when the capture interval has elapsed.
type nextFrameMsg struct{}

type monitorKeyMap struct {
	Quit key.Binding
}

func defaultMonitorKeys() monitorKeyMap {
	return monitorKeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// monitorModel replays a directory of frames against an open session, one
// frame per interval, and shows live attention feedback.
type monitorModel struct {
	ctx       context.Context
	app       *App
	sessionID string
	frames    []string
	interval  time.Duration

	next     int
	last     *service.Feedback
	lastFile string
	scoreSum float64
	scored   int
	breaks   int
	failures []string
	fatalErr error

	done     bool
	quitting bool

	keys    monitorKeyMap
	spinner spinner.Model
	bar     progress.Model
}

func newMonitorModel(ctx context.Context, app *App, sessionID string, frames []string, interval time.Duration) monitorModel {
	return monitorModel{
		ctx:       ctx,
		app:       app,
		sessionID: sessionID,
		frames:    frames,
		interval:  interval,
		keys:      defaultMonitorKeys(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
		bar: progress.New(
			progress.WithSolidFill(string(formatter.ColorGreen)),
			progress.WithoutPercentage(),
			progress.WithWidth(40),
		),
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.analyzeNext())
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(60, msg.Width-24))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case nextFrameMsg:
		return m, m.analyzeNext()

	case frameAnalyzedMsg:
		m.next++
		m.lastFile = msg.file
		if msg.err != nil {
			if isSessionFatal(msg.err) {
				m.fatalErr = msg.err
				m.done = true
				return m, nil
			}
			m.failures = append(m.failures, fmt.Sprintf("%s: %v", msg.file, msg.err))
		} else {
			m.last = msg.fb
			m.scoreSum += msg.fb.AttentionScore
			m.scored++
			if msg.fb.BreakRecommended {
				m.breaks++
			}
		}

		if m.next >= len(m.frames) {
			m.done = true
			return m, nil
		}
		if m.interval <= 0 {
			return m, m.analyzeNext()
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg { return nextFrameMsg{} })
	}

	return m, nil
}

// isSessionFatal reports errors that make every later frame fail too.
func isSessionFatal(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrInvalidState)
}

// analyzeNext returns a Cmd that analyzes frames[next], or nil when all
// frames have been sent.
func (m monitorModel) analyzeNext() tea.Cmd {
	if m.next >= len(m.frames) {
		return nil
	}
	path := m.frames[m.next]
	ctx, app, sessionID := m.ctx, m.app, m.sessionID
	return func() tea.Msg {
		name := filepath.Base(path)
		data, err := os.ReadFile(path)
		if err != nil {
			return frameAnalyzedMsg{file: name, err: fmt.Errorf("reading frame: %w", err)}
		}
		fb, err := app.Sessions.AnalyzeFrame(ctx, sessionID, data, app.now())
		return frameAnalyzedMsg{file: name, fb: fb, err: err}
	}
}

func (m monitorModel) meanScore() float64 {
	if m.scored == 0 {
		return 0
	}
	return m.scoreSum / float64(m.scored)
}

func (m monitorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Monitor") + "\n")
	fmt.Fprintf(&b, "Session %s  %s\n\n", formatter.TruncID(m.sessionID),
		formatter.Dim(fmt.Sprintf("frame %d/%d", m.next, len(m.frames))))

	switch {
	case m.fatalErr != nil:
		b.WriteString(formatter.StyleRed.Render("✘ "+m.fatalErr.Error()) + "\n")
	case m.done:
		b.WriteString(formatter.StyleGreen.Render(fmt.Sprintf("✔ All %d frames analyzed", len(m.frames))) + "\n")
	default:
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(),
			formatter.Dim("Analyzing "+filepath.Base(m.frames[m.next])))
	}
	b.WriteString("\n")

	if m.last != nil {
		fmt.Fprintf(&b, "Attention  %s %5.1f\n", m.bar.ViewAs(m.last.AttentionScore/100), m.last.AttentionScore)
		fmt.Fprintf(&b, "State      %s\n", formatter.StudyStateBadge(m.last.StudyState))
		fmt.Fprintf(&b, "Emotion    %s\n", formatter.EmotionLabel(m.last.DominantEmotion))
		fmt.Fprintf(&b, "Mean       %s  %s\n", formatter.FormatScore(m.meanScore()),
			formatter.Dim(fmt.Sprintf("%d breaks suggested", m.breaks)))
		if m.last.BreakRecommended {
			b.WriteString("\n" + formatter.BreakBanner() + "\n")
		}
	}

	if n := len(m.failures); n > 0 {
		fmt.Fprintf(&b, "\n%s\n", formatter.StyleYellow.Render(fmt.Sprintf("%d frames failed, last: %s", n, m.failures[n-1])))
	}

	b.WriteString("\n" + formatter.Dim(m.keys.Quit.Help().Key+" "+m.keys.Quit.Help().Desc))
	return b.String()
}

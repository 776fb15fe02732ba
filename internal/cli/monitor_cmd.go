package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/studysync/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var frameExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// collectFrames lists the image files in dir in filename order.
func collectFrames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading frames dir: %w", err)
	}
	var frames []string
	for _, e := range entries {
		if e.IsDir() || !frameExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		frames = append(frames, filepath.Join(dir, e.Name()))
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames found in %s", dir)
	}
	sort.Strings(frames)
	return frames, nil
}

func newMonitorCmd(app *App) *cobra.Command {
	var framesDir string
	var interval time.Duration
	var end bool

	cmd := &cobra.Command{
		Use:   "monitor ID",
		Short: "Replay a directory of frames against an open session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frames, err := collectFrames(framesDir)
			if err != nil {
				return err
			}
			sessionID := args[0]
			if _, err := app.Sessions.GetSession(cmd.Context(), sessionID); err != nil {
				return err
			}

			if app.interactive() {
				p := tea.NewProgram(
					newMonitorModel(cmd.Context(), app, sessionID, frames, interval),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
				)
				final, err := p.Run()
				if err != nil {
					return err
				}
				if m, ok := final.(monitorModel); ok && m.fatalErr != nil {
					return m.fatalErr
				}
			} else if err := replayFrames(cmd, app, sessionID, frames, interval); err != nil {
				return err
			}

			if !end {
				return nil
			}
			summary, err := app.Sessions.EndSession(cmd.Context(), sessionID, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Summary", formatter.FormatSummary(*summary)))
			return nil
		},
	}

	cmd.Flags().StringVar(&framesDir, "frames", "", "Directory of PNG or JPEG frames")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Delay between frames")
	cmd.Flags().BoolVar(&end, "end", false, "End the session after the last frame")
	_ = cmd.MarkFlagRequired("frames")

	return cmd
}

// replayFrames is the plain-output path used when stdout is not a terminal.
// Per-frame failures are reported and skipped.
func replayFrames(cmd *cobra.Command, app *App, sessionID string, frames []string, interval time.Duration) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for i, path := range frames {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}

		name := filepath.Base(path)
		fmt.Fprintf(out, "%s %s\n", formatter.Bold(fmt.Sprintf("[%d/%d]", i+1, len(frames))), name)

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading frame: %w", err)
		}
		fb, err := app.Sessions.AnalyzeFrame(ctx, sessionID, data, app.now())
		if err != nil {
			if isSessionFatal(err) {
				return err
			}
			fmt.Fprintln(out, formatter.StyleYellow.Render("  skipped: "+err.Error()))
			continue
		}
		fmt.Fprintln(out, formatter.FormatFeedback(fb))
	}
	return nil
}

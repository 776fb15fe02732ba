package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/studysync/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage study sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app),
		newSessionAnalyzeCmd(app),
		newSessionEndCmd(app),
		newSessionMetricsCmd(app),
		newSessionListCmd(app),
	)

	return cmd
}

func newSessionStartCmd(app *App) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a study session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				userID = app.DefaultUserID
			}
			s, err := app.Sessions.StartSession(cmd.Context(), userID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Started session for %s\n", formatter.Bold(s.UserID))
			fmt.Fprintln(out, s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID (defaults to STUDYSYNC_DEFAULT_USER)")

	return cmd
}

func newSessionAnalyzeCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "analyze ID",
		Short: "Analyze one webcam frame against an open session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading frame: %w", err)
			}

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Analyzing frame...")
			}
			fb, err := app.Sessions.AnalyzeFrame(cmd.Context(), args[0], data, app.now())
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFeedback(fb))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to a PNG or JPEG frame")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newSessionEndCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "end ID",
		Short: "End a study session and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !yes && app.interactive() {
				ok, err := app.confirm(fmt.Sprintf("End session %s?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			summary, err := app.Sessions.EndSession(cmd.Context(), args[0], app.now())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Session ended successfully")
			fmt.Fprintln(out, formatter.RenderBox("Summary", formatter.FormatSummary(*summary)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newSessionMetricsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics ID",
		Short: "Show a session and its per-frame samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Sessions.GetSessionMetrics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMetrics(m, app.now()))
			return nil
		},
	}
}

func newSessionListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all study sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionList(sessions, app.now()))
			return nil
		},
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-coach/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-coach/internal/domain/entities"
	historyUsecase "github.com/johnquangdev/meeting-coach/internal/usecase/history"
	"github.com/johnquangdev/meeting-coach/pkg/config"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history <user_id>",
	Short: "List a user's completed meetings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		store := openPersistence(ctx, cfg, zap.NewNop())
		defer store.Close()

		entries, err := historyUsecase.NewHistoryService(store.repo, nil).ListHistory(ctx, args[0], historyLimit)
		if err != nil {
			return err
		}
		return printHistory(cmd.OutOrStdout(), args[0], entries, historyJSON)
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", historyUsecase.DefaultLimit, "maximum number of meetings")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
}

func printHistory(w io.Writer, userID string, entries []*entities.MeetingHistoryEntry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(presenter.ToMeetingHistoryListResponse(userID, entries))
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "No completed meetings for %s\n", userID)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MEETING\tUSER\tCOMPLETED\tPLANNED\tACTUAL\tACTION ITEMS\tNUDGES")
	for _, e := range entries {
		completed := "-"
		if e.CompletedAt != nil {
			completed = e.CompletedAt.Local().Format(time.DateTime)
		}
		planned, actual, items, nudges := "-", "-", "-", "-"
		if s := e.Summary; s != nil {
			planned = fmt.Sprintf("%dm", s.DurationPlannedMinutes)
			actual = fmt.Sprintf("%.1fm", s.DurationActualMinutes)
			items = fmt.Sprint(len(s.ActionItems))
			nudges = fmt.Sprint(s.CoachingStats.TotalNudges)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", e.MeetingID, e.UserName, completed, planned, actual, items, nudges)
	}
	return tw.Flush()
}

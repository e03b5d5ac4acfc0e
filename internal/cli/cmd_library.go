package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amanthanvi/mediahub/internal/app"
	"github.com/amanthanvi/mediahub/internal/storage"
)

type itemRow struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	MediaType   string   `json:"media_type"`
	Genre       string   `json:"genre,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Director    string   `json:"director,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Status      string   `json:"status"`
	DateAdded   string   `json:"date_added"`
}

func newLibraryCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect a profile's library",
		Example: "  mediahub library list --profile casey\n" +
			"  mediahub library search dune --profile casey\n" +
			"  mediahub library stats --profile casey",
	}
	cmd.AddCommand(newLibraryListCommand(deps))
	cmd.AddCommand(newLibrarySearchCommand(deps))
	cmd.AddCommand(newLibraryStatsCommand(deps))
	return cmd
}

// withProfileLibrary opens a session on the named profile for the
// duration of one command.
func withProfileLibrary(ctx context.Context, deps commandDeps, command, profile string, fn func(context.Context, *Session) error) error {
	if strings.TrimSpace(profile) == "" {
		return usageErrorf("%s requires --profile", command)
	}
	return withSession(ctx, deps, func(ctx context.Context, session *Session) error {
		if err := session.OpenProfile(ctx, profile); err != nil {
			return err
		}
		return fn(ctx, session)
	})
}

func newLibraryListCommand(deps commandDeps) *cobra.Command {
	var (
		profile   string
		mediaType string
		status    string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("library list does not accept positional arguments")
			}
			return withProfileLibrary(cmd.Context(), deps, "library list", profile, func(ctx context.Context, session *Session) error {
				items, err := session.Items(ctx, app.Filter{MediaType: mediaType, Status: status})
				if err != nil {
					return err
				}
				return renderItems(deps, items)
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Profile whose library to open")
	cmd.Flags().StringVar(&mediaType, "type", "", "Only items of this media type")
	cmd.Flags().StringVar(&status, "status", "", "Only items with this status")
	return cmd
}

func newLibrarySearchCommand(deps commandDeps) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search item titles, case-insensitive",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("library search requires exactly one term")
			}
			term := args[0]

			return withProfileLibrary(cmd.Context(), deps, "library search", profile, func(ctx context.Context, session *Session) error {
				items, err := session.Items(ctx, app.Filter{Search: term})
				if err != nil {
					return err
				}
				return renderItems(deps, items)
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Profile whose library to open")
	return cmd
}

func newLibraryStatsCommand(deps commandDeps) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate counts and the average rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("library stats does not accept positional arguments")
			}
			return withProfileLibrary(cmd.Context(), deps, "library stats", profile, func(ctx context.Context, session *Session) error {
				stats, err := session.Statistics(ctx)
				if err != nil {
					return err
				}

				if deps.globals.JSON {
					return printJSON(deps.out, map[string]any{
						"total_items":    stats.TotalItems,
						"average_rating": stats.AverageRating,
						"by_type":        stats.TypeBreakdown,
						"by_status":      stats.StatusBreakdown,
					})
				}
				if deps.globals.Quiet {
					return nil
				}
				if _, err := fmt.Fprintf(deps.out, "total=%d average_rating=%.1f\n", stats.TotalItems, stats.AverageRating); err != nil {
					return err
				}
				if err := printBreakdown(deps, "type", stats.TypeBreakdown); err != nil {
					return err
				}
				return printBreakdown(deps, "status", stats.StatusBreakdown)
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Profile whose library to open")
	return cmd
}

func renderItems(deps commandDeps, items []storage.MediaItem) error {
	if deps.globals.JSON {
		return printJSON(deps.out, itemRows(items))
	}
	if deps.globals.Quiet {
		return nil
	}
	if len(items) == 0 {
		_, err := fmt.Fprintln(deps.out, "no items found")
		return err
	}
	for _, item := range items {
		line := fmt.Sprintf("%d\t%s\ttype=%s status=%s", item.ID, item.Title, item.MediaType, item.Status)
		if item.Rating != nil {
			line += fmt.Sprintf(" rating=%.1f", *item.Rating)
		}
		if _, err := fmt.Fprintln(deps.out, line); err != nil {
			return err
		}
	}
	return nil
}

func itemRows(items []storage.MediaItem) []itemRow {
	rows := make([]itemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemRow{
			ID:          item.ID,
			Title:       item.Title,
			MediaType:   item.MediaType,
			Genre:       item.Genre,
			ReleaseDate: item.ReleaseDate,
			Director:    item.Director,
			Rating:      item.Rating,
			Status:      item.Status,
			DateAdded:   item.DateAdded.Format("2006-01-02"),
		})
	}
	return rows
}

func printBreakdown(deps commandDeps, label string, counts map[string]int) error {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, err := fmt.Fprintf(deps.out, "%s %s=%d\n", label, key, counts[key]); err != nil {
			return err
		}
	}
	return nil
}

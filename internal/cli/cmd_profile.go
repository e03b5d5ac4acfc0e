package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amanthanvi/mediahub/internal/storage"
)

type profileRow struct {
	Username  string `json:"username"`
	CreatedAt string `json:"created_at"`
}

func newProfileCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage library profiles",
		Example: "  mediahub profile list\n" +
			"  mediahub profile create casey",
	}
	cmd.AddCommand(newProfileListCommand(deps))
	cmd.AddCommand(newProfileCreateCommand(deps))
	return cmd
}

func newProfileListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("profile list does not accept positional arguments")
			}
			return withSession(cmd.Context(), deps, func(ctx context.Context, session *Session) error {
				users, err := session.ListProfiles(ctx)
				if err != nil {
					return err
				}

				if deps.globals.JSON {
					return printJSON(deps.out, profileRows(users))
				}
				if deps.globals.Quiet {
					return nil
				}
				if len(users) == 0 {
					_, err := fmt.Fprintln(deps.out, "no profiles registered")
					return err
				}
				for _, user := range users {
					if _, err := fmt.Fprintf(deps.out, "%s\tcreated=%s\n", user.Username, user.CreatedAt.Format("2006-01-02")); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newProfileCreateCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "create <username>",
		Short: "Register a profile and provision its empty library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("profile create requires exactly one username")
			}
			username := args[0]

			return withSession(cmd.Context(), deps, func(ctx context.Context, session *Session) error {
				if err := session.CreateProfile(ctx, username); err != nil {
					return err
				}

				if deps.globals.JSON {
					return printJSON(deps.out, map[string]any{"username": username})
				}
				if deps.globals.Quiet {
					return nil
				}
				_, err := fmt.Fprintf(deps.out, "profile created: %s\n", username)
				return err
			})
		},
	}
}

func profileRows(users []storage.User) []profileRow {
	rows := make([]profileRow, 0, len(users))
	for _, user := range users {
		rows = append(rows, profileRow{
			Username:  user.Username,
			CreatedAt: user.CreatedAt.Format("2006-01-02"),
		})
	}
	return rows
}

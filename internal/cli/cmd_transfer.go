package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amanthanvi/mediahub/internal/app"
)

func newTransferCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move a library between machines as a JSON bundle",
		Example: "  mediahub transfer export --profile casey --out casey.json\n" +
			"  mediahub transfer import --profile casey --in casey.json --mode skip",
	}
	cmd.AddCommand(newTransferExportCommand(deps))
	cmd.AddCommand(newTransferImportCommand(deps))
	return cmd
}

func newTransferExportCommand(deps commandDeps) *cobra.Command {
	var (
		profile string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the profile's library to a JSON bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("transfer export does not accept positional arguments")
			}
			if strings.TrimSpace(outPath) == "" {
				return usageErrorf("transfer export requires --out")
			}

			return withProfileLibrary(cmd.Context(), deps, "transfer export", profile, func(ctx context.Context, session *Session) error {
				payload, err := session.ExportJSON(ctx)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(outPath), 0o700); err != nil {
					return err
				}
				if err := os.WriteFile(outPath, payload, 0o600); err != nil {
					return err
				}

				var bundle app.ExportBundle
				if err := json.Unmarshal(payload, &bundle); err != nil {
					return fmt.Errorf("transfer export: reread bundle: %w", err)
				}

				if deps.globals.JSON {
					return printJSON(deps.out, map[string]any{
						"output": outPath,
						"items":  len(bundle.Items),
					})
				}
				if deps.globals.Quiet {
					return nil
				}
				_, err = fmt.Fprintf(deps.out, "exported %d items to %s\n", len(bundle.Items), outPath)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Profile whose library to export")
	cmd.Flags().StringVar(&outPath, "out", "", "Output bundle path")
	return cmd
}

func newTransferImportCommand(deps commandDeps) *cobra.Command {
	var (
		profile string
		inPath  string
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Merge a JSON bundle into the profile's library",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("transfer import does not accept positional arguments")
			}
			if strings.TrimSpace(inPath) == "" {
				return usageErrorf("transfer import requires --in")
			}

			raw, err := os.ReadFile(inPath)
			if err != nil {
				return mapCommandError(err)
			}

			return withProfileLibrary(cmd.Context(), deps, "transfer import", profile, func(ctx context.Context, session *Session) error {
				counts, err := session.ImportJSON(ctx, raw, app.ConflictMode(mode))
				if err != nil {
					return err
				}

				if deps.globals.JSON {
					return printJSON(deps.out, counts)
				}
				if deps.globals.Quiet {
					return nil
				}
				_, err = fmt.Fprintf(deps.out, "imported: created=%d skipped=%d\n", counts.Created, counts.Skipped)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Profile whose library receives the items")
	cmd.Flags().StringVar(&inPath, "in", "", "Input bundle path")
	cmd.Flags().StringVar(&mode, "mode", "skip", "Conflict mode: skip or copy")
	return cmd
}

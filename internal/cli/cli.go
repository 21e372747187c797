// Package cli implements the hanzictl commands: export, import,
// import-legacy and config.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"hanzi/internal/config"
	"hanzi/internal/domain"
	"hanzi/internal/repository/sqlite"
	"hanzi/internal/service"
)

// NewRootCommand builds the hanzictl command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "hanzictl",
		Short: "Export and import the hanzi vocabulary database",
		Long: `hanzictl dumps the vocabulary database to a JSON or YAML document and
restores it again. The optional [dbpath] argument defaults to $DB_PATH, then to
the database path from the config file, then to hanzi.db.`,
	}

	root.AddCommand(NewExportCommand())
	root.AddCommand(NewImportCommand())
	root.AddCommand(NewImportLegacyCommand())
	root.AddCommand(NewConfigCommand())

	return root
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <outfile> [dbpath]",
		Short: "Write the whole database to a file (\"-\" for stdout)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			outPath := args[0]
			if format == "" {
				format = formatFromPath(outPath)
			}

			return withService(args, func(svc *service.VocabularyService, dbPath string) error {
				if outPath == "-" {
					_, err := svc.ExportTo(cmd.Context(), format, cmd.OutOrStdout())
					return err
				}

				snap, size, err := exportFile(cmd.Context(), svc, format, outPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s characters, %s batches, %s groups to '%s' (%s) from '%s'.\n",
					humanize.Comma(int64(len(snap.Characters))),
					humanize.Comma(int64(len(snap.Batches))),
					humanize.Comma(int64(len(snap.Groups))),
					outPath, humanize.Bytes(uint64(size)), dbPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default from file extension)")
	return cmd
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <infile> [dbpath]",
		Short: "Load an export document or a bare character list",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(args[0])
			}
			return runImport(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json or yaml (default from file extension)")
	return cmd
}

// NewImportLegacyCommand creates the import-legacy command
func NewImportLegacyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy <infile> [dbpath]",
		Short: "Load the old line-delimited JSON format",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, "legacy")
		},
	}
}

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := config.Load()
			if err != nil {
				return err
			}
			if path == "" {
				path = "(defaults)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n%s\n", path, cfg.Summary())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init [path]",
		Short: "Write a default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file %s already exists", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}

func runImport(cmd *cobra.Command, args []string, format string) error {
	inPath := args[0]
	if _, err := os.Stat(inPath); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	return withService(args, func(svc *service.VocabularyService, dbPath string) error {
		stats, err := svc.ImportFile(cmd.Context(), format, inPath)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s characters, %s batches, %s groups, %s tags, %s settings from '%s' into '%s'.\n",
			humanize.Comma(int64(stats.Characters)),
			humanize.Comma(int64(stats.Batches)),
			humanize.Comma(int64(stats.Groups)),
			humanize.Comma(int64(stats.Tags)),
			humanize.Comma(int64(stats.Settings)),
			inPath, dbPath)
		return nil
	})
}

// withService opens the database named by args[1] (or the configured
// default) for the duration of fn.
func withService(args []string, fn func(svc *service.VocabularyService, dbPath string) error) error {
	dbPath, err := resolveDBPath(args)
	if err != nil {
		return err
	}

	repo, err := sqlite.New(dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(service.NewVocabularyService(repo, nil), dbPath)
}

func resolveDBPath(args []string) (string, error) {
	if len(args) > 1 && args[1] != "" {
		return args[1], nil
	}
	cfg, _, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Database.Path, nil
}

// exportFile writes the export next to path and renames it into place so a
// failed export never leaves a truncated file behind.
func exportFile(ctx context.Context, svc *service.VocabularyService, format, path string) (*domain.Snapshot, int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hanzi-export-*")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	snap, err := svc.ExportTo(ctx, format, tmp)
	if err != nil {
		tmp.Close()
		return nil, 0, err
	}

	size, err := tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		tmp.Close()
		return nil, 0, fmt.Errorf("failed to size export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, 0, fmt.Errorf("failed to move export into place: %w", err)
	}

	return snap, size, nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// Package records exports the stored submissions.
package records

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/export"
	"github.com/myrjola/reaksi/internal/logging"
	"github.com/myrjola/reaksi/internal/repositories"
	"github.com/myrjola/reaksi/internal/sqlite"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "records",
	Title: "Submission records",
}

func init() {
	Export.Flags().String("db", "./reaksi.sqlite3", "path to the SQLite database of the web application")
	Export.Flags().String("out", "", "path to the CSV file, defaults to a dated file name in the working directory")
	Export.Flags().Bool("stdout", false, "write the CSV to standard output")
}

var Export = &cobra.Command{
	Use:     "export",
	GroupID: "records",
	Short:   "Export submissions as CSV",
	Long:    `Writes all stored submissions, newest first, in the same CSV format as the teacher page download.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		logger := logging.NewLogger(os.Stderr, slog.LevelWarn)

		dbPath, err := cmd.Flags().GetString("db")
		if err != nil {
			return errors.Wrap(err, "db flag")
		}
		if _, err = os.Stat(dbPath); err != nil {
			return errors.Wrap(err, "database not found", slog.String("db", dbPath))
		}
		db, err := sqlite.NewDatabase(ctx, dbPath, logger)
		if err != nil {
			return errors.Wrap(err, "open database", slog.String("db", dbPath))
		}
		defer func() {
			_ = db.Close()
		}()

		toStdout, err := cmd.Flags().GetBool("stdout")
		if err != nil {
			return errors.Wrap(err, "stdout flag")
		}
		if toStdout {
			return write(ctx, cmd.OutOrStdout(), db, logger)
		}

		outPath, err := cmd.Flags().GetString("out")
		if err != nil {
			return errors.Wrap(err, "out flag")
		}
		if outPath == "" {
			outPath = export.Filename(time.Now())
		}
		file, err := os.Create(outPath)
		if err != nil {
			return errors.Wrap(err, "create file", slog.String("out", outPath))
		}
		defer func(file *os.File) {
			_ = file.Close()
		}(file)
		if err = write(ctx, file, db, logger); err != nil {
			return err
		}
		cmd.PrintErrln("wrote", outPath)
		return nil
	},
}

func write(ctx context.Context, w io.Writer, db *sqlite.Database, logger *slog.Logger) error {
	repo, err := repositories.NewSubmissionRepository(ctx, sqlite.NewKVStore(db), logger)
	if err != nil {
		return errors.Wrap(err, "load submissions")
	}
	if err = export.WriteCSV(w, repo.List()); err != nil {
		return errors.Wrap(err, "write CSV")
	}
	return nil
}

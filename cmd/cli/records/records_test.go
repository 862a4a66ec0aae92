package records_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/myrjola/reaksi/cmd/cli/records"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/repositories"
	"github.com/myrjola/reaksi/internal/sqlite"
	"github.com/myrjola/reaksi/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reaksi.sqlite3")
	logger := testhelpers.NewLogger(io.Discard)

	db, err := sqlite.NewDatabase(ctx, dbPath, logger)
	require.NoError(t, err)
	repo, err := repositories.NewSubmissionRepository(ctx, sqlite.NewKVStore(db), logger)
	require.NoError(t, err)
	for _, name := range []string{"Kelompok 1", "Kelompok 2"} {
		require.NoError(t, repo.Append(ctx, models.Submission{
			ID:          name,
			GroupName:   name,
			Members:     "Andi",
			RedInitial:  20,
			AIScore:     70,
			SubmittedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		}))
	}
	require.NoError(t, db.Close())

	outPath := filepath.Join(t.TempDir(), "out.csv")
	tests := []struct {
		name string
		args []string
		read func(t *testing.T, stdout *bytes.Buffer) string
	}{
		{
			name: "stdout",
			args: []string{"--db", dbPath, "--stdout"},
			read: func(_ *testing.T, stdout *bytes.Buffer) string {
				return stdout.String()
			},
		},
		{
			name: "file",
			args: []string{"--db", dbPath, "--stdout=false", "--out", outPath},
			read: func(t *testing.T, _ *bytes.Buffer) string {
				t.Helper()
				b, err := os.ReadFile(outPath)
				require.NoError(t, err)
				return string(b)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			records.Export.SetOut(&out)
			records.Export.SetErr(io.Discard)
			records.Export.SetArgs(tt.args)
			require.NoError(t, records.Export.ExecuteContext(ctx))

			lines := strings.Split(strings.TrimSpace(tt.read(t, &out)), "\n")
			require.Len(t, lines, 3)
			require.True(t, strings.HasPrefix(lines[0], "\ufeffKelompok,"))
			require.True(t, strings.HasPrefix(lines[1], "Kelompok 2,"), "newest first")
		})
	}

	t.Run("missing database", func(t *testing.T) {
		records.Export.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "missing.sqlite3"), "--stdout"})
		records.Export.SetErr(io.Discard)
		require.Error(t, records.Export.ExecuteContext(ctx))
	})
}

package worksheet_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/myrjola/reaksi/internal/layout"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/worksheet"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worksheet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const fullWorksheet = `
title: Laju Reaksi
questions:
  - key: definition
    title: Definisi
    prompt: Apa itu laju reaksi?
  - key: reduction
    title: Reduksi
    prompt: Hitung laju reaktan.
  - key: formation
    title: Formasi
    prompt: Hitung laju produk.
  - key: negative
    title: Simbol
    prompt: Mengapa negatif?
  - key: air
    title: Karhutla
    prompt: Bagaimana kualitas udara?
`

func TestLoad_defaults(t *testing.T) {
	content, err := worksheet.Load("")
	require.NoError(t, err)
	require.Equal(t, worksheet.Default(), content)
	for _, key := range models.AnswerKeys {
		q, ok := content.Question(key)
		require.True(t, ok, key)
		require.NotEmpty(t, q.Prompt)
	}
}

func TestLoad_file(t *testing.T) {
	content, err := worksheet.Load(writeFile(t, fullWorksheet))
	require.NoError(t, err)
	require.Equal(t, "Laju Reaksi", content.Title)
	require.Equal(t, worksheet.Default().Subtitle, content.Subtitle, "unset keys keep their defaults")
	require.Equal(t, worksheet.Default().BoxLabels, content.BoxLabels)
	require.Len(t, content.Questions, 5)
	require.Equal(t, models.AnswerDefinition, content.Questions[0].Key)
	require.Empty(t, content.Questions[0].Placeholder)
}

func TestLoad_env(t *testing.T) {
	t.Setenv("REAKSI_WORKSHEET_TITLE", "Dari lingkungan")
	t.Setenv("REAKSI_WORKSHEET_AREA__WIDTH", "300")
	t.Setenv("REAKSI_WORKSHEET_BOX_LABELS", "Awal,Tengah,Akhir")

	content, err := worksheet.Load(writeFile(t, fullWorksheet))
	require.NoError(t, err)
	require.Equal(t, "Dari lingkungan", content.Title, "environment overrides the file")
	require.Equal(t, layout.Area{Width: 300, Height: 150, Padding: 15, Radius: 12}, content.Area)
	require.Equal(t, []string{"Awal", "Tengah", "Akhir"}, content.BoxLabels)
}

func TestLoad_invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing question",
			yaml: `
questions:
  - {key: reduction, title: a, prompt: a}
  - {key: formation, title: a, prompt: a}
  - {key: negative, title: a, prompt: a}
  - {key: air, title: a, prompt: a}
`,
		},
		{
			name: "duplicate key",
			yaml: `
questions:
  - {key: reduction, title: a, prompt: a}
  - {key: reduction, title: a, prompt: a}
  - {key: negative, title: a, prompt: a}
  - {key: air, title: a, prompt: a}
  - {key: definition, title: a, prompt: a}
`,
		},
		{
			name: "empty prompt",
			yaml: `
questions:
  - {key: reduction, title: a, prompt: ""}
  - {key: formation, title: a, prompt: a}
  - {key: negative, title: a, prompt: a}
  - {key: air, title: a, prompt: a}
  - {key: definition, title: a, prompt: a}
`,
		},
		{
			name: "two box labels",
			yaml: "box_labels: [A, B]\n",
		},
		{
			name: "zero radius",
			yaml: "area: {radius: 0}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := worksheet.Load(writeFile(t, tt.yaml))
			require.ErrorIs(t, err, worksheet.ErrInvalid)
		})
	}
}

func TestLoad_missingFile(t *testing.T) {
	_, err := worksheet.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.NotErrorIs(t, err, worksheet.ErrInvalid)
}

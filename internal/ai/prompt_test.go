package ai_test

import (
	"testing"

	"github.com/myrjola/reaksi/internal/ai"
	"github.com/myrjola/reaksi/internal/simulation"
	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	prompt := ai.Prompt(testAnswers(), simulation.Derive(20))

	for _, want := range []string{
		"- t=0s: 20 red, 0 blue",
		"- t=10s: 12 red, 8 blue",
		"- t=20s: 4 red, 16 blue",
		`1. Reduction Rate Analysis: "8 partikel berkurang, laju 0,8 partikel/detik"`,
		`5. Definition of Reaction Rate: "perubahan konsentrasi per satuan waktu"`,
		"Bahasa Indonesia",
	} {
		require.Contains(t, prompt, want)
	}
}

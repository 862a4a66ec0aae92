package ai

import (
	"fmt"
	"strings"

	"github.com/myrjola/reaksi/internal/models"
)

// Prompt builds the evaluation prompt. Answers are embedded verbatim.
func Prompt(answers models.StudentAnswers, sim models.SimulationState) string {
	var b strings.Builder
	b.WriteString("Evaluate the following student answers for a Chemistry simulation about Reaction Rates.\n")
	b.WriteString("The simulation involved biomass (red particles) turning into pollutants (blue particles).\n\n")

	b.WriteString("Simulation Data:\n")
	for _, row := range []struct {
		label    string
		snapshot models.ParticleSnapshot
	}{
		{label: "t=0s", snapshot: sim.T0},
		{label: "t=10s", snapshot: sim.T10},
		{label: "t=20s", snapshot: sim.T20},
	} {
		_, _ = fmt.Fprintf(&b, "- %s: %d red, %d blue\n", row.label, row.snapshot.Red, row.snapshot.Blue)
	}

	b.WriteString("\nStudent Answers:\n")
	_, _ = fmt.Fprintf(&b, "1. Reduction Rate Analysis: \"%s\"\n", answers.Reduction)
	_, _ = fmt.Fprintf(&b, "2. Formation Rate Analysis: \"%s\"\n", answers.Formation)
	_, _ = fmt.Fprintf(&b, "3. Positive/Negative Sign Explanation: \"%s\"\n", answers.Negative)
	_, _ = fmt.Fprintf(&b, "4. Environmental Impact: \"%s\"\n", answers.Air)
	_, _ = fmt.Fprintf(&b, "5. Definition of Reaction Rate: \"%s\"\n", answers.Definition)

	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. A numeric score (0-100).\n")
	b.WriteString("2. Detailed feedback in Indonesian (Bahasa Indonesia).\n")
	b.WriteString("3. An overall summary feedback.\n")
	return b.String()
}

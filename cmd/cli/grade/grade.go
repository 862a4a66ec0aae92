// Package grade evaluates worksheet answers from the command line.
package grade

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/myrjola/reaksi/internal/ai"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/myrjola/reaksi/internal/logging"
	"github.com/myrjola/reaksi/internal/models"
	"github.com/myrjola/reaksi/internal/simulation"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "grade",
	Title: "AI evaluation",
}

func init() {
	Evaluate.Flags().Int("red", simulation.DefaultRed, "initial number of red particles the group observed")
	Evaluate.Flags().String("model", ai.DefaultModel, "chat completion model")
	Evaluate.Flags().Bool("prompt", false, "print the prompt instead of calling the API")
}

var Evaluate = &cobra.Command{
	Use:     "evaluate [answers.json]",
	GroupID: "grade",
	Short:   "Evaluate answers",
	Long: `Scores a JSON file of answers with the keys reduction, formation, negative, air and definition.
Reads standard input when no file is given. Uses OPENAI_API_KEY and REAKSI_AI_BASE_URL.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			file, err := os.Open(args[0])
			if err != nil {
				return errors.Wrap(err, "open answers", slog.String("path", args[0]))
			}
			defer func(file *os.File) {
				_ = file.Close()
			}(file)
			in = file
		}
		var answers models.StudentAnswers
		if err := json.NewDecoder(in).Decode(&answers); err != nil {
			return errors.Wrap(err, "decode answers")
		}

		flags := cmd.Flags()
		red, err := flags.GetInt("red")
		if err != nil {
			return errors.Wrap(err, "red flag")
		}
		sim := simulation.Derive(red)

		printPrompt, err := flags.GetBool("prompt")
		if err != nil {
			return errors.Wrap(err, "prompt flag")
		}
		if printPrompt {
			cmd.Println(ai.Prompt(answers, sim))
			return nil
		}

		model, err := flags.GetString("model")
		if err != nil {
			return errors.Wrap(err, "model flag")
		}
		completer := ai.NewOpenAIClient(ai.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   model,
			BaseURL: os.Getenv("REAKSI_AI_BASE_URL"),
		})
		logger := logging.NewLogger(os.Stderr, slog.LevelWarn)
		evaluation := ai.NewClient(completer, model, logger, nil).Evaluate(cmd.Context(), answers, sim)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err = enc.Encode(evaluation); err != nil {
			return errors.Wrap(err, "encode evaluation")
		}
		return nil
	},
}

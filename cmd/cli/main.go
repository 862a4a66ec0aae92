package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/myrjola/reaksi/cmd/cli/grade"
	"github.com/myrjola/reaksi/cmd/cli/particles"
	"github.com/myrjola/reaksi/cmd/cli/records"
	"github.com/myrjola/reaksi/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.AddGroup(records.Group, particles.Group, grade.Group)
	rootCmd.AddCommand(records.Export, particles.Layout, grade.Evaluate)
}

var rootCmd = &cobra.Command{
	Use:          "reaksi-cli",
	Long:         `Command line utilities for the reaction rate worksheet`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

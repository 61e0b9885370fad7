package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai-studynotes-be/internal/bootstrap"
	"ai-studynotes-be/internal/config"
	"ai-studynotes-be/internal/pkg/logger"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		debug        bool
		narrationOut string
		imageOut     string
	)
	cmd := &cobra.Command{
		Use:          "generate <video-url>",
		Short:        "Generate study notes and flashcards for one video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.NewConsoleLogger(debug)
			defer log.Sync()

			runner, err := bootstrap.NewPipelineRunner(cfg, log, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			color.Cyan("Processing %s\n", args[0])
			out, err := runner.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			extras := runner.Enrich(cmd.Context(), out.Result, narrationOut != "")

			color.Green("\n%s\n", out.Result.Title)
			fmt.Println(out.Document.WithoutQuiz())

			color.Yellow("\nFlashcards (%d)", len(out.Result.Quiz))
			for i, item := range out.Result.Quiz {
				color.Cyan("%d. %s", i+1, item.Question)
				fmt.Printf("   %s\n", item.Answer)
			}

			if extras.Image != nil && imageOut != "" {
				if err := os.WriteFile(imageOut, extras.Image.Bytes, 0o644); err != nil {
					return err
				}
				color.Green("\nImage written to %s", imageOut)
			}
			if extras.Narration != nil {
				if err := os.WriteFile(narrationOut, extras.Narration.Bytes, 0o644); err != nil {
					return err
				}
				color.Green("Narration written to %s", narrationOut)
			}

			for _, w := range append(out.Warnings, extras.Warnings...) {
				color.Yellow("warning: %s", w)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Log every stage at debug level")
	cmd.Flags().StringVar(&narrationOut, "narration-out", "", "Write the spoken notes to this mp3 file")
	cmd.Flags().StringVar(&imageOut, "image-out", "", "Write the summary illustration to this png file")
	return cmd
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"powerfulchat/internal/enrichment"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		fileFlag        string
		biographyFlag   bool
		creditsOnlyFlag bool
	)

	cmd := &cobra.Command{
		Use:   "batch [tmdb-person-id...]",
		Short: "Enrich a list of persons sequentially",
		Long: "Processes each person in order with a configured pause between items.\n" +
			"IDs come from the arguments, from --file (one ID per line, # comments\n" +
			"allowed), or from both.",
		RunE: func(cmd *cobra.Command, args []string) error {
			personIDs, err := collectPersonIDs(args, fileFlag)
			if err != nil {
				return err
			}
			if len(personIDs) == 0 {
				return fmt.Errorf("no person IDs given")
			}
			return runBatch(ctx, personIDs, enrichment.ProcessOptions{
				ImportBiography: biographyFlag,
				CreditsOnly:     creditsOnlyFlag,
			})
		},
	}

	cmd.Flags().StringVar(&fileFlag, "file", "", "File with one TMDB person ID per line")
	cmd.Flags().BoolVar(&biographyFlag, "biography", true, "Generate biography content for each person")
	cmd.Flags().BoolVar(&creditsOnlyFlag, "credits-only", false, "Only link filmographies, no biography content")

	return cmd
}

func runBatch(ctx *commandContext, personIDs []int64, opts enrichment.ProcessOptions) error {
	pipe, err := ctx.buildPipeline()
	if err != nil {
		return err
	}
	defer pipe.Close()

	// One batch at a time; overlapping runs would fight over rate limits and
	// duplicate external calls.
	lock := flock.New(filepath.Join(pipe.cfg.Paths.DataDir, "batch.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another batch is already running")
	}
	defer lock.Unlock()

	runCtx, stop := signalContext()
	defer stop()

	delay := time.Duration(pipe.cfg.Batch.ItemDelaySeconds) * time.Second
	runner := enrichment.NewBatchRunner(pipe.enricher, delay, pipe.logger)

	result, err := runner.Run(runCtx, personIDs, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Batch finished: %d processed, %d skipped, %d failed\n",
		result.Processed, result.Skipped, result.Failed)
	return nil
}

func collectPersonIDs(args []string, file string) ([]int64, error) {
	var personIDs []int64
	for _, arg := range args {
		personID, err := parsePersonID(arg)
		if err != nil {
			return nil, err
		}
		personIDs = append(personIDs, personID)
	}

	if strings.TrimSpace(file) == "" {
		return personIDs, nil
	}
	handle, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open id file: %w", err)
	}
	defer handle.Close()

	scanner := bufio.NewScanner(handle)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		personID, err := parsePersonID(line)
		if err != nil {
			return nil, err
		}
		personIDs = append(personIDs, personID)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id file: %w", err)
	}
	return personIDs, nil
}

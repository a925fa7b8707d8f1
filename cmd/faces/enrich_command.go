package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"powerfulchat/internal/enrichment"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var (
		biographyFlag  bool
		originFilmFlag int64
		originRoleFlag string
	)

	cmd := &cobra.Command{
		Use:   "enrich <tmdb-person-id>",
		Short: "Import or refresh one person profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			personID, err := parsePersonID(args[0])
			if err != nil {
				return err
			}
			return runEnrich(ctx, personID, enrichment.ProcessOptions{
				ImportBiography:  biographyFlag,
				OriginFilmTMDBID: originFilmFlag,
				OriginRole:       originRoleFlag,
			})
		},
	}

	cmd.Flags().BoolVar(&biographyFlag, "biography", true, "Generate biography, intro, keywords, and FAQs")
	cmd.Flags().Int64Var(&originFilmFlag, "origin-film", 0, "TMDB ID of the film that triggered this import")
	cmd.Flags().StringVar(&originRoleFlag, "origin-role", "", "Role to record on the origin film credit")

	return cmd
}

func newCreditsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "credits <tmdb-person-id>",
		Short: "Link a person's full filmography into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			personID, err := parsePersonID(args[0])
			if err != nil {
				return err
			}
			return runEnrich(ctx, personID, enrichment.ProcessOptions{CreditsOnly: true})
		},
	}
}

func runEnrich(ctx *commandContext, personID int64, opts enrichment.ProcessOptions) error {
	pipe, err := ctx.buildPipeline()
	if err != nil {
		return err
	}
	defer pipe.Close()

	runCtx, stop := signalContext()
	defer stop()

	person, err := pipe.enricher.ProcessPerson(runCtx, personID, opts)
	if err != nil {
		return err
	}
	if person == nil {
		fmt.Fprintf(os.Stdout, "Person %d skipped (not found, or missing name/profile image)\n", personID)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Processed %s (%s), %d credits\n", person.Name, person.ID, len(person.Credits))
	return nil
}

func parsePersonID(arg string) (int64, error) {
	personID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || personID <= 0 {
		return 0, fmt.Errorf("invalid TMDB person id %q", arg)
	}
	return personID, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

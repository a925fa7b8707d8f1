package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/richtext"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug | tmdb-id | document-id>",
		Short: "Show one person profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			person, err := lookupPerson(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			if person == nil {
				return fmt.Errorf("no person matches %q", args[0])
			}
			printPerson(person)
			return nil
		},
	}
}

// lookupPerson resolves the argument as a TMDB ID first, then a slug, then a
// raw document ID.
func lookupPerson(ctx context.Context, store *catalog.Store, arg string) (*catalog.Person, error) {
	arg = strings.TrimSpace(arg)
	if tmdbID, err := strconv.ParseInt(arg, 10, 64); err == nil && tmdbID > 0 {
		return store.FindPersonByTMDBID(ctx, tmdbID)
	}
	person, err := store.FindPersonBySlug(ctx, arg)
	if err != nil || person != nil {
		return person, err
	}
	return store.GetPersonByID(ctx, arg)
}

func printPerson(person *catalog.Person) {
	rows := [][]string{
		{"Name", person.Name},
		{"Slug", person.Slug},
		{"TMDB ID", formatTMDBID(person.TMDBID)},
		{"Born", orDash(person.DateOfBirth)},
		{"Country", orDash(person.Country)},
		{"Gender", orDash(person.Gender)},
		{"Professions", orDash(strings.Join(person.Professions, ", "))},
		{"Deceased", deceasedLabel(person)},
		{"Power meter", strconv.Itoa(person.PowerMeter)},
		{"Keywords", strconv.Itoa(len(person.Keywords))},
		{"FAQs", strconv.Itoa(len(person.FAQs))},
		{"Credits", strconv.Itoa(len(person.Credits))},
		{"Image", orDash(person.ImageRef)},
	}
	fmt.Fprintln(os.Stdout, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))

	if intro := richtext.PlainText(person.Intro); intro != "" {
		fmt.Fprintf(os.Stdout, "\n%s\n", intro)
	}
}

func formatTMDBID(tmdbID int64) string {
	if tmdbID == 0 {
		return "-"
	}
	return strconv.FormatInt(tmdbID, 10)
}

func deceasedLabel(person *catalog.Person) string {
	if !person.IsDeceased {
		return "no"
	}
	if person.DeathDate == "" {
		return "yes"
	}
	return "yes (" + person.DeathDate + ")"
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

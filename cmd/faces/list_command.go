package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog documents",
	}
	cmd.AddCommand(newListPersonsCommand(ctx))
	cmd.AddCommand(newListFilmsCommand(ctx))
	return cmd
}

func newListPersonsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "persons",
		Short: "List every person in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			persons, err := store.ListPersons(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(persons))
			for _, person := range persons {
				rows = append(rows, []string{
					person.Slug,
					person.Name,
					formatTMDBID(person.TMDBID),
					strconv.Itoa(len(person.Credits)),
					boolLabel(person.HasBiography()),
				})
			}
			fmt.Fprintln(os.Stdout, renderTable(
				[]string{"Slug", "Name", "TMDB", "Credits", "Biography"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newListFilmsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "films",
		Short: "List every film in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			films, err := store.ListFilms(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(films))
			for _, film := range films {
				rows = append(rows, []string{
					film.Title,
					strconv.FormatInt(film.TMDBID, 10),
					strconv.Itoa(len(film.Credits)),
				})
			}
			fmt.Fprintln(os.Stdout, renderTable(
				[]string{"Title", "TMDB", "Credits"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}
}

func boolLabel(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/meltforce/gymplan/internal/journal"
)

func newJournalCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect plans recorded by generate",
	}
	cmd.AddCommand(newJournalListCmd(opts), newJournalShowCmd(opts))
	return cmd
}

func newJournalListCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			j, err := journal.Open(opts.journalDir)
			if err != nil {
				return err
			}
			defer j.Close()

			entries, err := j.List(limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tLEVEL\tGENDER\tGOAL\tSEED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Level, e.Gender, e.Goal, e.Seed)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries")
	return cmd
}

func newJournalShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a recorded plan as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q: %w", args[0], err)
			}
			j, err := journal.Open(opts.journalDir)
			if err != nil {
				return err
			}
			defer j.Close()

			e, err := j.Get(id)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(e.Plan))
			return err
		},
	}
}

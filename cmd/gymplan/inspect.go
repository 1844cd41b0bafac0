package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/meltforce/gymplan/internal/plans"
	"github.com/meltforce/gymplan/internal/profile"
	"github.com/meltforce/gymplan/internal/routine"
)

func newRecoveryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "recovery",
		Short: "Show the recovery policy and level table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			engines, err := opts.engine(cmd, log)
			if err != nil {
				return err
			}
			e := engines.Engine()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MUSCLE\tREST DAYS\tSIZE")
			rules := e.Policy().Rules()
			for _, m := range routine.AllMuscleGroups() {
				r := rules[m]
				fmt.Fprintf(tw, "%s\t%d\t%s\n", m, r.RestDays, r.Size)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "LEVEL\tTYPE\tDAYS\tPER DAY\tPER GROUP")
			levels := e.Levels().All()
			for _, lvl := range routine.AllLevels() {
				c := levels[lvl]
				days := make([]string, len(c.TrainingDays))
				for i, d := range c.TrainingDays {
					days[i] = d.String()[:3]
				}
				fmt.Fprintf(tw, "%s\t%s\t%v\t%d-%d\t%d-%d\n", lvl, c.Type, days,
					c.TotalPerDay.Min, c.TotalPerDay.Max, c.PerGroup.Min, c.PerGroup.Max)
			}
			return tw.Flush()
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Build one week per level and check coverage, spacing and caps",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			engines, err := opts.engine(cmd, log)
			if err != nil {
				return err
			}
			svc := plans.NewService(nil, engines, profile.NewRuleClassifier(), nil, 0, log)
			reports, err := svc.Validate(cmd.Context(), seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "seed %d\n", seed)
			failed := 0
			for _, r := range reports {
				status := "ok"
				if !r.Valid {
					status = "INVALID"
					failed++
				}
				fmt.Fprintf(out, "%-13s %-9s %s\n", r.Level, r.TrainingType, status)
				for _, m := range r.Missing {
					fmt.Fprintf(out, "  missing %s\n", m)
				}
				for _, v := range r.SpacingViolation {
					fmt.Fprintf(out, "  spacing %s\n", v)
				}
				for _, d := range r.OverCapDays {
					fmt.Fprintf(out, "  over cap on %s\n", d)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d levels failed validation", failed, len(reports))
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed")
	return cmd
}


package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meltforce/gymplan/internal/dataset"
	"github.com/meltforce/gymplan/internal/journal"
	"github.com/meltforce/gymplan/internal/plans"
	"github.com/meltforce/gymplan/internal/profile"
	"github.com/meltforce/gymplan/internal/routine"
)

func newGenerateCmd(opts *options) *cobra.Command {
	var (
		req         plans.ProfileRequest
		seed        uint64
		historyPath string
		asJSON      bool
		noJournal   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a weekly plan for a profile",
		Example: "  gymplan generate --gender female --age 29 --weight 62 --height 1.68 --goal weight_loss\n" +
			"  gymplan generate --gender male --age 35 --weight 90 --height 180 --goal weight_gain --level advanced --seed 7 --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if historyPath != "" {
				if req.History, err = loadHistory(historyPath); err != nil {
					return err
				}
			}

			engines, err := opts.engine(cmd, log)
			if err != nil {
				return err
			}
			svc := plans.NewService(nil, engines, profile.NewRuleClassifier(), nil, 0, log)
			res, err := svc.GenerateForProfile(cmd.Context(), req)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			if !noJournal {
				id, err := saveJournal(opts, res, data)
				if err != nil {
					return err
				}
				log.Info("plan journaled", "id", id)
			}

			if asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			return renderPlan(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.Gender, "gender", "", "male or female")
	cmd.Flags().IntVar(&req.Age, "age", 0, "age in years")
	cmd.Flags().Float64Var(&req.WeightKg, "weight", 0, "weight in kg")
	cmd.Flags().Float64Var(&req.HeightM, "height", 0, "height in meters or centimeters")
	cmd.Flags().StringVar(&req.Goal, "goal", "", "weight_gain or weight_loss")
	cmd.Flags().StringVar(&req.Level, "level", "", "override the predicted level")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible plan")
	cmd.Flags().StringVar(&historyPath, "history", "", "JSON file with recent sessions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the plan as JSON")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record the plan in the journal")
	for _, name := range []string{"gender", "age", "weight", "height", "goal"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func loadHistory(path string) ([]routine.SessionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	history := []routine.SessionRecord{}
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", path, err)
	}
	return history, nil
}

func saveJournal(opts *options, res *plans.Result, data []byte) (string, error) {
	j, err := journal.Open(opts.journalDir)
	if err != nil {
		return "", err
	}
	defer j.Close()

	var hash string
	if opts.datasetPath != "" {
		if hash, err = dataset.HashFile(opts.datasetPath); err != nil {
			return "", fmt.Errorf("hashing dataset: %w", err)
		}
	}
	id, err := j.Save(journal.Entry{
		Level:       string(res.Level),
		Gender:      string(res.Profile.Gender),
		Goal:        string(res.Profile.Goal),
		Seed:        res.Seed,
		DatasetHash: hash,
		Plan:        data,
	})
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// renderPlan prints one block per day with an aligned exercise table.
func renderPlan(w io.Writer, res *plans.Result) error {
	fmt.Fprintf(w, "Level: %s (%s, %d days/week)  BMI %.2f (%s)  BMR %.0f kcal  seed %d\n\n",
		res.Level, res.TrainingType, res.Frequency, res.Prediction.BMI, res.Prediction.BMIRange, res.Prediction.BMR, res.Seed)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, d := range res.Days {
		if d.Rest {
			fmt.Fprintf(tw, "%s\trest\n", titleDay(d.Day))
			continue
		}
		muscles := make([]string, len(d.Muscles))
		for i, m := range d.Muscles {
			muscles[i] = string(m)
		}
		fmt.Fprintf(tw, "%s\t%s\n", titleDay(d.Day), strings.Join(muscles, ", "))
		for _, ex := range d.Exercises {
			fmt.Fprintf(tw, "\t  %s\t%s\t%dx%d\n", ex.Name, ex.Muscle, ex.Sets, ex.Reps)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s\n", res.Summary.Message)
	fmt.Fprintf(w, "%d training days, %d exercises (%.1f per day)\n",
		res.Summary.TrainingDays, res.Summary.TotalExercises, res.Summary.AveragePerDay)
	for _, r := range res.Recommendations {
		fmt.Fprintf(w, "* %s\n", r)
	}
	return nil
}

func titleDay(d routine.Day) string {
	s := d.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

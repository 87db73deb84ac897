package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
)

var errFieldInvalid = errors.New("value rejected")

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		category string
		field    string
		value    string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a single numeric field the way the workout form does",
		Example: `  trackctl validate --category Dumbbell --field sets --value 9
  trackctl validate --category Barbell --field weight --value 600 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedCategory, ok := workout.ParseCategory(category)
			if !ok {
				return fmt.Errorf("unknown category %q", category)
			}
			parsedField, ok := workout.ParseField(field)
			if !ok {
				return fmt.Errorf("unknown field %q (want sets, reps or weight)", field)
			}

			catalog, err := workout.LoadCatalogFile(opts.catalogPath)
			if err != nil {
				return err
			}
			result := workout.NewValidator(catalog).ValidateField(value, parsedCategory, parsedField)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else if result.Valid {
				fmt.Fprintf(out, "ok: %s=%s is valid for %s\n", parsedField, value, parsedCategory)
			} else {
				fmt.Fprintf(out, "invalid: %s\n", result.Message)
			}

			if !result.Valid {
				return errFieldInvalid
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "workout category (Dumbbell, Machine, Barbell, Bodyweight)")
	cmd.Flags().StringVar(&field, "field", "", "field to validate (sets, reps, weight)")
	cmd.Flags().StringVar(&value, "value", "", "raw input value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

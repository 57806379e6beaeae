package main

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/couchcryptid/hazard-dashboard/internal/selection"
	"github.com/spf13/cobra"
)

func newPanelsCmd(opts *rootOptions) *cobra.Command {
	var (
		region, category, hazardType string
		choropleth, score            string
		panel                        string
	)

	cmd := &cobra.Command{
		Use:   "panels",
		Short: "Derive the dashboard panels for a selection",
		Long: `Derive the dashboard panels for a selection.

Selectors are applied in order region, category, type, then the two modes,
exactly as the interactive dashboard would. A hazard type that does not
belong to the category is cleared and reported as "hazard_type_reset".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if panel != "" && !slices.Contains(engine.Panels, engine.Panel(panel)) {
				return fmt.Errorf("unknown panel %q (want one of %v)", panel, engine.Panels)
			}

			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}

			ctl := selection.NewController(eng)
			updates := []selection.Update{
				{Field: selection.FieldRegion, Value: region},
				{Field: selection.FieldHazardCategory, Value: category},
				{Field: selection.FieldHazardType, Value: hazardType},
				{Field: selection.FieldChoroplethMode, Value: choropleth},
				{Field: selection.FieldScoreMode, Value: score},
			}
			var settled selection.Settled
			reset := false
			for _, u := range updates {
				if settled, err = ctl.Apply(u); err != nil {
					return err
				}
				reset = reset || settled.HazardTypeReset
			}
			settled.HazardTypeReset = reset

			view := engine.NewView("dashctl", settled.State, settled.HazardTypeOptions, settled.HazardTypeReset, eng.Derive(settled.State))
			if panel == "" {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			return writeJSON(cmd.OutOrStdout(), singlePanel(view.Dashboard, engine.Panel(panel)))
		},
	}

	f := cmd.Flags()
	f.StringVar(&region, "region", "", "selected region (empty for all regions)")
	f.StringVar(&category, "category", "", "selected hazard category")
	f.StringVar(&hazardType, "type", "", "selected hazard type")
	f.StringVar(&choropleth, "choropleth", "", `map mode: "Disasters" or "Population Density"`)
	f.StringVar(&score, "score", "", `score mode: "Adaptability Score" or "Indicators"`)
	f.StringVar(&panel, "panel", "", "print only this panel")
	return cmd
}

// singlePanel picks one panel's result, or its error.
func singlePanel(d engine.Dashboard, p engine.Panel) any {
	if err, ok := d.Errors[p]; ok {
		return map[string]any{"error": err}
	}
	switch p {
	case engine.PanelChoropleth:
		return d.Choropleth
	case engine.PanelScore:
		return d.Score
	case engine.PanelHazardTypes:
		return d.HazardTypes
	case engine.PanelBeneficiaries:
		return d.Beneficiaries
	default:
		return d.MonthlySeries
	}
}

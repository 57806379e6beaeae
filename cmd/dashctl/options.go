package main

import (
	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/spf13/cobra"
)

type optionsOutput struct {
	Regions          []domain.Region                              `json:"regions"`
	HazardCategories []domain.HazardCategory                      `json:"hazard_categories"`
	HazardTypes      map[domain.HazardCategory][]domain.HazardType `json:"hazard_types"`
	ChoroplethModes  []domain.ChoroplethMode                      `json:"choropleth_modes"`
	ScoreModes       []domain.ScoreMode                           `json:"score_modes"`
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the values each selector offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := opts.loadEngine(cmd)
			if err != nil {
				return err
			}
			reg := eng.Registry()

			out := optionsOutput{
				Regions:          engine.RegionOptions(reg),
				HazardCategories: engine.HazardCategoryOptions(reg),
				HazardTypes:      make(map[domain.HazardCategory][]domain.HazardType),
				ChoroplethModes:  []domain.ChoroplethMode{domain.ChoroplethDisasters, domain.ChoroplethPopulationDensity},
				ScoreModes:       []domain.ScoreMode{domain.ScoreAdaptability, domain.ScoreIndicators},
			}
			for _, cat := range out.HazardCategories {
				out.HazardTypes[cat] = eng.ResolveHazardTypes(cat)
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/couchcryptid/hazard-dashboard/internal/adapter/dataset"
	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/couchcryptid/hazard-dashboard/internal/engine"
	"github.com/spf13/cobra"
)

// phase tracks pass/fail for a validation phase. Notes are printed but do
// not fail the phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a data directory for shape and consistency problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code := runValidate(cmd.OutOrStdout(), opts); code != 0 {
				return errValidationFailed
			}
			return nil
		},
	}
}

func runValidate(w io.Writer, opts *rootOptions) int {
	fmt.Fprintln(w, "=== Hazard Dataset Validation ===")
	fmt.Fprintln(w)

	// ── Load ──
	ds, err := dataset.Load(opts.dataDir, opts.files, opts.logger(io.Discard))
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}
	reg, err := domain.NewRegistry(ds, domain.RegistryOptions{CountryRegion: domain.Region(opts.countryRegion)})
	if err != nil {
		fmt.Fprintf(w, "FATAL: %v\n", err)
		return 1
	}
	eng := engine.New(reg, engine.Options{FilterSeriesByCategory: opts.seriesFilter}, nil)

	// ── Run validation phases ──
	phases := []*phase{
		validateGeometryCoverage(reg),
		validateTimeSeriesCodes(reg),
		validateHazardHierarchy(eng),
		validateRegionPanels(eng),
	}

	// ── Report results ──
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	counts := reg.RowCounts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "Rows: %-20s %d\n", name, counts[name])
	}

	for _, p := range phases {
		if p.passed() && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Fprintf(w, "  note: %s\n", n)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// validateGeometryCoverage checks that every mapped region has a boundary.
func validateGeometryCoverage(reg *domain.Registry) *phase {
	p := &phase{name: "Region geometry coverage"}
	for _, region := range engine.RegionOptions(reg) {
		if region == reg.CountryRegion() {
			continue
		}
		if _, ok := reg.Boundary(region); !ok {
			p.errorf("region %q has disaster data but no boundary geometry", region)
		}
	}
	return p
}

// validateTimeSeriesCodes checks that every event's adm1 code names a region.
func validateTimeSeriesCodes(reg *domain.Registry) *phase {
	p := &phase{name: "Time-series region codes"}

	known := make(map[string]bool)
	for _, region := range reg.Regions() {
		known[reg.RegionCode(region)] = true
	}
	unknown := make(map[string]int)
	for _, ev := range reg.TimeSeries() {
		if !known[ev.RegionCode] {
			unknown[ev.RegionCode]++
		}
	}

	codes := make([]string, 0, len(unknown))
	for code := range unknown {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		p.errorf("%d events use adm1 code %q, which matches no region", unknown[code], code)
	}
	return p
}

// validateHazardHierarchy maps every category and hazard type.
func validateHazardHierarchy(eng *engine.Engine) *phase {
	p := &phase{name: "Hazard category and type metrics"}
	for _, cat := range engine.HazardCategoryOptions(eng.Registry()) {
		states := []domain.SelectionState{{HazardCategory: cat}}
		for _, typ := range eng.ResolveHazardTypes(cat) {
			states = append(states, domain.SelectionState{HazardCategory: cat, HazardType: typ})
		}
		for _, s := range states {
			if _, err := eng.Choropleth(s); err != nil {
				p.errorf("category %q type %q: %v", s.HazardCategory, s.HazardType, err)
			}
		}
	}
	return p
}

// validateRegionPanels derives every panel for every region in both score
// modes. Missing scores are notes; shape and integrity errors fail.
func validateRegionPanels(eng *engine.Engine) *phase {
	p := &phase{name: "Panel derivation per region"}

	regions := append([]domain.Region{""}, engine.RegionOptions(eng.Registry())...)
	for _, region := range regions {
		for _, mode := range []domain.ScoreMode{domain.ScoreAdaptability, domain.ScoreIndicators} {
			dash := eng.Derive(domain.SelectionState{Region: region, ScoreMode: mode})
			for _, panel := range engine.Panels {
				perr, ok := dash.Errors[panel]
				if !ok {
					continue
				}
				label := string(region)
				if label == "" {
					label = "(all regions)"
				}
				if perr.Kind == engine.ErrKindLookupNotFound {
					p.notef("%s %s: %s", label, panel, perr.Message)
					continue
				}
				p.errorf("%s %s [%s]: %s", label, panel, perr.Kind, perr.Message)
			}
		}
	}
	return p
}

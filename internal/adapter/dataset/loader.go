package dataset

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-dashboard/internal/config"
	"github.com/couchcryptid/hazard-dashboard/internal/domain"
)

// Files names each dataset file relative to the data directory.
type Files struct {
	Disasters         string
	PopulationDensity string
	Scores            string
	TimeSeries        string
	Beneficiaries     string
	HazardTypeCounts  string
	Boundaries        string
}

// DefaultFiles are the file names of the published dashboard data.
func DefaultFiles() Files {
	return Files{
		Disasters:         "data101_disasters.csv",
		PopulationDensity: "data101_pop_density.csv",
		Scores:            "data101_adaptability_score.csv",
		TimeSeries:        "data101_timeseries.csv",
		Beneficiaries:     "data101_beneficiaries_df.csv",
		HazardTypeCounts:  "data101_disaster_by_haztype.csv",
		Boundaries:        "DATA101_MAP_DATA.geojson",
	}
}

// FilesFrom takes the dataset file names from the service configuration.
func FilesFrom(cfg *config.Config) Files {
	return Files{
		Disasters:         cfg.DisastersFile,
		PopulationDensity: cfg.PopulationDensityFile,
		Scores:            cfg.ScoresFile,
		TimeSeries:        cfg.TimeSeriesFile,
		Beneficiaries:     cfg.BeneficiariesFile,
		HazardTypeCounts:  cfg.HazardTypeCountsFile,
		Boundaries:        cfg.BoundaryFile,
	}
}

// eventDateLayouts are tried in order for "Date of Event (start)".
var eventDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"2-Jan-06",
	"02-Jan-2006",
}

// Load reads every dataset under dir. Missing files, missing columns and
// unparseable cells are returned as errors; nothing is defaulted.
func Load(dir string, files Files, logger *slog.Logger) (domain.Datasets, error) {
	var ds domain.Datasets
	path := func(name string) string { return filepath.Join(dir, name) }

	steps := []struct {
		name string
		load func() error
	}{
		{"disasters", func() (err error) {
			ds.Disasters, err = loadMetricTable(path(files.Disasters))
			return err
		}},
		{"population_density", func() (err error) {
			ds.PopulationDensity, err = loadMetricTable(path(files.PopulationDensity))
			return err
		}},
		{"scores", func() (err error) {
			ds.Scores, err = loadScores(path(files.Scores))
			return err
		}},
		{"time_series", func() (err error) {
			ds.TimeSeries, err = loadTimeSeries(path(files.TimeSeries))
			return err
		}},
		{"beneficiaries", func() (err error) {
			ds.Beneficiaries, err = loadBeneficiaries(path(files.Beneficiaries))
			return err
		}},
		{"hazard_type_counts", func() (err error) {
			ds.HazardTypeCounts, err = loadHazardTypeCounts(path(files.HazardTypeCounts))
			return err
		}},
		{"boundaries", func() (err error) {
			ds.Boundaries, err = ReadBoundaries(path(files.Boundaries))
			return err
		}},
	}

	for _, s := range steps {
		start := time.Now()
		if err := s.load(); err != nil {
			return domain.Datasets{}, fmt.Errorf("load %s: %w", s.name, err)
		}
		logger.Debug("dataset loaded", "dataset", s.name, "duration", time.Since(start))
	}
	return ds, nil
}

// loadMetricTable reads a Region-keyed table. Every other column whose
// non-empty cells are all numeric becomes a metric; text columns such as
// codes or labels are skipped. A blank metric cell leaves that metric out of
// the region's values.
func loadMetricTable(path string) (domain.MetricTable, error) {
	t, err := ReadTable(path)
	if err != nil {
		return domain.MetricTable{}, err
	}
	idx, err := t.Require(domain.ColRegion)
	if err != nil {
		return domain.MetricTable{}, err
	}
	regionCol := idx[0]

	var metricCols []int
	for col := range t.Headers {
		if col != regionCol && t.numericColumn(col) {
			metricCols = append(metricCols, col)
		}
	}

	out := domain.MetricTable{Rows: make([]domain.MetricRow, 0, len(t.Rows))}
	for _, col := range metricCols {
		out.Columns = append(out.Columns, t.Headers[col])
	}
	for _, row := range t.Rows {
		mr := domain.MetricRow{
			Region: domain.Region(t.Cell(row, regionCol)),
			Values: make(map[string]float64, len(metricCols)),
		}
		for _, col := range metricCols {
			if t.Cell(row, col) == "" {
				continue
			}
			v, _ := t.Float(row, col) // numericColumn already vetted every cell
			mr.Values[t.Headers[col]] = v
		}
		out.Rows = append(out.Rows, mr)
	}
	return out, nil
}

// numericColumn reports whether col has at least one value and every
// non-blank cell parses as a number.
func (t *Table) numericColumn(col int) bool {
	seen := false
	for _, row := range t.Rows {
		if t.Cell(row, col) == "" {
			continue
		}
		if _, err := t.Float(row, col); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func loadScores(path string) ([]domain.ScoreRow, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx, err := t.Require(domain.ColRegion, domain.ColScoreType, domain.ColScore)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ScoreRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		score, err := t.Float(row, idx[2])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ScoreRow{
			Region:    domain.Region(t.Cell(row, idx[0])),
			ScoreType: t.Cell(row, idx[1]),
			Score:     score,
		})
	}
	return out, nil
}

func loadTimeSeries(path string) ([]domain.TimeSeriesEvent, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx, err := t.Require(domain.ColRegionCode, domain.ColEventStart, domain.ColHazardType, domain.ColHazardCategory)
	if err != nil {
		return nil, err
	}

	out := make([]domain.TimeSeriesEvent, 0, len(t.Rows))
	for i, row := range t.Rows {
		start, err := parseEventDate(t.Cell(row, idx[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %v", domain.ErrDataShape, t.Name, i+2, err)
		}
		out = append(out, domain.TimeSeriesEvent{
			RegionCode:     t.Cell(row, idx[0]),
			EventStart:     start,
			HazardType:     domain.HazardType(t.Cell(row, idx[2])),
			HazardCategory: domain.HazardCategory(t.Cell(row, idx[3])),
		})
	}
	return out, nil
}

func parseEventDate(s string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized event date %q", s)
}

func loadBeneficiaries(path string) ([]domain.BeneficiaryRow, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx, err := t.Require(domain.ColRegion, domain.ColIncomeClassification, domain.ColPercentage)
	if err != nil {
		return nil, err
	}

	out := make([]domain.BeneficiaryRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		pct, err := t.Float(row, idx[2])
		if err != nil {
			return nil, err
		}
		out = append(out, domain.BeneficiaryRow{
			Region:               domain.Region(t.Cell(row, idx[0])),
			IncomeClassification: t.Cell(row, idx[1]),
			Percentage:           pct,
		})
	}
	return out, nil
}

func loadHazardTypeCounts(path string) ([]domain.HazTypeCountRow, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	idx, err := t.Require(domain.ColRegion, domain.ColHazardType, domain.ColCount)
	if err != nil {
		return nil, err
	}

	out := make([]domain.HazTypeCountRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		n, err := t.Float(row, idx[2])
		if err != nil {
			return nil, err
		}
		if n < 0 || n != math.Trunc(n) {
			return nil, fmt.Errorf("%w: %s: count %q is not a whole number",
				domain.ErrDataShape, t.Name, strings.TrimSpace(t.Cell(row, idx[2])))
		}
		out = append(out, domain.HazTypeCountRow{
			Region:     domain.Region(t.Cell(row, idx[0])),
			HazardType: domain.HazardType(t.Cell(row, idx[1])),
			Count:      int(n),
		})
	}
	return out, nil
}

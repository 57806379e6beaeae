package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/hazard-dashboard/internal/domain"
	"github.com/paulmach/orb/geojson"
)

// regionCodeProperties are the feature properties checked, in order, for a
// region's adm1 code.
var regionCodeProperties = []string{domain.ColRegionCode, "adm1_code", "ADM1_PCODE"}

// ReadBoundaries reads a GeoJSON FeatureCollection keyed by properties.Region.
func ReadBoundaries(path string) ([]domain.RegionBoundary, error) {
	name := filepath.Base(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a GeoJSON feature collection: %v", domain.ErrDataShape, name, err)
	}

	out := make([]domain.RegionBoundary, 0, len(fc.Features))
	for i, f := range fc.Features {
		region := f.Properties.MustString(domain.ColRegion, "")
		if region == "" {
			return nil, fmt.Errorf("%w: %s feature %d has no %q property", domain.ErrDataShape, name, i, domain.ColRegion)
		}
		b := domain.RegionBoundary{Region: domain.Region(region), Geometry: f.Geometry}
		for _, key := range regionCodeProperties {
			if code := f.Properties.MustString(key, ""); code != "" {
				b.Code = code
				break
			}
		}
		out = append(out, b)
	}
	return out, nil
}

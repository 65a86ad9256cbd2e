package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/edigeo-cadastre/cadastre-ingest/internal/edigeo"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/geojson"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/reproject"
	"github.com/edigeo-cadastre/cadastre-ingest/internal/topology"
)

// ExportOptions carries the export subcommand's flags.
type ExportOptions struct {
	RootPath string
	Output   string
	SRID     int
}

// Export walks every archive under opts.RootPath, reprojects each built
// feature to opts.SRID and writes one GeoJSON FeatureCollection per feature
// class into opts.Output. Unlike Run, it bypasses the store entirely: no
// checksums, no dedup, no merge, just a flat point-in-time dump. A single
// archive's failure is logged and skipped without flipping the exit code.
func Export(opts ExportOptions) (*Summary, error) {
	archives, err := DiscoverArchives(opts.RootPath)
	if err != nil {
		return nil, err
	}

	precision := reproject.DefaultPrecision(opts.SRID)
	collections := make(map[string]*geojson.FeatureCollection)
	summary := &Summary{ArchivesTotal: int64(len(archives))}

	for _, path := range archives {
		if err := exportArchive(path, opts.SRID, precision, collections, summary); err != nil {
			log.Error().Err(err).Str("archive", path).Msg("exporting archive")
			summary.ParseErrors.Add(1)
			continue
		}
		summary.Processed.Add(1)
	}

	for class, fc := range collections {
		outPath := filepath.Join(opts.Output, class+".geojson")
		if err := fc.WriteFile(outPath); err != nil {
			return summary, fmt.Errorf("writing %s: %w", class, err)
		}
		log.Info().Str("class", class).Int("features", len(fc.Features)).Str("path", outPath).Msg("wrote feature collection")
	}

	return summary, nil
}

func exportArchive(path string, srid, precision int, collections map[string]*geojson.FeatureCollection, summary *Summary) error {
	archive, err := edigeo.OpenArchive(path)
	if err != nil {
		return err
	}
	decoded, err := edigeo.Decode(archive)
	if err != nil {
		return err
	}
	summary.ParseErrors.Add(int64(len(decoded.Errors)))

	projector, err := reproject.NewProjector(decoded.Projection.EPSG, srid)
	if err != nil {
		return fmt.Errorf("building projector: %w", err)
	}

	for _, pv := range decoded.Vecs {
		feats, errs := topology.BuildFeatures(pv, decoded.Quality)
		summary.ParseErrors.Add(int64(len(errs)))
		for _, feat := range feats {
			projected, err := reprojectGeometry(feat.Geometry, projector, precision)
			if err != nil {
				summary.InvalidGeometries.Add(1)
				continue
			}
			fc, ok := collections[feat.Class]
			if !ok {
				fc = geojson.NewFeatureCollection(srid)
				collections[feat.Class] = fc
			}
			if err := fc.AddFeature(feat.ID, projected, feat.Properties); err != nil {
				summary.InvalidGeometries.Add(1)
			}
		}
	}
	return nil
}

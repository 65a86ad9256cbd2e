package reproject

import "fmt"

// Projector converts one projected coordinate to the target CRS. The three
// variants (Identity, Pure, External) replace what was originally a
// feature-flag-conditional branch with constructor-selected polymorphism.
type Projector interface {
	Project(x, y float64) (float64, float64, error)
}

// IdentityProjector is selected whenever the source and target CRS match;
// it passes coordinates through unchanged.
type IdentityProjector struct{}

func (IdentityProjector) Project(x, y float64) (float64, float64, error) {
	return x, y, nil
}

// PureProjector reprojects via the in-repo Lambert-93/UTM inverse formulae
// followed by a forward step into the target CRS (WGS84 geographic degrees
// or Web Mercator metres).
type PureProjector struct {
	inverse    func(x, y float64) (lon, lat float64, err error)
	targetSRID int
}

// NewPureProjector resolves the source EPSG code to an inverse formula and
// binds it to the requested target SRID.
func NewPureProjector(sourceEPSG, targetSRID int) (*PureProjector, error) {
	inv, err := inverseFor(sourceEPSG)
	if err != nil {
		return nil, err
	}
	switch targetSRID {
	case 4326, 3857:
	default:
		return nil, fmt.Errorf("unsupported target SRID %d for pure projector", targetSRID)
	}
	return &PureProjector{inverse: inv, targetSRID: targetSRID}, nil
}

func (p *PureProjector) Project(x, y float64) (float64, float64, error) {
	lon, lat, err := p.inverse(x, y)
	if err != nil {
		return 0, 0, err
	}
	switch p.targetSRID {
	case 4326:
		ox, oy := geographicToLonLatDegrees(lon, lat)
		return ox, oy, nil
	case 3857:
		ox, oy := geographicToWebMercator(lon, lat)
		return ox, oy, nil
	default:
		return 0, 0, fmt.Errorf("unsupported target SRID %d for pure projector", p.targetSRID)
	}
}

// inverseFor maps a recognized EDIGEO source EPSG code to its inverse
// projection formula. The nine RGF93 CC zones share Lambert-93's
// conformal-conic family; this pipeline does not special-case each zone's
// distinct standard parallels and falls back to the Lambert-93 parameters,
// which is accurate near the national grid's own zone and degrades further
// from it. French cadastral archives overwhelmingly carry LAMB93 rather
// than the CC variants.
func inverseFor(epsg int) (func(x, y float64) (float64, float64, error), error) {
	switch epsg {
	case 2154:
		return NewLambert93().Inverse, nil
	case 3942, 3943, 3944, 3945, 3946, 3947, 3948, 3949, 3950:
		return NewLambert93().Inverse, nil
	case 2970, 2973: // Guadeloupe / Martinique, UTM zone 20N
		return NewUTM(20, false).Inverse, nil
	case 2972: // Guyane, UTM zone 22N
		return NewUTM(22, false).Inverse, nil
	case 2975: // Réunion, UTM zone 40S
		return NewUTM(40, true).Inverse, nil
	case 4471: // Mayotte, UTM zone 38S
		return NewUTM(38, true).Inverse, nil
	default:
		return nil, fmt.Errorf("no pure reprojection formula registered for EPSG:%d", epsg)
	}
}

// ExternalProjector is the seam for arbitrary source/target pairs via an
// external projection library. No concrete implementation ships in this
// build; the constructor always fails rather than silently falling back to
// an approximation.
type ExternalProjector struct{}

func NewExternalProjector(sourceEPSG, targetSRID int) (*ExternalProjector, error) {
	return nil, fmt.Errorf("external reprojection (EPSG:%d -> SRID:%d) is not available in this build", sourceEPSG, targetSRID)
}

// NewProjector selects Identity when source and target coincide, otherwise
// Pure; callers that need an arbitrary pair outside the pure formula table
// should construct an ExternalProjector directly and handle its error.
func NewProjector(sourceEPSG, targetSRID int) (Projector, error) {
	if sourceEPSG == targetSRID {
		return IdentityProjector{}, nil
	}
	return NewPureProjector(sourceEPSG, targetSRID)
}

package edigeo

// DecodeResult is the fully decoded content of one archive: header
// metadata plus one ParsedVec per VEC file. Parse-level errors are
// collected rather than raised, per the per-record failure mode; only a
// missing required file or an unrecognized projection fails the whole
// archive.
type DecodeResult struct {
	EncodingCode string
	Year         int
	Projection   Projection
	Quality      map[string]Quality
	Vecs         []*ParsedVec
	Errors       []error
}

// Decode parses THF, GEO, QAL and every VEC file of an already-opened
// archive. A whole-archive failure is returned only for an unrecognized
// GEO projection; every other malformed record is collected into
// DecodeResult.Errors and otherwise skipped.
func Decode(a *Archive) (*DecodeResult, error) {
	encCode, enc := ParseEncoding(a.THF)
	year := ParseYear(a.THF)

	proj, err := ParseProjection(a.GEO)
	if err != nil {
		return nil, err
	}

	quality := ParseQAL(a.QAL, enc)

	vecs := make([]*ParsedVec, 0, len(a.VEC))
	var errs []error
	for _, raw := range a.VEC {
		pv, verrs := ParseVEC(raw, enc)
		vecs = append(vecs, pv)
		errs = append(errs, verrs...)
	}

	return &DecodeResult{
		EncodingCode: encCode,
		Year:         year,
		Projection:   proj,
		Quality:      quality,
		Vecs:         vecs,
		Errors:       errs,
	}, nil
}

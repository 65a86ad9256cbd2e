package edigeo

import "strings"

// Projection is a recognized EDIGEO source coordinate reference system: its
// EDIGEO name and EPSG identifier.
type Projection struct {
	Name string
	EPSG int
}

// projections is the recognized EDIGEO projection table. Names are the
// RELSA codes cadastral archives actually carry; EPSG codes are the
// corresponding official registrations (RGF93 Lambert-93/CC zones and the
// French overseas department systems).
var projections = []Projection{
	{Name: "LAMB93", EPSG: 2154},
	{Name: "RGF93CC42", EPSG: 3942},
	{Name: "RGF93CC43", EPSG: 3943},
	{Name: "RGF93CC44", EPSG: 3944},
	{Name: "RGF93CC45", EPSG: 3945},
	{Name: "RGF93CC46", EPSG: 3946},
	{Name: "RGF93CC47", EPSG: 3947},
	{Name: "RGF93CC48", EPSG: 3948},
	{Name: "RGF93CC49", EPSG: 3949},
	{Name: "RGF93CC50", EPSG: 3950},
	{Name: "GUAD48UTM20", EPSG: 2970},
	{Name: "MART38UTM20", EPSG: 2973},
	{Name: "RGFG95UTM22", EPSG: 2972},
	{Name: "RGR92UTM", EPSG: 2975},
	{Name: "RGM04", EPSG: 4471},
}

// ParseProjection scans a GEO payload for a "RELSA…:<code>" line and
// resolves the code against the recognized projection table
// case-insensitively. It first looks for a line whose family is RELSA,
// falling back to a full-line scan for any line whose payload matches a
// known projection name.
func ParseProjection(geo []byte) (Projection, error) {
	text := string(geo)

	if code := findFieldValue(text, "RELSA"); code != "" {
		if p, ok := lookupProjection(code); ok {
			return p, nil
		}
		return Projection{}, &UnknownProjectionErr{Name: code}
	}

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(strings.TrimRight(raw, "\r"))
		idx := strings.IndexByte(raw, ':')
		candidate := raw
		if idx >= 0 {
			candidate = raw[idx+1:]
		}
		candidate = strings.TrimSuffix(strings.TrimSpace(candidate), ";")
		if p, ok := lookupProjection(candidate); ok {
			return p, nil
		}
	}

	return Projection{}, &UnknownProjectionErr{Name: strings.TrimSpace(text)}
}

func lookupProjection(code string) (Projection, bool) {
	code = strings.TrimSpace(code)
	for _, p := range projections {
		if strings.EqualFold(p.Name, code) {
			return p, true
		}
	}
	return Projection{}, false
}

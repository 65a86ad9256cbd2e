package edigeo

import (
	"strconv"
	"strings"
)

// recordSentinel marks the start of a logical record within a THF/GEO/QAL/
// VEC payload.
const recordSentinel = "RTYSA03:"

// line is one family-keyed line inside a record, already split at its ':'.
type line struct {
	Code    string // e.g. "RIDSA", "SCP", "ATP1"
	Payload string // text after ':'
}

// family returns the 3-letter family a line's code belongs to (RID, SCP,
// COR, ATP, TEX, ATV, QAP, FTP, ODA, UDA, UTY, …); further qualifier
// letters after the family are ignored for dispatch purposes.
func (l line) family() string {
	if len(l.Code) >= 3 {
		return l.Code[:3]
	}
	return l.Code
}

// value returns the line's payload with any trailing orphan ';' stripped.
func (l line) value() string {
	return strings.TrimSuffix(strings.TrimSpace(l.Payload), ";")
}

// record is one decoded logical record: a 3-letter type code plus its
// family-keyed lines.
type record struct {
	Type  string
	Lines []line
}

func (r record) field(family string) string {
	for _, l := range r.Lines {
		if l.family() == family {
			return l.value()
		}
	}
	return ""
}

// splitRecords splits a decoded text payload on the record sentinel into
// individual records, each keyed by its 3-letter type code.
func splitRecords(text string) []record {
	parts := strings.Split(text, recordSentinel)
	records := make([]record, 0, len(parts))
	for _, p := range parts[1:] {
		if len(p) < 3 {
			continue
		}
		typ := strings.TrimSpace(p[:3])
		records = append(records, record{Type: typ, Lines: splitLines(p[3:])})
	}
	return records
}

func splitLines(body string) []line {
	rawLines := strings.Split(body, "\n")
	lines := make([]line, 0, len(rawLines))
	for _, raw := range rawLines {
		raw = strings.TrimRight(raw, "\r")
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		idx := strings.IndexByte(raw, ':')
		if idx < 0 {
			continue
		}
		lines = append(lines, line{Code: strings.TrimSpace(raw[:idx]), Payload: raw[idx+1:]})
	}
	return lines
}

// parseEdigeoNumber parses an EDIGEO-flavored numeric token: optional
// leading '+', optional trailing '.', no locale comma.
func parseEdigeoNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

// ParseNumber exposes the EDIGEO-flavored numeric token grammar (optional
// leading '+', optional trailing '.', no locale comma) to callers outside
// this package; the row encoder uses it to normalize attribute text into
// integral or floating SQL literals.
func ParseNumber(s string) (float64, error) {
	return parseEdigeoNumber(s)
}

// parseCoordPair parses one COR line's payload ("+X;+Y;") into a single
// 2D coordinate: X runs to the first ';', Y to the next ';' or the end of
// the line. A record carrying several vertices repeats the COR line, one
// vertex per line.
func parseCoordPair(payload string) ([2]float64, error) {
	payload = strings.TrimSpace(payload)
	idx := strings.IndexByte(payload, ';')
	if idx < 0 {
		return [2]float64{}, strconv.ErrSyntax
	}
	x, err := parseEdigeoNumber(payload[:idx])
	if err != nil {
		return [2]float64{}, err
	}
	rest := payload[idx+1:]
	if end := strings.IndexByte(rest, ';'); end >= 0 {
		rest = rest[:end]
	}
	y, err := parseEdigeoNumber(rest)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{x, y}, nil
}

// Reference is a class cross-reference: a four-field SID/GID/RTY/RID
// pointer found on SCP, ATP and FTP lines.
type Reference struct {
	SID string
	GID string
	RTY string
	RID string
}

func parseReference(payload string) Reference {
	payload = strings.TrimSuffix(strings.TrimSpace(payload), ";")
	parts := strings.Split(payload, ";")
	get := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}
	return Reference{SID: get(0), GID: get(1), RTY: get(2), RID: get(3)}
}

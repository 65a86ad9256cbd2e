package edigeo

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
)

const defaultVintageYear = 2020

// ParseEncoding reads the THF CSET field and resolves it to a text
// encoding via csetToEncoding.
func ParseEncoding(thf []byte) (string, encoding.Encoding) {
	code := findFieldValue(string(thf), "CSET")
	return code, csetToEncoding(code)
}

// ParseYear reads the THF TDASD field and returns the first four
// characters as the vintage year, defaulting to 2020 when absent or
// unparsable.
func ParseYear(thf []byte) int {
	tdasd := findFieldValue(string(thf), "TDASD")
	if len(tdasd) < 4 {
		return defaultVintageYear
	}
	y, err := strconv.Atoi(tdasd[:4])
	if err != nil {
		return defaultVintageYear
	}
	return y
}

// findFieldValue scans raw (not record-sentinel-delimited) text for the
// first line whose code starts with family (e.g. "CSET", "TDASD",
// "RELSA"), used for THF/GEO header
// lookups that live outside a RTYSA03 record block.
func findFieldValue(text, family string) string {
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		raw = strings.TrimSpace(raw)
		idx := strings.IndexByte(raw, ':')
		if idx < 0 {
			continue
		}
		code := strings.TrimSpace(raw[:idx])
		if len(code) >= len(family) && code[:len(family)] == family {
			return strings.TrimSuffix(raw[idx+1:], ";")
		}
	}
	return ""
}

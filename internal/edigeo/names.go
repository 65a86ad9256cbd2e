package edigeo

import "strings"

// Name strips the container suffix from an archive path in precedence
// order: .tar.bz2, then .tar, then .bz2.
func Name(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	switch {
	case strings.HasSuffix(base, ".tar.bz2"):
		return strings.TrimSuffix(base, ".tar.bz2")
	case strings.HasSuffix(base, ".tar"):
		return strings.TrimSuffix(base, ".tar")
	case strings.HasSuffix(base, ".bz2"):
		return strings.TrimSuffix(base, ".bz2")
	default:
		return base
	}
}

// ExtractDepartement recovers the departement code from an archive's
// filename. It first looks for the literal marker "EDIGEO-" and reads the
// two characters following it; failing that, it falls back to the first
// "-" in the name. Either path recognizes digit pairs and the Corsican
// codes 2A/2B.
func ExtractDepartement(path string) (string, bool) {
	base := Name(path)
	upper := strings.ToUpper(base)

	if i := strings.Index(upper, "EDIGEO-"); i >= 0 {
		start := i + len("EDIGEO-")
		if code, ok := take2(upper, start); ok {
			return code, true
		}
	}
	if i := strings.IndexByte(upper, '-'); i >= 0 {
		if code, ok := take2(upper, i+1); ok {
			return code, true
		}
	}
	return "", false
}

func take2(s string, start int) (string, bool) {
	if start+2 > len(s) {
		return "", false
	}
	code := s[start : start+2]
	if code == "2A" || code == "2B" {
		return code, true
	}
	if isDigit(code[0]) && isDigit(code[1]) {
		return code, true
	}
	return "", false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

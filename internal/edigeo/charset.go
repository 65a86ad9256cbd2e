package edigeo

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// csetToEncoding maps a THF CSET code to a Go text encoding. IRV,
// 646-FRANCE and 8859-1 all decode as Latin-9 (ISO-8859-15, which is what
// French cadastral data actually uses under the 8859-1 label); 8859-2
// through 8859-9 map to their respective ISO-8859 code page; 8859-15 maps
// explicitly to Latin-9; anything unrecognized falls back to Latin-9 rather
// than failing the archive.
func csetToEncoding(code string) encoding.Encoding {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "IRV", "646-FRANCE", "8859-1":
		return charmap.ISO8859_15
	case "8859-2":
		return charmap.ISO8859_2
	case "8859-3":
		return charmap.ISO8859_3
	case "8859-4":
		return charmap.ISO8859_4
	case "8859-5":
		return charmap.ISO8859_5
	case "8859-6":
		return charmap.ISO8859_6
	case "8859-7":
		return charmap.ISO8859_7
	case "8859-8":
		return charmap.ISO8859_8
	case "8859-9":
		return charmap.ISO8859_9
	case "8859-15":
		return charmap.ISO8859_15
	default:
		return charmap.ISO8859_15
	}
}

// decodeText decodes raw EDIGEO bytes into UTF-8 text using enc. If the
// decoder reports an error, the raw bytes are returned unchanged rather
// than failing the whole file.
func decodeText(data []byte, enc encoding.Encoding) string {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil || out == nil {
		return string(data)
	}
	return string(out)
}

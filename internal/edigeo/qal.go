package edigeo

import "golang.org/x/text/encoding"

// Quality is the per-object lineage recorded against a QUP block: creation
// date, last update date, and the kind of update, all left as raw EDIGEO
// date text.
type Quality struct {
	CreateDate string
	UpdateDate string
	UpdateType string
}

// ParseQAL decodes a QAL payload into a quality-id → Quality map. Only
// blocks of type QUP are kept; any other record type present in the QAL
// file is ignored. An empty or absent QAL yields an empty map.
func ParseQAL(qal []byte, enc encoding.Encoding) map[string]Quality {
	result := make(map[string]Quality)
	if len(qal) == 0 {
		return result
	}
	text := decodeText(qal, enc)
	for _, rec := range splitRecords(text) {
		if rec.Type != "QUP" {
			continue
		}
		rid := rec.field("RID")
		if rid == "" {
			continue
		}
		result[rid] = Quality{
			CreateDate: rec.field("ODA"),
			UpdateDate: rec.field("UDA"),
			UpdateType: rec.field("UTY"),
		}
	}
	return result
}

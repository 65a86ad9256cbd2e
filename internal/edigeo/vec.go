package edigeo

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
)

// Point is a decoded PNO record: a node with zero or more coordinates and
// a class reference.
type Point struct {
	ID     string
	Coords [][2]float64
	Class  Reference
}

// Arc is a decoded PAR record: an ordered polyline plus a class reference.
type Arc struct {
	ID     string
	Coords [][2]float64
	Class  Reference
}

// Face is a decoded PFE record: a class reference plus the ordered set of
// arc ids bounding it, populated post-pass by resolving RCO_FAC links.
type Face struct {
	ID    string
	Class Reference
	Arcs  []string
}

// Feature is a decoded FEA record: a class reference, its textual
// attributes, and an optional quality reference into the QAL map.
type Feature struct {
	ID         string
	Class      Reference
	Attributes map[string]string
	Quality    string
}

// Link is a decoded LNK record: a class reference plus the list of
// references it relates.
type Link struct {
	ID    string
	Class Reference
	Refs  []Reference
}

// ParsedVec is one VEC file's decoded record set.
type ParsedVec struct {
	PNO map[string]*Point
	PAR map[string]*Arc
	PFE map[string]*Face
	FEA map[string]*Feature
	LNK map[string]*Link
}

// ParseVEC decodes a single VEC payload. Malformed records are dropped and
// returned as non-fatal errors; the rest of the file continues to decode.
func ParseVEC(vec []byte, enc encoding.Encoding) (*ParsedVec, []error) {
	pv := &ParsedVec{
		PNO: make(map[string]*Point),
		PAR: make(map[string]*Arc),
		PFE: make(map[string]*Face),
		FEA: make(map[string]*Feature),
		LNK: make(map[string]*Link),
	}
	var errs []error

	text := decodeText(vec, enc)
	for _, rec := range splitRecords(text) {
		id := rec.field("RID")
		switch rec.Type {
		case "PNO":
			p, err := parsePoint(id, rec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			pv.PNO[p.ID] = p
		case "PAR":
			a, err := parseArc(id, rec)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			pv.PAR[a.ID] = a
		case "PFE":
			pv.PFE[id] = &Face{ID: id, Class: parseReference(rec.field("SCP"))}
		case "FEA":
			pv.FEA[id] = parseFeature(id, rec)
		case "LNK":
			pv.LNK[id] = parseLink(id, rec)
		default:
			// Unrecognized record type: not a failure, just not modeled.
		}
	}

	associateArcsToFaces(pv)
	return pv, errs
}

// parsePoint accumulates a PNO record's vertices across its repeated COR
// lines, one coordinate per line.
func parsePoint(id string, rec record) (*Point, error) {
	p := &Point{ID: id}
	for _, l := range rec.Lines {
		switch l.family() {
		case "SCP":
			p.Class = parseReference(l.value())
		case "COR":
			c, err := parseCoordPair(l.Payload)
			if err != nil {
				return nil, &ParseErr{File: "VEC", Reason: fmt.Sprintf("PNO %s: %v", id, err)}
			}
			p.Coords = append(p.Coords, c)
		}
	}
	return p, nil
}

// parseArc accumulates a PAR record's polyline the same way: each COR line
// contributes exactly one vertex, in encounter order.
func parseArc(id string, rec record) (*Arc, error) {
	a := &Arc{ID: id}
	for _, l := range rec.Lines {
		switch l.family() {
		case "SCP":
			a.Class = parseReference(l.value())
		case "COR":
			c, err := parseCoordPair(l.Payload)
			if err != nil {
				return nil, &ParseErr{File: "VEC", Reason: fmt.Sprintf("PAR %s: %v", id, err)}
			}
			a.Coords = append(a.Coords, c)
		}
	}
	return a, nil
}

// parseFeature runs the FEA attribute state machine: an ATP line names the
// next attribute (its class reference RID, with a trailing "_id" dropped);
// an optional TEX line is ignored but keeps the pending name; the ATV line
// that follows supplies the value and clears the pending name.
func parseFeature(id string, rec record) *Feature {
	f := &Feature{ID: id, Attributes: make(map[string]string)}
	var pending string

	for _, l := range rec.Lines {
		switch l.family() {
		case "SCP":
			f.Class = parseReference(l.value())
		case "ATP":
			ref := parseReference(l.value())
			pending = strings.TrimSuffix(ref.RID, "_id")
		case "TEX":
			// Preserves the pending attribute name; carries no value itself.
		case "ATV":
			if pending != "" {
				f.Attributes[pending] = l.value()
				pending = ""
			}
		case "QAP":
			f.Quality = l.value()
		}
	}
	return f
}

func parseLink(id string, rec record) *Link {
	l := &Link{ID: id}
	for _, ln := range rec.Lines {
		switch ln.family() {
		case "SCP":
			l.Class = parseReference(ln.value())
		case "FTP":
			l.Refs = append(l.Refs, parseReference(ln.value()))
		}
	}
	return l
}

// associateArcsToFaces resolves RCO_FAC links: a link whose class RID
// contains RCO_FAC binds the PAR reference to the PFE reference found
// among its own refs, appending the arc id to the face's arc list.
func associateArcsToFaces(pv *ParsedVec) {
	for _, l := range pv.LNK {
		if !strings.Contains(l.Class.RID, "RCO_FAC") {
			continue
		}
		var parID, pfeID string
		for _, ref := range l.Refs {
			switch ref.RTY {
			case "PAR":
				parID = ref.RID
			case "PFE":
				pfeID = ref.RID
			}
		}
		if parID == "" || pfeID == "" {
			continue
		}
		if face, ok := pv.PFE[pfeID]; ok {
			face.Arcs = append(face.Arcs, parID)
		}
	}
}

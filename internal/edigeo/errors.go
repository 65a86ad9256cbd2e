package edigeo

import "fmt"

// IoErr wraps a filesystem or stream I/O failure encountered while reading
// an archive.
type IoErr struct {
	Path string
	Err  error
}

func (e *IoErr) Error() string {
	return fmt.Sprintf("io error reading %s: %v", e.Path, e.Err)
}

func (e *IoErr) Unwrap() error { return e.Err }

// InvalidArchiveErr signals a container that could not be opened as a
// bzip2-compressed tar stream.
type InvalidArchiveErr struct {
	Path   string
	Reason string
}

func (e *InvalidArchiveErr) Error() string {
	return fmt.Sprintf("invalid archive %s: %s", e.Path, e.Reason)
}

// MissingFileErr signals that a required logical file (THF, GEO or VEC) was
// absent from the archive.
type MissingFileErr struct {
	Archive string
	Kind    string
}

func (e *MissingFileErr) Error() string {
	return fmt.Sprintf("archive %s is missing required .%s file", e.Archive, e.Kind)
}

// ParseErr is a per-record or per-file decode failure.
type ParseErr struct {
	File   string
	Reason string
}

func (e *ParseErr) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.File, e.Reason)
}

// InvalidGeometryErr signals a feature whose reconstructed geometry fails
// the ingest precondition or could not be built at all.
type InvalidGeometryErr struct {
	ID     string
	Reason string
}

func (e *InvalidGeometryErr) Error() string {
	return fmt.Sprintf("invalid geometry for feature %s: %s", e.ID, e.Reason)
}

// UnsupportedEncodingErr signals a THF CSET code with no known charset
// mapping (currently unreachable: csetToEncoding always resolves to a
// fallback, but kept as a distinct kind per the error taxonomy).
type UnsupportedEncodingErr struct {
	Code string
}

func (e *UnsupportedEncodingErr) Error() string {
	return fmt.Sprintf("unsupported character set code %q", e.Code)
}

// UnknownProjectionErr signals a GEO RELSA projection name with no entry in
// the recognized projection table.
type UnknownProjectionErr struct {
	Name string
}

func (e *UnknownProjectionErr) Error() string {
	return fmt.Sprintf("unknown projection %q", e.Name)
}

// RepairFailedErr signals that ring reconstruction and the convex-hull
// fallback both failed to produce a geometry for a feature.
type RepairFailedErr struct {
	ID     string
	Reason string
}

func (e *RepairFailedErr) Error() string {
	return fmt.Sprintf("could not repair geometry for feature %s: %s", e.ID, e.Reason)
}

// Package edigeo decodes EDIGEO cadastral archives (AFNOR NF Z 52000): the
// tar.bz2 container, the THF/GEO/QAL header files, and the VEC topology and
// feature payload.
package edigeo

import (
	"archive/tar"
	"compress/bzip2"
	"crypto/sha256"
	"io"
	"os"
	"strings"
)

// Archive holds the raw bytes of the logical files extracted from one
// EDIGEO tar.bz2 container: exactly one THF and one GEO, an optional QAL,
// and one or more VEC payloads.
type Archive struct {
	Path string
	THF  []byte
	GEO  []byte
	QAL  []byte
	VEC  [][]byte
}

// OpenArchive extracts the logical files from path. THF, GEO and at least
// one VEC are required; QAL degrades gracefully when absent.
func OpenArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoErr{Path: path, Err: err}
	}
	defer f.Close()

	tr := tar.NewReader(bzip2.NewReader(f))
	a := &Archive{Path: path}

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &InvalidArchiveErr{Path: path, Reason: err.Error()}
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, &IoErr{Path: hdr.Name, Err: err}
		}
		switch strings.ToUpper(extOf(hdr.Name)) {
		case "THF":
			a.THF = data
		case "GEO":
			a.GEO = data
		case "QAL":
			a.QAL = data
		case "VEC":
			a.VEC = append(a.VEC, data)
		}
	}

	if a.THF == nil {
		return nil, &MissingFileErr{Archive: Name(path), Kind: "THF"}
	}
	if a.GEO == nil {
		return nil, &MissingFileErr{Archive: Name(path), Kind: "GEO"}
	}
	if len(a.VEC) == 0 {
		return nil, &MissingFileErr{Archive: Name(path), Kind: "VEC"}
	}
	return a, nil
}

func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// Checksum computes the 256-bit content checksum of the archive file at
// path, used both for the checksum registry and as the import unit of
// dedup.
func Checksum(path string) ([32]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return [32]byte{}, &IoErr{Path: path, Err: err}
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return [32]byte{}, &IoErr{Path: path, Err: err}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

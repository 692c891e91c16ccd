// Package decode implements spec §4.3's decoder contract: auto-detect
// ZIP/gzip by magic prefix and stream the decompressed member with a hard
// cap on cumulative output size, so a maliciously or accidentally huge
// archive can't exhaust memory (a decompression bomb).
package decode

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// Hint selects the decompression format; Auto detects it from the data's
// magic prefix.
type Hint int

const (
	Auto Hint = iota
	Zip
	Gzip
)

var (
	zipMagic  = []byte{0x50, 0x4b, 0x03, 0x04}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Detect inspects data's magic prefix and returns Zip or Gzip.
func Detect(data []byte) (Hint, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return Zip, nil
	case bytes.HasPrefix(data, gzipMagic):
		return Gzip, nil
	default:
		return Auto, gdelterrors.New(gdelterrors.KindDecode, "unrecognized archive format (not zip or gzip)")
	}
}

// Decode returns a stream of the decompressed member of data, capped at
// sizeCap cumulative bytes. The caller must Close the returned reader.
func Decode(data []byte, hint Hint, sizeCap int64) (io.ReadCloser, error) {
	if hint == Auto {
		var err error
		hint, err = Detect(data)
		if err != nil {
			return nil, err
		}
	}
	switch hint {
	case Zip:
		return decodeZip(data, sizeCap)
	case Gzip:
		return decodeGzip(data, sizeCap)
	default:
		return nil, gdelterrors.New(gdelterrors.KindDecode, "unknown decode hint")
	}
}

func decodeZip(data []byte, sizeCap int64) (io.ReadCloser, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindDecode, "open zip archive", err)
	}
	var member *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		member = f
		break // GDELT archives contain exactly one data file
	}
	if member == nil {
		return nil, gdelterrors.New(gdelterrors.KindDecode, "zip archive has no files")
	}
	rc, err := member.Open()
	if err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindDecode, "open zip member "+member.Name, err)
	}
	return &cappedReader{r: rc, closer: rc, cap: sizeCap}, nil
}

func decodeGzip(data []byte, sizeCap int64) (io.ReadCloser, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindDecode, "open gzip stream", err)
	}
	return &cappedReader{r: gr, closer: gr, cap: sizeCap}, nil
}

// cappedReader enforces spec §4.3's "cumulative decompressed size is capped
// and checked per chunk; over-cap fails with decoded_size_exceeded", which
// §7's taxonomy classifies as security_error.
type cappedReader struct {
	r      io.Reader
	closer io.Closer
	cap    int64
	read   int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.read += int64(n)
		if c.cap > 0 && c.read > c.cap {
			return n, gdelterrors.New(gdelterrors.KindSecurity,
				fmt.Sprintf("decompressed size exceeded cap of %s", humanize.Bytes(uint64(c.cap))))
		}
	}
	return n, err
}

func (c *cappedReader) Close() error {
	return c.closer.Close()
}

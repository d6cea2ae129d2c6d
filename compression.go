package o2tprep

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType attempts to detect the data type of a stream by
// checking its leading bytes against a set of known signatures. Byte
// code signatures from https://stackoverflow.com/a/19127748/199475
func DetectDataType(r io.Reader) (DataType, error) {
	// Inputs shorter than the longest signature are fine; the
	// unfilled tail cannot match one.
	buff := make([]byte, 6)
	if _, err := io.ReadFull(r, buff); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return DataTypeInvalid, err
	}

Outer:
	for dt, sig := range byteCodeSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser sniffs the compression format of rs and
// returns a reader for the decompressed content. The stream is
// rewound before the decompressor is attached, so the decompressor
// sees the input from its first byte. Unrecognized input is assumed
// to be uncompressed and returned as-is, rewound.
func MaybeDecompressReadCloser(rs ReadSeekCloser) (io.ReadCloser, error) {
	dt, err := DetectDataType(rs)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch dt {
	case DataTypeGzip:
		return gzip.NewReader(rs)
	case DataTypeZip:
		// Archives are expected to hold a single data file; the
		// reader is positioned on the first entry.
		zr := zipstream.NewReader(rs)
		if _, err := zr.Next(); err != nil {
			return nil, err
		}
		return &readCloserFaker{zr}, nil
	case DataTypeBZip2:
		return &readCloserFaker{bzip2.NewReader(rs)}, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(rs, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case DataTypeZ:
		return zlib.NewReader(rs)
	}

	return rs, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}

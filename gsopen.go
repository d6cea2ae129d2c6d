package o2tprep

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// GSReadSeekCloser decorates a Google Storage object handle with
// io.Reader, io.Seeker, and io.Closer. Reading opens a range reader
// lazily. Derived from
// https://github.com/googleapis/google-cloud-go/issues/1124#issuecomment-419070541
type GSReadSeekCloser struct {
	*storage.ObjectHandle
	Context context.Context
	r       *storage.Reader
}

func (s *GSReadSeekCloser) Read(buf []byte) (int, error) {
	if s.r == nil {
		var err error
		s.r, err = s.NewRangeReader(s.Context, 0, -1)
		if err != nil {
			return 0, err
		}
	}

	return s.r.Read(buf)
}

// Seek supports one motion only, rewinding to the start of the
// object. The open connection is dropped and the next Read starts a
// fresh one. That is all the callers here need: reading a prefix to
// sniff the format, then rewinding to consume the whole object.
func (s *GSReadSeekCloser) Seek(offset int64, whence int) (int64, error) {
	if offset != 0 || whence != io.SeekStart {
		return 0, fmt.Errorf("google storage objects only seek back to the start")
	}

	if s.r != nil {
		s.r.Close()
		s.r = nil
	}

	return 0, nil
}

func (s *GSReadSeekCloser) Close() error {
	if s.r != nil {
		return s.r.Close()
	}

	return nil
}

// MaybeOpenSeekerFromGoogleStorage opens path from Google Storage
// when it carries the gs:// prefix and a client is available, and
// from the local filesystem otherwise. It also reports the input's
// size in bytes.
func MaybeOpenSeekerFromGoogleStorage(path string, client *storage.Client) (ReadSeekCloser, int64, error) {
	if client != nil && strings.HasPrefix(path, "gs://") {
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, 0, fmt.Errorf("gs:// path must name a bucket and an object, got %v", pathParts)
		}
		bucketName := pathParts[0]
		pathName := pathParts[1]

		handle := client.Bucket(bucketName).Object(pathName)
		wrappedHandle := &GSReadSeekCloser{
			ObjectHandle: handle,
			Context:      context.Background(),
		}

		attrs, err := handle.Attrs(wrappedHandle.Context)
		if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return wrappedHandle, attrs.Size, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, pfx.Err(err)
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, pfx.Err(err)
	}

	return f, fstat.Size(), nil
}

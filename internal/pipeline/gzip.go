package pipeline

import (
	"bytes"
	"compress/gzip"
	"io"
)

// GzipSize reports how many bytes the content occupies once gzipped at
// the default compression level.
func GzipSize(content string) (int64, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := io.WriteString(zw, content); err != nil {
		return 0, err
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

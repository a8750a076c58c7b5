package utils

import (
	"errors"
	"io"
)

var ErrIOLimitReached = errors.New("read size limit reached")

// ReadAllLimit reads at most n bytes from r. If r has more, the first n bytes
// are returned along with ErrIOLimitReached.
func ReadAllLimit(r io.Reader, n int) ([]byte, error) {
	limit := n + 1
	buf, err := io.ReadAll(io.LimitReader(r, int64(limit)))
	if err != nil {
		return buf, err
	}
	if len(buf) >= limit {
		return buf[:n], ErrIOLimitReached
	}
	return buf, nil
}

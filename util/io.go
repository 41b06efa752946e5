package util

import (
	"io"
)

// DefaultBufSize is the standard buffer size for network I/O (32 KiB).
const DefaultBufSize = 32 * 1024

// Drain reads r until it fails, handing the size of every chunk to
// onRead.  It returns the error that ended the loop, which is io.EOF on
// a clean close.  Nothing read is kept.
func Drain(r io.Reader, onRead func(n int)) error {
	buf := GetBuf()
	defer PutBuf(buf)

	for {
		n, err := r.Read(*buf)
		if n > 0 && onRead != nil {
			onRead(n)
		}
		if err != nil {
			return err
		}
	}
}

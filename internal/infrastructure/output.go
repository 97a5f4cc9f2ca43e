package infrastructure

import "bytes"

// limitWriter captures at most limit bytes and discards the rest, so a
// chatty command can never buffer unbounded output in memory.
type limitWriter struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func newLimitWriter(limit int) *limitWriter {
	return &limitWriter{limit: limit}
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		w.truncated = true
		return len(p), nil
	}
	if len(p) <= remaining {
		return w.buf.Write(p)
	}
	if _, err := w.buf.Write(p[:remaining]); err != nil {
		return 0, err
	}
	w.truncated = true
	return len(p), nil
}

func (w *limitWriter) String() string {
	return w.buf.String()
}

package trace

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/cms-cvs-history/trajfilter/codec"
)

// Writer appends records to a trace stream.
type Writer struct {
	zw    io.WriteCloser
	bw    *bufio.Writer
	codec codec.Codec
	count int
}

// NewWriter creates a Writer on w. A nil codec selects codec.Default.
// Close must be called to flush the stream; it does not close w.
func NewWriter(w io.Writer, c Compression, cd codec.Codec) (*Writer, error) {
	if cd == nil {
		cd = codec.Default
	}
	zw, err := compressWriter(w, c)
	if err != nil {
		return nil, err
	}
	return &Writer{
		zw:    zw,
		bw:    bufio.NewWriter(zw),
		codec: cd,
	}, nil
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	b, err := w.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode candidate %d: %w", rec.ID, err)
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	if err := w.bw.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int { return w.count }

// Close flushes buffered records and the compression frame.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		_ = w.zw.Close()
		return err
	}
	return w.zw.Close()
}

// maxLine bounds a single encoded record.
const maxLine = 16 << 20

// ErrRecordTooLarge is returned when a record exceeds the line limit.
var ErrRecordTooLarge = errors.New("trace record too large")

// Reader decodes records from a trace stream.
type Reader struct {
	zr    io.ReadCloser
	sc    *bufio.Scanner
	codec codec.Codec
	line  int
}

// NewReader creates a Reader on r. A nil codec selects codec.Default.
func NewReader(r io.Reader, c Compression, cd codec.Codec) (*Reader, error) {
	if cd == nil {
		cd = codec.Default
	}
	zr, err := decompressReader(r, c)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(zr)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{zr: zr, sc: sc, codec: cd}, nil
}

// Next returns the next record, or io.EOF when the stream is exhausted.
// Blank lines are skipped.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		r.line++
		line := bytes.TrimSpace(r.sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := r.codec.Unmarshal(line, &rec); err != nil {
			return Record{}, fmt.Errorf("trace line %d: %w", r.line, err)
		}
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return Record{}, fmt.Errorf("trace line %d: %w", r.line+1, ErrRecordTooLarge)
		}
		return Record{}, err
	}
	return Record{}, io.EOF
}

// Close releases decoder state.
func (r *Reader) Close() error {
	return r.zr.Close()
}

// ReadAll decodes every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

package httpdriver

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RecordIO framing used on the manager's event stream: each record is a
// base-ten length, a newline, then that many bytes.

type recordReader struct {
	br *bufio.Reader
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{br: bufio.NewReader(r)}
}

// Next reads one framed record. Returns the underlying reader's error when
// the stream ends or drops.
func (r *recordReader) Next() ([]byte, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || size < 0 {
		return nil, errors.Errorf("malformed recordio length %q", strings.TrimSpace(line))
	}
	record := make([]byte, size)
	if _, err := io.ReadFull(r.br, record); err != nil {
		return nil, errors.Wrap(err, "short recordio record")
	}
	return record, nil
}

// writeRecord frames one record, the inverse of Next. Used by tests and
// local fake managers.
func writeRecord(w io.Writer, record []byte) error {
	if _, err := io.WriteString(w, strconv.Itoa(len(record))+"\n"); err != nil {
		return err
	}
	_, err := w.Write(record)
	return err
}

package schedulesheet

import (
	"bufio"
	"io"
)

const maxLineLength = 1024 * 1024

// LineReader yields one rendered line at a time without its line terminator, and io.EOF once exhausted
type LineReader interface {
	ReadLine() (string, error)
}

type scannerLineReader struct {
	scanner *bufio.Scanner
}

func NewLineReader(reader io.Reader) LineReader {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	return &scannerLineReader{scanner: scanner}
}

func (r *scannerLineReader) ReadLine() (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}

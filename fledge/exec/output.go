package exec

import (
	"bytes"
	"fmt"
	"io"
)

// PrefixWriter adds a prefix to each line of output. Incomplete lines are
// held until their newline arrives or Flush is called.
type PrefixWriter struct {
	prefix string
	writer io.Writer
	buffer []byte
}

// NewPrefixWriter creates a writer that prefixes each line
func NewPrefixWriter(writer io.Writer, prefix string) *PrefixWriter {
	return &PrefixWriter{prefix: prefix, writer: writer}
}

// Write adds prefix to each complete line
func (p *PrefixWriter) Write(data []byte) (int, error) {
	p.buffer = append(p.buffer, data...)

	for {
		i := bytes.IndexByte(p.buffer, '\n')
		if i < 0 {
			break
		}
		if _, err := fmt.Fprintf(p.writer, "%s%s\n", p.prefix, p.buffer[:i]); err != nil {
			return 0, err
		}
		p.buffer = p.buffer[i+1:]
	}

	return len(data), nil
}

// Flush writes any buffered partial line
func (p *PrefixWriter) Flush() error {
	if len(p.buffer) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(p.writer, "%s%s\n", p.prefix, p.buffer)
	p.buffer = p.buffer[:0]
	return err
}

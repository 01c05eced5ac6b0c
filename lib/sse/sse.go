// Package sse reads server sent events from a byte stream.
//
// The stream is reassembled into blocks terminated by a blank line
// and each block is parsed into an Event. How the underlying reader
// chunks the bytes makes no difference to the events produced.
package sse

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/myboxcli/mybox/fs"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultChunkSize is the size of the reads made from the source
const DefaultChunkSize = 1024

const fieldSeparator = ":"

// Event is one dispatched server sent event
type Event struct {
	ID    string // last "id" field, empty if none
	Event string // event type, "message" if not set
	Data  string // "data" fields joined with "\n"
	Retry string // last "retry" field, empty if none
}

// String describes the event for logging
func (e *Event) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s event", e.Event)
	if e.ID != "" {
		fmt.Fprintf(&out, " #%s", e.ID)
	}
	if n := utf8.RuneCountInString(e.Data); n > 0 {
		s := "s"
		if n == 1 {
			s = ""
		}
		fmt.Fprintf(&out, ", %d byte%s", n, s)
	} else {
		out.WriteString(", no data")
	}
	if e.Retry != "" {
		fmt.Fprintf(&out, ", retry in %sms", e.Retry)
	}
	return out.String()
}

// set updates the field named. It returns false if the field isn't
// one an event has.
func (e *Event) set(field, value string) bool {
	switch field {
	case "id":
		e.ID = value
	case "event":
		e.Event = value
	case "data":
		e.Data += value + "\n"
	case "retry":
		e.Retry = value
	default:
		return false
	}
	return true
}

// StreamDecodeError is returned when a line of the stream isn't valid
// text in the configured charset. It is fatal to the stream.
type StreamDecodeError struct {
	Charset string
	Line    []byte
	Err     error
}

// Error satisfies the error interface
func (e *StreamDecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event stream: can't decode %q as %s: %v", e.Line, e.Charset, e.Err)
	}
	return fmt.Sprintf("event stream: can't decode %q as %s", e.Line, e.Charset)
}

// Unwrap returns the underlying decoder error if any
func (e *StreamDecodeError) Unwrap() error {
	return e.Err
}

// Option configures a Reader
type Option func(*Reader)

// WithCharset sets the charset the stream is decoded with. The name
// is looked up in the WHATWG encoding index, e.g. "utf-8" or "euc-kr".
func WithCharset(name string) Option {
	return func(r *Reader) {
		r.charset = name
	}
}

// WithChunkSize sets the maximum size of each read from the source
func WithChunkSize(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

// Reader produces Events from a byte stream.
//
// It is not safe for concurrent use.
type Reader struct {
	in        io.Reader
	charset   string
	chunkSize int
	dec       *encoding.Decoder // nil for strict utf-8
	chunk     []byte            // read buffer
	line      []byte            // partial line carried between chunks
	block     []byte            // lines of the block being accumulated
	blocks    [][]byte          // completed blocks waiting to be parsed
	eof       bool              // source exhausted
	err       error             // sticky error
}

// NewReader makes a Reader reading the event stream from in
func NewReader(in io.Reader, opts ...Option) *Reader {
	r := &Reader{
		in:        in,
		charset:   "utf-8",
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	enc, err := htmlindex.Get(r.charset)
	if err != nil {
		r.err = errors.Wrapf(err, "event stream: unknown charset %q", r.charset)
	} else if name, _ := htmlindex.Name(enc); name != "utf-8" {
		r.dec = enc.NewDecoder()
	}
	r.chunk = make([]byte, r.chunkSize)
	fs.Debugf(nil, "Initialized event stream reader (charset %s)", r.charset)
	return r
}

// Next returns the next event in the stream.
//
// It returns io.EOF once the stream is exhausted. Any other error is
// sticky and will be returned by all subsequent calls.
func (r *Reader) Next() (*Event, error) {
	for {
		if r.err != nil {
			return nil, r.err
		}
		for len(r.blocks) > 0 {
			block := r.blocks[0]
			r.blocks = r.blocks[1:]
			ev, err := r.parse(block)
			if err != nil {
				r.err = err
				return nil, err
			}
			if ev != nil {
				fs.Debugf(nil, "Dispatching %v", ev)
				return ev, nil
			}
		}
		if r.eof {
			return nil, io.EOF
		}
		r.fill()
	}
}

// Close closes the source if it is an io.Closer
func (r *Reader) Close() error {
	if c, ok := r.in.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// fill reads one chunk from the source and splits it into blocks
func (r *Reader) fill() {
	n, err := r.in.Read(r.chunk)
	if n > 0 {
		r.line = append(r.line, r.chunk[:n]...)
		r.splitLines(false)
	}
	if err == io.EOF {
		r.eof = true
		r.splitLines(true)
		r.flush()
	} else if err != nil {
		r.err = errors.Wrap(err, "event stream: read failed")
	}
}

// splitLines moves every complete line out of r.line into the block,
// flushing the block whenever it ends with a blank line.
//
// A trailing "\r" is only a complete line at the end of the stream
// since the next chunk might start with "\n".
func (r *Reader) splitLines(atEOF bool) {
	for len(r.line) > 0 {
		i := bytes.IndexAny(r.line, "\r\n")
		if i < 0 {
			if atEOF {
				r.block = append(r.block, r.line...)
				r.line = r.line[:0]
			}
			return
		}
		end := i + 1
		if r.line[i] == '\r' {
			if i+1 == len(r.line) && !atEOF {
				return
			}
			if i+1 < len(r.line) && r.line[i+1] == '\n' {
				end++
			}
		}
		r.block = append(r.block, r.line[:end]...)
		r.line = append(r.line[:0], r.line[end:]...)
		if endsBlock(r.block) {
			r.flush()
		}
	}
}

// endsBlock returns true if b finishes with a blank line
func endsBlock(b []byte) bool {
	return bytes.HasSuffix(b, []byte("\r\r")) ||
		bytes.HasSuffix(b, []byte("\n\n")) ||
		bytes.HasSuffix(b, []byte("\r\n\r\n"))
}

// flush queues the accumulated block if there is one
func (r *Reader) flush() {
	if len(r.block) == 0 {
		return
	}
	block := make([]byte, len(r.block))
	copy(block, r.block)
	r.blocks = append(r.blocks, block)
	r.block = r.block[:0]
}

// decode converts one line of the stream to a string
func (r *Reader) decode(line []byte) (string, error) {
	if r.dec == nil {
		if !utf8.Valid(line) {
			return "", &StreamDecodeError{Charset: r.charset, Line: line}
		}
		return string(line), nil
	}
	out, err := r.dec.Bytes(line)
	if err != nil {
		return "", &StreamDecodeError{Charset: r.charset, Line: line, Err: err}
	}
	return string(out), nil
}

// parse turns a block into an Event, returning nil if the block has
// no data
func (r *Reader) parse(block []byte) (*Event, error) {
	ev := &Event{}
	for _, raw := range splitBlock(block) {
		line, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		// Blank lines and comments
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, fieldSeparator) {
			continue
		}
		field, value := line, ""
		if i := strings.Index(line, fieldSeparator); i >= 0 {
			field, value = line[:i], line[i+1:]
			value = strings.TrimPrefix(value, " ")
		}
		if !ev.set(field, value) {
			fs.Logf(nil, "Saw invalid field %q while parsing server sent event", field)
		}
	}
	if ev.Data == "" {
		return nil, nil
	}
	ev.Data = strings.TrimSuffix(ev.Data, "\n")
	if ev.Event == "" {
		ev.Event = "message"
	}
	return ev, nil
}

// splitBlock splits a block on "\r\n", "\r" or "\n" dropping the
// terminators
func splitBlock(block []byte) (lines [][]byte) {
	for len(block) > 0 {
		i := bytes.IndexAny(block, "\r\n")
		if i < 0 {
			return append(lines, block)
		}
		lines = append(lines, block[:i])
		if block[i] == '\r' && i+1 < len(block) && block[i+1] == '\n' {
			i++
		}
		block = block[i+1:]
	}
	return lines
}

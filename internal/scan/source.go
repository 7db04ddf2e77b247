package scan

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Source acquires the capture device. Every successful Open must be paired
// with a Close of the returned Stream.
type Source interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream yields decoded tokens. Tokens is closed at end of input; Err then
// reports why, nil meaning a clean end.
type Stream interface {
	Tokens() <-chan string
	Err() error
	Close() error
}

// NewSource returns the source named by path: "stdin" or "-" reads standard
// input, anything else is opened as a file, FIFO or character device that
// a decoder writes one token per line to.
func NewSource(path string) Source {
	if path == "" || path == "-" || path == "stdin" {
		return NewReaderSource(os.Stdin)
	}
	return FileSource{Path: path}
}

// FileSource opens Path on every Open. Opening a FIFO waits for a writer;
// the wait ends early when ctx is cancelled.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (Stream, error) {
	type opened struct {
		f   *os.File
		err error
	}
	result := make(chan opened, 1)
	go func() {
		f, err := os.Open(s.Path)
		result <- opened{f: f, err: err}
	}()

	select {
	case r := <-result:
		if r.err != nil {
			return nil, fmt.Errorf("open %s: %w", s.Path, r.err)
		}
		return newLineStream(r.f, r.f), nil
	case <-ctx.Done():
		// a writer may still attach later
		go func() {
			if r := <-result; r.f != nil {
				_ = r.f.Close()
			}
		}()
		return nil, fmt.Errorf("open %s: %w", s.Path, ctx.Err())
	}
}

// ReaderSource reads lines from a reader it does not own. One reader
// goroutine is shared by every Open, so a line is never consumed by a stream
// that was already closed. Close leaves the reader open.
type ReaderSource struct {
	r     io.Reader
	start sync.Once
	lines chan string

	mu  sync.Mutex
	err error
}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r, lines: make(chan string)}
}

func (s *ReaderSource) Open(_ context.Context) (Stream, error) {
	s.start.Do(func() { go s.pump() })
	return &readerStream{src: s}, nil
}

// pump hands each line to whichever stream receives next. Lines wait in the
// unbuffered channel while no stream is open.
func (s *ReaderSource) pump() {
	defer close(s.lines)

	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		s.lines <- sc.Text()
	}

	s.mu.Lock()
	s.err = sc.Err()
	s.mu.Unlock()
}

type readerStream struct {
	src *ReaderSource
}

func (s *readerStream) Tokens() <-chan string {
	return s.src.lines
}

func (s *readerStream) Err() error {
	s.src.mu.Lock()
	defer s.src.mu.Unlock()
	return s.src.err
}

func (s *readerStream) Close() error {
	return nil
}

// lineStream owns its reader and closes it on Close, which also interrupts a
// pending read on pollable files such as FIFOs.
type lineStream struct {
	closer io.Closer
	tokens chan string
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error
}

func newLineStream(r io.Reader, closer io.Closer) *lineStream {
	s := &lineStream{
		closer: closer,
		tokens: make(chan string),
		done:   make(chan struct{}),
	}
	go s.pump(r)
	return s
}

func (s *lineStream) pump(r io.Reader) {
	defer close(s.tokens)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case s.tokens <- sc.Text():
		case <-s.done:
			return
		}
	}

	if err := sc.Err(); err != nil {
		select {
		case <-s.done:
		default:
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
		}
	}
}

func (s *lineStream) Tokens() <-chan string {
	return s.tokens
}

func (s *lineStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *lineStream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}

// Package capture redirects the process stdout/stderr into memory for the duration of one
// test, as a scoped acquisition: install on Start, always restore on Stop, never a permanent
// process-wide patch.
//
// Scopes must not overlap; the host runner is expected to run captured tests one at a time.
package capture

import (
	"bytes"
	"io"
	"os"
)

// Scope holds the replaced stdout/stderr and the pipes collecting output written while the
// scope is active
type Scope struct {
	prevStdout *os.File
	prevStderr *os.File
	outWriter  *os.File
	errWriter  *os.File
	outChan    chan string
	errChan    chan string
	stopped    bool
	lastOut    string
	lastErr    string
}

// Start replaces os.Stdout and os.Stderr with in-memory pipes until Stop is called
func Start() (*Scope, error) {
	outReader, outWriter, oerr := os.Pipe()
	if oerr != nil {
		return nil, oerr
	}
	errReader, errWriter, eerr := os.Pipe()
	if eerr != nil {
		outReader.Close()
		outWriter.Close()
		return nil, eerr
	}

	scope := &Scope{
		prevStdout: os.Stdout,
		prevStderr: os.Stderr,
		outWriter:  outWriter,
		errWriter:  errWriter,
		outChan:    collect(outReader),
		errChan:    collect(errReader),
	}
	os.Stdout = outWriter
	os.Stderr = errWriter
	return scope, nil
}

// Stop restores the original stdout/stderr and returns everything captured
//
// Safe to call more than once; later calls return the same captured output
func (scope *Scope) Stop() (stdOut string, stdErr string) {
	if scope.stopped {
		return scope.lastOut, scope.lastErr
	}
	scope.stopped = true

	os.Stdout = scope.prevStdout
	os.Stderr = scope.prevStderr
	scope.outWriter.Close()
	scope.errWriter.Close()

	scope.lastOut = <-scope.outChan
	scope.lastErr = <-scope.errChan
	return scope.lastOut, scope.lastErr
}

// Run captures output produced by fn; restoration is guaranteed even if fn panics, and the
// panic propagates after stdout/stderr are back in place
func Run(fn func()) (stdOut string, stdErr string, err error) {
	scope, serr := Start()
	if serr != nil {
		return "", "", serr
	}
	defer func() {
		stdOut, stdErr = scope.Stop()
	}()
	fn()
	return
}

func collect(reader *os.File) chan string {
	ch := make(chan string, 1)
	go func() {
		buffer := &bytes.Buffer{}
		_, _ = io.Copy(buffer, reader)
		reader.Close()
		ch <- buffer.String()
	}()
	return ch
}

package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"sync"

	"github.com/gofrs/flock"

	"ggnmatch/internal/matching"
)

const documentFooter = "</table></body></html>\n"

var (
	headerTemplate = template.Must(template.New("header").Parse(
		`<html><head><meta charset="utf-8"><title>{{.}}</title></head><body>` +
			`<table border="1"><tr><th>Name</th><th>Status</th><th>URL</th></tr>` + "\n"))
	rowTemplate = template.Must(template.New("row").Parse(
		`<tr><td>{{.Name}}</td><td>{{.Status}}</td><td>` +
			`{{with .URL}}<a href="{{.}}" target="_blank">{{.}}</a>{{end}}</td></tr>` + "\n"))
)

type row struct {
	Name   string
	Status string
	URL    string
}

// HTMLWriter appends results to an HTML report. It satisfies matching.Sink.
type HTMLWriter struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	buf    *bufio.Writer
	lock   *flock.Flock
	rows   int
	closed bool
}

// LockPath returns the advisory lock file used for a report path.
func LockPath(path string) string {
	return path + ".lock"
}

// Create truncates or creates the report at path and writes the table head.
// It fails when another process holds the report lock.
func Create(path string) (*HTMLWriter, error) {
	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire report lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("report %s is locked by another run", path)
	}

	file, err := os.Create(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create report: %w", err)
	}
	w := &HTMLWriter{
		path: path,
		file: file,
		buf:  bufio.NewWriter(file),
		lock: lock,
	}
	if err := headerTemplate.Execute(w.buf, "ggnmatch report"); err != nil {
		_ = w.release()
		return nil, fmt.Errorf("write report header: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		_ = w.release()
		return nil, fmt.Errorf("write report header: %w", err)
	}
	return w, nil
}

// Path returns the report location.
func (w *HTMLWriter) Path() string {
	return w.path
}

// Rows returns the number of result rows written so far.
func (w *HTMLWriter) Rows() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rows
}

// Write appends one result row and flushes it to disk.
func (w *HTMLWriter) Write(ctx context.Context, result matching.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("report writer closed")
	}

	if err := rowTemplate.Execute(w.buf, row{
		Name:   result.Entry.Name,
		Status: result.Outcome.Status(),
		URL:    result.GroupURL,
	}); err != nil {
		return fmt.Errorf("render report row: %w", err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush report row: %w", err)
	}
	w.rows++
	return nil
}

// Close finishes the document and releases the lock. It is safe to call more
// than once.
func (w *HTMLWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	_, writeErr := w.buf.WriteString(documentFooter)
	if writeErr == nil {
		writeErr = w.buf.Flush()
	}
	return errors.Join(writeErr, w.release())
}

func (w *HTMLWriter) release() error {
	closeErr := w.file.Close()
	return errors.Join(closeErr, w.lock.Unlock())
}

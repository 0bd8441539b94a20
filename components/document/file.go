package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/atomic"
)

// File is a document read from the local filesystem
type File struct {
	path   string
	status *atomic.Int32
	Document
}

var _ Source = (*File)(nil)

// NewFile checks that path is a regular file. Content is loaded by ReadAll.
func NewFile(path string) (*File, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &File{
		path:   path,
		status: atomic.NewInt32(Unread),
		Document: Document{
			buffer: new(bytes.Buffer),
			meta: map[string]string{
				"source":   path,
				"filename": filepath.Base(path),
				"modtime":  strconv.FormatInt(fileInfo.ModTime().Unix(), 10),
			},
		},
	}, nil
}

// Path returns the path the file was opened with
func (d *File) Path() string {
	return d.path
}

func (d *File) ReadStatus() ReadStatus {
	return d.status.Load()
}

// ReadAll loads the file content. Subsequent calls are no-ops.
func (d *File) ReadAll(ctx context.Context) error {
	if d.ReadStatus() == ReadCompleted {
		return nil
	}
	if !d.status.CompareAndSwap(Unread, Reading) {
		return ErrReading
	}
	if err := ctx.Err(); err != nil {
		d.status.Store(Unread)
		return err
	}
	bs, err := os.ReadFile(d.path)
	if err != nil {
		d.status.Store(Unread)
		return err
	}
	d.buffer.Reset()
	d.buffer.Write(bs)
	d.status.Store(ReadCompleted)
	return nil
}

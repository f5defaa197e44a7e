// internal/adapters/upload/intake.go
package upload

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"quivato_reviews/internal/adapters/observability"
	"quivato_reviews/internal/domain"
)

// FileField is the multipart field carrying the reviewer photo.
const FileField = "file"

// Handle points at a transient file written by the Intake.
// The zero Handle means no file was supplied.
type Handle struct {
	Path        string
	ContentType string
	Size        int64
}

func (h Handle) Empty() bool { return h.Path == "" }

type Intake struct {
	fs  afero.Fs
	dir string
}

func NewIntake(fs afero.Fs, dir string) (*Intake, error) {
	if err := fs.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Intake{fs: fs, dir: dir}, nil
}

// Accept validates at most one uploaded part and stores it under a fresh name.
// With no part present it returns the zero Handle, or a validation error when required.
func (in *Intake) Accept(ctx context.Context, files []*multipart.FileHeader, required bool) (Handle, error) {
	switch {
	case len(files) == 0:
		if required {
			observability.ObserveRejection("missing")
			return Handle{}, domain.Invalid(FileField, "no reviewer image uploaded")
		}
		return Handle{}, nil
	case len(files) > 1:
		observability.ObserveRejection("multiple")
		return Handle{}, domain.Invalid(FileField, "at most one file is allowed")
	}
	fh := files[0]
	if fh.Size == 0 {
		observability.ObserveRejection("empty")
		return Handle{}, domain.Invalid(FileField, "file is empty")
	}

	src, err := fh.Open()
	if err != nil {
		return Handle{}, domain.Processing("open upload", err)
	}
	defer src.Close()

	ct, err := contentType(fh, src)
	if err != nil {
		return Handle{}, domain.Processing("sniff upload", err)
	}
	if !strings.HasPrefix(ct, "image/") {
		observability.ObserveRejection("mime")
		return Handle{}, domain.Invalid(FileField, "only image files are allowed, got "+ct)
	}

	if err := ctx.Err(); err != nil {
		return Handle{}, domain.Processing("accept upload", err)
	}
	path := filepath.Join(in.dir, uuid.NewString()+extension(fh.Filename))
	n, err := in.write(path, src)
	if err != nil {
		return Handle{}, domain.Processing("store upload", err)
	}
	return Handle{Path: path, ContentType: ct, Size: n}, nil
}

// write creates path exclusively so two requests can never share a transient file.
func (in *Intake) write(path string, src io.Reader) (int64, error) {
	dst, err := in.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, errors.Join(err, in.fs.Remove(path))
	}
	return n, nil
}

// contentType returns the declared media type, falling back to sniffing
// when the client sent none or the generic octet-stream.
func contentType(fh *multipart.FileHeader, src multipart.File) (string, error) {
	declared := fh.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return strings.ToLower(mt), nil
	}
	m, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	mt, _, _ := mime.ParseMediaType(m.String())
	return strings.ToLower(mt), nil
}

func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}

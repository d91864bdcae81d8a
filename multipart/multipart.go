// Package multipart builds multipart/form-data bodies for [fetch.Multipart].
package multipart

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const octetStream = "application/octet-stream"

// Builder accumulates form fields in memory. The zero value is ready to use.
type Builder struct {
	buf bytes.Buffer
	w   *multipart.Writer
}

func (b *Builder) writer() *multipart.Writer {
	if b.w == nil {
		b.w = multipart.NewWriter(&b.buf)
	}
	return b.w
}

func (b *Builder) AddText(name, text string) error {
	return errors.Wrapf(b.writer().WriteField(name, text), "add field %q", name)
}

// AddStream copies r into a file part. An empty contentType means
// application/octet-stream, so servers treat the part as a file.
func (b *Builder) AddStream(name, filename, contentType string, r io.Reader) error {
	if contentType == "" {
		contentType = octetStream
	}
	h := make(textproto.MIMEHeader)
	disposition := fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(name))
	if filename != "" {
		disposition += fmt.Sprintf(`; filename="%s"`, escapeQuotes(filename))
	}
	h.Set("Content-Disposition", disposition)
	h.Set("Content-Type", contentType)
	part, err := b.writer().CreatePart(h)
	if err != nil {
		return errors.Wrapf(err, "add part %q", name)
	}
	_, err = io.Copy(part, r)
	return errors.Wrapf(err, "copy part %q", name)
}

// AddFile adds the file at path, guessing its content type from the
// extension.
func (b *Builder) AddFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open multipart file")
	}
	defer f.Close()
	return b.AddStream(name, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)), f)
}

// Finish closes the body and returns its content type, boundary included.
// The builder must not be used afterwards.
func (b *Builder) Finish() (contentType string, body []byte, err error) {
	w := b.writer()
	if err := w.Close(); err != nil {
		return "", nil, errors.Wrap(err, "close multipart body")
	}
	return w.FormDataContentType(), b.buf.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

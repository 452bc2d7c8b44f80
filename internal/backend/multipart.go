package backend

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// Multipart builds a multipart/form-data body. Fields keep insertion order.
type Multipart struct {
	parts []part
}

type part struct {
	name        string
	value       string
	filename    string
	contentType string
	data        []byte
	file        bool
}

// NewMultipart returns an empty form.
func NewMultipart() *Multipart { return &Multipart{} }

// Field appends a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.parts = append(m.parts, part{name: name, value: value})
	return m
}

// OptionalField appends a text field only when value is non-empty.
func (m *Multipart) OptionalField(name, value string) *Multipart {
	if value == "" {
		return m
	}
	return m.Field(name, value)
}

// IntField appends an integer field, skipping nil.
func (m *Multipart) IntField(name string, value *int64) *Multipart {
	if value == nil {
		return m
	}
	return m.Field(name, strconv.FormatInt(*value, 10))
}

// FloatField appends a decimal field, skipping nil.
func (m *Multipart) FloatField(name string, value *float64) *Multipart {
	if value == nil {
		return m
	}
	return m.Field(name, strconv.FormatFloat(*value, 'f', -1, 64))
}

// BoolField appends a boolean field.
func (m *Multipart) BoolField(name string, value bool) *Multipart {
	return m.Field(name, strconv.FormatBool(value))
}

// File appends a file part. Empty uploads are skipped so an update keeps the
// stored attachment.
func (m *Multipart) File(name string, upload *Upload) *Multipart {
	if upload == nil || len(upload.Data) == 0 {
		return m
	}
	m.parts = append(m.parts, part{
		name:        name,
		filename:    upload.Filename,
		contentType: upload.ContentType,
		data:        upload.Data,
		file:        true,
	})
	return m
}

// Len returns the number of parts.
func (m *Multipart) Len() int { return len(m.parts) }

// Encode implements Body.
func (m *Multipart) Encode() (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for _, p := range m.parts {
		if !p.file {
			if err := writer.WriteField(p.name, p.value); err != nil {
				return nil, "", err
			}
			continue
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.name, p.filename))
		ct := p.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header.Set("Content-Type", ct)
		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

// Upload is a file received from a browser form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

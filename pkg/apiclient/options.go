package apiclient

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
)

// Options describes a single request. A nil *Options is a plain GET.
type Options struct {
	// Method defaults to GET.
	Method string
	// Body is serialized as JSON. Ignored when Form is set.
	Body any
	// Form is a multipart payload; its boundary content type always wins
	// over any Content-Type in Header.
	Form *Form
	// Header overrides. An Authorization header here suppresses token injection.
	Header http.Header
}

func (o *Options) method() string {
	if o == nil || o.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(o.Method)
}

// encodeBody returns the request body and the content type it requires.
func (o *Options) encodeBody() (io.Reader, string, error) {
	if o == nil {
		return nil, "", nil
	}
	if o.Form != nil {
		data, contentType, err := o.Form.encode()
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), contentType, nil
	}
	if o.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(o.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// cacheKey derives the de-duplication key for a request. The resolved
// authorization is part of the key so callers with different tokens never
// share a response.
func cacheKey(method, endpoint string, o *Options, authorization string) string {
	h := sha256.New()
	if o != nil {
		names := make([]string, 0, len(o.Header))
		for name := range o.Header {
			names = append(names, http.CanonicalHeaderKey(name))
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(h, "%s=%s\n", name, strings.Join(o.Header.Values(name), ","))
		}
		if o.Body != nil {
			if data, err := json.Marshal(o.Body); err == nil {
				h.Write(data)
			}
		}
	}
	h.Write([]byte{0})
	h.Write([]byte(authorization))
	return method + " " + endpoint + "#" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Form is a multipart/form-data payload built in memory.
type Form struct {
	buf    bytes.Buffer
	writer *multipart.Writer
	closed bool
	err    error
}

// NewForm creates an empty multipart payload.
func NewForm() *Form {
	f := &Form{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

// AddField appends a plain form field.
func (f *Form) AddField(name, value string) *Form {
	if f.err == nil && !f.closed {
		f.err = f.writer.WriteField(name, value)
	}
	return f
}

// AddFile appends a file part read from r.
func (f *Form) AddFile(field, filename string, r io.Reader) *Form {
	if f.err != nil || f.closed {
		return f
	}
	part, err := f.writer.CreateFormFile(field, filename)
	if err != nil {
		f.err = fmt.Errorf("create form file %s: %w", filename, err)
		return f
	}
	if _, err := io.Copy(part, r); err != nil {
		f.err = fmt.Errorf("copy form file %s: %w", filename, err)
	}
	return f
}

// ContentType returns the multipart content type including the boundary.
func (f *Form) ContentType() string {
	return f.writer.FormDataContentType()
}

func (f *Form) encode() ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	if !f.closed {
		if err := f.writer.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart writer: %w", err)
		}
		f.closed = true
	}
	return f.buf.Bytes(), f.ContentType(), nil
}

package documents

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexdesk/casedesk/pkg/apiclient"
)

func newPipeline(t *testing.T, upload, process http.HandlerFunc) *Client {
	t.Helper()
	up := httptest.NewServer(upload)
	t.Cleanup(up.Close)
	proc := httptest.NewServer(process)
	t.Cleanup(proc.Close)
	return NewClient(apiclient.New(up.URL), apiclient.New(proc.URL), "/upload", "/process")
}

func TestClient_Analyze(t *testing.T) {
	var uploaded string
	var processed []string

	c := newPipeline(t,
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/upload", r.URL.Path)
			assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
			file, header, err := r.FormFile(UploadField)
			require.NoError(t, err)
			data, _ := io.ReadAll(file)
			uploaded = header.Filename + ":" + string(data)
			_, _ = w.Write([]byte(`{"links":["s3://docs/a.pdf","s3://docs/b.pdf"]}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			processed = append(processed, req["s3_link"])
			_, _ = w.Write([]byte(`{"processed_data":{"citations":["AIR 1973 SC 1461"],"facts":["f"],` +
				`"statutes":{"acts":["Contract Act"],"sections":["s.73"],"articles":["Art. 21"]},` +
				`"precedents":["p"],"ratio":"r","rulings":["allowed"]}}`))
		},
	)

	results, err := c.Analyze(context.Background(), "judgment.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "judgment.pdf:%PDF", uploaded)
	assert.Equal(t, []string{"s3://docs/a.pdf", "s3://docs/b.pdf"}, processed)
	require.Len(t, results, 2)
	assert.Equal(t, "s3://docs/b.pdf", results[1].Link)
	assert.Equal(t, []string{"Contract Act"}, results[0].Data.Statutes.Acts)
	assert.Equal(t, "r", results[0].Data.Ratio)
}

func TestClient_AnalyzeNoLinks(t *testing.T) {
	c := newPipeline(t,
		func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"links":[]}`)) },
		func(_ http.ResponseWriter, _ *http.Request) { t.Error("process must not be called") },
	)

	_, err := c.Analyze(context.Background(), "empty.pdf", strings.NewReader(""))
	assert.True(t, apiclient.IsKind(err, apiclient.KindDomain))
}

func TestClient_AnalyzeStopsOnFirstFailure(t *testing.T) {
	calls := 0
	c := newPipeline(t,
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"links":["s3://a","s3://b"]}`))
		},
		func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"model unavailable"}`))
		},
	)

	results, err := c.Analyze(context.Background(), "a.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Equal(t, "model unavailable", err.Error())
	assert.Empty(t, results)
	assert.Equal(t, 1, calls)
}

func TestClient_Validation(t *testing.T) {
	c := NewClient(apiclient.New("http://127.0.0.1:1"), apiclient.New("http://127.0.0.1:1"), "/u", "/p")

	_, err := c.Upload(context.Background(), "", strings.NewReader("x"))
	assert.True(t, apiclient.IsKind(err, apiclient.KindValidation))

	_, err = c.Process(context.Background(), "")
	assert.True(t, apiclient.IsKind(err, apiclient.KindValidation))
}

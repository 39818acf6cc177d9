package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

func TestDecode(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		out, err := Decode[testCase](&Response{Status: 200, Body: json.RawMessage(`{"_id":"1","title":"Doe"}`)})
		require.NoError(t, err)
		assert.Equal(t, testCase{ID: "1", Title: "Doe"}, out)
	})

	t.Run("envelope error passed through", func(t *testing.T) {
		_, err := Decode[testCase](failure(&Error{Kind: KindProtocol, Message: "nope", Status: 403}))
		require.Error(t, err)
		var apiErr *Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 403, apiErr.Status)
	})

	t.Run("shape mismatch is decode error", func(t *testing.T) {
		_, err := Decode[testCase](&Response{Status: 200, Body: json.RawMessage(`[1,2]`)})
		assert.True(t, IsKind(err, KindDecode))
	})

	t.Run("nil response", func(t *testing.T) {
		_, err := Decode[testCase](nil)
		assert.True(t, IsKind(err, KindTransport))
	})
}

func TestTypedHelpers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"_id":"1","title":"Get"}`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"deleted"}`))
		default:
			var in testCase
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = r.Method
			_ = json.NewEncoder(w).Encode(in)
		}
	}))
	defer server.Close()

	c := New(server.URL)
	ctx := context.Background()

	got, err := Get[testCase](ctx, c, "cases/1")
	require.NoError(t, err)
	assert.Equal(t, "Get", got.Title)

	got, err = Post[testCase](ctx, c, "cases", testCase{Title: "New"})
	require.NoError(t, err)
	assert.Equal(t, testCase{ID: http.MethodPost, Title: "New"}, got)

	got, err = Put[testCase](ctx, c, "cases/1", testCase{Title: "Edit"})
	require.NoError(t, err)
	assert.Equal(t, testCase{ID: http.MethodPut, Title: "Edit"}, got)

	msg, err := Delete[map[string]string](ctx, c, "cases/1")
	require.NoError(t, err)
	assert.Equal(t, "deleted", msg["message"])
}

func TestAsError(t *testing.T) {
	assert.Nil(t, AsError(nil))

	apiErr := &Error{Kind: KindDomain, Message: "guardrail"}
	assert.Same(t, apiErr, AsError(fmt.Errorf("wrapped: %w", apiErr)))

	other := AsError(errors.New("dial tcp: refused"))
	assert.Equal(t, KindTransport, other.Kind)
	assert.Equal(t, "dial tcp: refused", other.Message)
}

func TestCacheKey(t *testing.T) {
	a := cacheKey(http.MethodGet, "/cases", &Options{Header: http.Header{"X-A": {"1"}, "X-B": {"2"}}}, "")
	b := cacheKey(http.MethodGet, "/cases", &Options{Header: http.Header{"X-B": {"2"}, "X-A": {"1"}}}, "")
	assert.Equal(t, a, b)

	assert.NotEqual(t, a, cacheKey(http.MethodGet, "/cases", nil, ""))
	assert.NotEqual(t, cacheKey(http.MethodGet, "/cases", nil, "Bearer a"), cacheKey(http.MethodGet, "/cases", nil, "Bearer b"))
	assert.Contains(t, a, "GET /cases#")
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewTokenStore("")
	assert.Empty(t, store.Token(ctx))

	store.Set("t1")
	assert.Equal(t, "t1", store.Token(ctx))

	store.Clear()
	assert.Empty(t, store.Token(ctx))

	p := ContextToken{Fallback: StaticToken("fallback")}
	assert.Equal(t, "fallback", p.Token(ctx))
	assert.Equal(t, "mine", p.Token(WithToken(ctx, "mine")))
}

package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Decode projects a Response onto T. The returned error is always an *Error.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, &Error{Kind: KindTransport, Message: MessageNetworkError}
	}
	if resp.Err != nil {
		return out, resp.Err
	}
	if len(resp.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, &Error{
			Kind:    KindDecode,
			Message: fmt.Sprintf("decode response: %v", err),
			Status:  resp.Status,
		}
	}
	return out, nil
}

// Get issues a GET and decodes the payload into T.
func Get[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return Decode[T](c.Request(ctx, endpoint, nil))
}

// Post issues a POST with a JSON body and decodes the payload into T.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Decode[T](c.Request(ctx, endpoint, &Options{Method: http.MethodPost, Body: body}))
}

// Put issues a PUT with a JSON body and decodes the payload into T.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return Decode[T](c.Request(ctx, endpoint, &Options{Method: http.MethodPut, Body: body}))
}

// Delete issues a DELETE and decodes the payload into T.
func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return Decode[T](c.Request(ctx, endpoint, &Options{Method: http.MethodDelete}))
}

// PostForm issues a multipart POST and decodes the payload into T.
func PostForm[T any](ctx context.Context, c *Client, endpoint string, form *Form) (T, error) {
	return Decode[T](c.Request(ctx, endpoint, &Options{Method: http.MethodPost, Form: form}))
}

package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 4096

// JSONBody is a loosely decoded JSON object with flexible field lookup.
type JSONBody struct {
	Data map[string]any
}

// GetString returns the first non-blank string value among keys.
func (b *JSONBody) GetString(keys ...string) string {
	if b == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := b.Data[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return ""
}

// IsSuccess reports a 2xx status.
func IsSuccess(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// DecodeJSON decodes the response body into out and closes it.
func DecodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ReadErrorBody reads a bounded failed response body and closes it. A body that is
// not a JSON object yields an empty JSONBody.
func ReadErrorBody(resp *http.Response) *JSONBody {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var data map[string]any
	if err := json.Unmarshal(b, &data); err != nil {
		return &JSONBody{}
	}
	return &JSONBody{Data: data}
}

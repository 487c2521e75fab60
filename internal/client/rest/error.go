package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/parceltrack/console/internal/common"
)

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 64 << 10

// Error is a non-2xx API response. Body is the raw payload; Detail and
// Fields are best-effort views of the usual {"detail": "..."} and
// {"field": ["message", ...]} shapes.
type Error struct {
	StatusCode int
	Status     string
	Body       []byte
	Detail     string
	Fields     map[string][]string
}

// ParseError reads resp.Body (without closing it) into an *Error.
func ParseError(resp *http.Response) *Error {
	e := &Error{StatusCode: resp.StatusCode, Status: resp.Status}
	if resp.Body == nil {
		return e
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e.Body = body

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return e
	}

	for key, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			if key == "detail" {
				e.Detail = single
				continue
			}
			e.addField(key, single)
			continue
		}
		var many []string
		if err := json.Unmarshal(value, &many); err == nil {
			for _, msg := range many {
				e.addField(key, msg)
			}
		}
	}
	return e
}

func (e *Error) addField(key, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[key] = append(e.Fields[key], msg)
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "api error: %d", e.StatusCode)
	if text := http.StatusText(e.StatusCode); text != "" {
		b.WriteString(" " + text)
	}
	if e.Detail != "" {
		b.WriteString(": " + e.Detail)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i == 0 && e.Detail == "" {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", k, strings.Join(e.Fields[k], ", "))
	}
	return b.String()
}

// Is lets callers match broad classes with errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case common.ErrorUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case common.ErrorNotFound:
		return e.StatusCode == http.StatusNotFound
	case common.ErrorValidation:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

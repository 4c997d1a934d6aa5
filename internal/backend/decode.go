// internal/backend/decode.go
package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// record is one decoded JSON object of a backend response.
type record map[string]any

// DecodeError reports a response that could not be turned into typed records.
// Index is -1 when the response as a whole is malformed.
type DecodeError struct {
	Resource string
	Index    int
	Field    string
	Err      error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("decoding %s: %v", e.Resource, e.Err)
	case e.Field != "":
		return fmt.Sprintf("decoding %s[%d].%s: %v", e.Resource, e.Index, e.Field, e.Err)
	default:
		return fmt.Sprintf("decoding %s[%d]: %v", e.Resource, e.Index, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	errNotObject = errors.New("not an object")
	errMissingID = errors.New("missing or invalid id")
)

// envelopeKeys are the wrappers a list may arrive in besides a bare array.
var envelopeKeys = []string{"data", "results"}

func decodeValue(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// decodeList extracts the records of a list response.
func decodeList(resource string, body []byte) ([]record, error) {
	v, err := decodeValue(body)
	if err != nil {
		return nil, &DecodeError{Resource: resource, Index: -1, Err: err}
	}
	items, ok := v.([]any)
	if !ok {
		obj, isObj := v.(map[string]any)
		if isObj {
			for _, key := range envelopeKeys {
				if inner, found := obj[key].([]any); found {
					items, ok = inner, true
					break
				}
			}
		}
	}
	if !ok {
		return nil, &DecodeError{Resource: resource, Index: -1, Err: errors.New("expected a list")}
	}

	out := make([]record, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &DecodeError{Resource: resource, Index: i, Err: errNotObject}
		}
		out = append(out, record(obj))
	}
	return out, nil
}

// decodeRecords maps every record of a list response. The first record that
// cannot be mapped fails the whole list.
func decodeRecords[T any](resource string, body []byte, mapper func(record) (T, error)) ([]T, error) {
	records, err := decodeList(resource, body)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for i, rec := range records {
		item, err := mapper(rec)
		if err != nil {
			var fe *fieldError
			if errors.As(err, &fe) {
				return nil, &DecodeError{Resource: resource, Index: i, Field: fe.field, Err: fe.err}
			}
			return nil, &DecodeError{Resource: resource, Index: i, Err: err}
		}
		out = append(out, item)
	}
	return out, nil
}

type fieldError struct {
	field string
	err   error
}

func (e *fieldError) Error() string { return e.field + ": " + e.err.Error() }

// messageKeys is the precedence of the human readable message of a response.
var messageKeys = []string{"message", "detail", "error"}

// extractMessage returns the backend's message, or "" when the body carries
// none.
func extractMessage(body []byte) string {
	v, err := decodeValue(body)
	if err != nil {
		return ""
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	return stringField(record(obj), messageKeys...)
}

// requestIDPaths is the precedence of the created request id.
var requestIDPaths = [][]string{
	{"id"},
	{"request_id"},
	{"data", "id"},
	{"request", "id"},
}

// extractRequestID returns the id of a created request, or nil when no
// positive id is present.
func extractRequestID(body []byte) *int64 {
	v, err := decodeValue(body)
	if err != nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, path := range requestIDPaths {
		current := record(obj)
		for _, key := range path[:len(path)-1] {
			next, ok := current[key].(map[string]any)
			if !ok {
				current = nil
				break
			}
			current = record(next)
		}
		if current == nil {
			continue
		}
		if id, ok := toInt(current[path[len(path)-1]]); ok && id > 0 {
			return &id
		}
	}
	return nil
}

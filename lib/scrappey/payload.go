package scrappey

import (
	"bytes"
	"encoding/json"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"
)

type PayloadKind int

const (
	PayloadNeither PayloadKind = iota
	PayloadJSON
	PayloadForm
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "json"
	case PayloadForm:
		return "form"
	}
	return "neither"
}

const jsonContentType = "application/json"

// ClassifyPayload reports whether payload is JSON or
// application/x-www-form-urlencoded, JSON takes precedence.
func ClassifyPayload(payload string) PayloadKind {
	if IsJSON(payload) {
		return PayloadJSON
	}
	if IsFormEncoded(payload) {
		return PayloadForm
	}
	return PayloadNeither
}

func IsJSON(payload string) bool {
	return json.Valid([]byte(payload))
}

// IsFormEncoded requires every "&" separated pair to contain exactly one "="
// with a non-empty key and value after percent-decoding.
func IsFormEncoded(payload string) bool {
	if !strings.Contains(payload, "=") {
		return false
	}
	for _, pair := range strings.Split(payload, "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return false
		}
		for _, part := range kv {
			decoded, ok := decodeComponent(part)
			if !ok || decoded == "" {
				return false
			}
		}
	}
	return true
}

// decodeComponent decodes %XX escapes only, "+" is kept literally. Escapes
// that do not decode to valid UTF-8 are rejected.
func decodeComponent(s string) (string, bool) {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", false
	}
	if !utf8.ValidString(decoded) {
		return "", false
	}
	return decoded, true
}

// InjectJSONContentType adds "content-type": "application/json" to a JSON
// object that has no content-type key (compared case-insensitively). The
// result is compacted, key order is kept. Anything that is not a JSON object
// is returned unchanged.
func InjectJSONContentType(payload string) (string, error) {
	var fields map[string]json.RawMessage
	err := json.Unmarshal([]byte(payload), &fields)
	if err != nil || fields == nil {
		return payload, nil
	}
	for k := range fields {
		if strings.ToLower(k) == "content-type" {
			return payload, nil
		}
	}

	var compact bytes.Buffer
	err = json.Compact(&compact, []byte(payload))
	if err != nil {
		return "", err
	}
	// compacted objects always end in "}"
	trimmed := bytes.TrimSpace(compact.Bytes())
	out := trimmed[:len(trimmed)-1]
	if len(fields) > 0 {
		out = append(out, ',')
	}
	out = append(out, `"content-type":"`+jsonContentType+`"}`...)
	return string(out), nil
}

// NormalizePayload turns the postData given to PostRequest into the string
// sent to scrappey.com. Structured values are serialized to JSON first. An
// empty string is accepted as "no body", nil is not.
func NormalizePayload(postData any) (string, error) {
	var payload string

	switch v := postData.(type) {
	case nil:
		return "", invalid(ErrMissingPostData, FieldPostData, "postData is required. Send empty String if you want to send no postData.")
	case string:
		payload = v
	case json.RawMessage:
		payload = string(v)
	default:
		if !isStructured(v) {
			return "", invalid(ErrInvalidPostDataType, FieldPostData, "postData must be a string.")
		}
		serialized, err := json.Marshal(v)
		if err != nil {
			return "", &ValidationError{
				Kind:    ErrInvalidPostData,
				Field:   FieldPostData,
				Message: "postData could not be serialized to JSON: " + err.Error(),
			}
		}
		payload = string(serialized)
	}

	if payload == "" {
		return payload, nil
	}
	switch ClassifyPayload(payload) {
	case PayloadJSON:
		return InjectJSONContentType(payload)
	case PayloadForm:
		return payload, nil
	}
	return "", invalid(ErrInvalidPostData, FieldPostData, "postData must be in JSON or FormData (application/x-www-form-urlencoded) format.")
}

func isStructured(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

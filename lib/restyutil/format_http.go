package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// query parameters that carry credentials
var redactedParams = []string{"key"}

const redacted = "REDACTED"

// RedactUrl replaces the value of credential query parameters.
func RedactUrl(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := u.Query()
	changed := false
	for _, p := range redactedParams {
		if query.Has(p) {
			query.Set(p, redacted)
			changed = true
		}
	}
	if !changed {
		return raw
	}
	u.RawQuery = query.Encode()
	return u.String()
}

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		for _, v := range headers[k] {
			lines = append(lines, fmt.Sprintf("%s: %s", k, v))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return string(readBody)
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response headers in ("Key: Value" format)
// 7: response body
const messageTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%d

%s

%s`

// FormatHttpMessage renders a request and its response the way they would
// appear on the wire, with credentials redacted.
func FormatHttpMessage(res *resty.Response) string {
	var requestHeaders http.Header
	var requestUrl string
	if raw := res.Request.RawRequest; raw != nil {
		requestHeaders = raw.Header
		requestUrl = raw.URL.String()
	} else {
		requestHeaders = res.Request.Header
		requestUrl = res.Request.URL
	}

	return fmt.Sprintf(
		messageTemplate,

		res.Request.Method, RedactUrl(requestUrl),
		formatHeaders(requestHeaders),
		formatRequestBody(res.Request.RawRequest),

		res.StatusCode(),
		formatHeaders(res.Header()),
		res.String(),
	)
}

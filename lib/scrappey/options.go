package scrappey

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
)

// field names understood by scrappey.com
const (
	FieldCmd           = "cmd"
	FieldUrl           = "url"
	FieldSession       = "session"
	FieldProxy         = "proxy"
	FieldProxyCountry  = "proxyCountry"
	FieldCookiejar     = "cookiejar"
	FieldCustomHeaders = "customHeaders"
	FieldAutoparse     = "autoparse"
	FieldProperties    = "properties"
	FieldPostData      = "postData"

	// deprecated alias of FieldSession
	FieldSessionId = "sessionId"
)

// Options is the loosely typed request payload. A key that exists counts as
// present, even when its value is nil.
type Options map[string]any

func (o Options) has(field string) bool {
	_, ok := o[field]
	return ok
}

func (o Options) clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// wireBody is the JSON object sent to scrappey.com, the endpoint always wins
// over a caller supplied cmd.
func (o Options) wireBody(endpoint Endpoint) map[string]any {
	body := make(map[string]any, len(o)+1)
	for k, v := range o {
		body[k] = v
	}
	body[FieldCmd] = string(endpoint)
	return body
}

type Cookie struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

type CreateSessionOptions struct {
	// Session lets the caller pick the id of the new session.
	Session      string
	Proxy        string
	ProxyCountry string
	Extra        map[string]any
}

func (o CreateSessionOptions) Options() Options {
	out := Options{}
	maps.Copy(out, o.Extra)
	setString(out, FieldSession, o.Session)
	setString(out, FieldProxy, o.Proxy)
	setString(out, FieldProxyCountry, o.ProxyCountry)
	return out
}

type RequestOptions struct {
	Url           string
	Session       string
	Proxy         string
	ProxyCountry  string
	Cookiejar     []Cookie
	CustomHeaders map[string]string
	Autoparse     *bool
	Properties    *string
	// Extra holds any other scrappey.com parameter, it is sent as-is.
	Extra map[string]any
}

func (o RequestOptions) Options() Options {
	out := Options{}
	maps.Copy(out, o.Extra)
	setString(out, FieldUrl, o.Url)
	setString(out, FieldSession, o.Session)
	setString(out, FieldProxy, o.Proxy)
	setString(out, FieldProxyCountry, o.ProxyCountry)
	if o.Cookiejar != nil {
		out[FieldCookiejar] = o.Cookiejar
	}
	if o.CustomHeaders != nil {
		out[FieldCustomHeaders] = o.CustomHeaders
	}
	if o.Autoparse != nil {
		out[FieldAutoparse] = *o.Autoparse
	}
	if o.Properties != nil {
		out[FieldProperties] = *o.Properties
	}
	return out
}

type PostRequestOptions struct {
	RequestOptions
	// PostData is either a string (JSON or form-urlencoded, "" for no body)
	// or a value that will be serialized to JSON. nil is rejected.
	PostData any
}

func (o PostRequestOptions) Options() Options {
	out := o.RequestOptions.Options()
	if o.PostData != nil {
		out[FieldPostData] = o.PostData
	}
	return out
}

func setString(out Options, field, value string) {
	if value != "" {
		out[field] = value
	}
}

// Response is the body scrappey.com responded with, byte for byte. It may
// not be JSON at all, it is only decoded when asked to.
type Response []byte

// Fields decodes the response as a JSON object, numbers are kept as
// json.Number so large integers survive.
func (r Response) Fields() (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(r))
	decoder.UseNumber()
	var fields map[string]any
	err := decoder.Decode(&fields)
	if err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("unexpected data after the top level object")
	}
	return fields, nil
}

// Session returns the "session" field of the response, if the response is an
// object and the field is a string.
func (r Response) Session() string {
	fields, err := r.Fields()
	if err != nil {
		return ""
	}
	s, _ := fields[FieldSession].(string)
	return s
}

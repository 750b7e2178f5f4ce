package scrappey

import (
	"fmt"
	"reflect"
	"strings"

	"scrappey-go/lib/scrappey/countries"
)

var proxySchemes = []string{"socks4://", "socks5://", "http://", "https://"}

// Notice is a non-fatal remark about the options of a request, the request
// is still sent.
type Notice struct {
	Code    string
	Message string
}

const (
	NoticeLegacySessionId       = "legacy_session_id"
	NoticeProxyOverridesCountry = "proxy_overrides_country"
	NoticeCmdOverridden         = "cmd_overridden"
)

// Validate checks opts against the rules of endpoint. It never mutates opts
// and never performs I/O. The notices gathered before a failing rule are
// returned alongside the error.
func Validate(endpoint Endpoint, opts Options) ([]Notice, error) {
	var notices []Notice

	if !endpoint.Valid() {
		return nil, invalid(ErrUnknownEndpoint, FieldCmd, "Invalid endpoint. Valid endpoints are", endpointNames()...)
	}

	if opts.has(FieldProxy) {
		proxy, ok := opts[FieldProxy].(string)
		if !ok {
			return notices, invalid(ErrInvalidProxyType, FieldProxy, "proxy parameter must be a string.")
		}
		if !hasProxyScheme(proxy) {
			return notices, invalid(ErrInvalidProxyScheme, FieldProxy, "Proxy must start with", proxySchemes...)
		}
		if opts.has(FieldProxyCountry) {
			notices = append(notices, Notice{
				Code:    NoticeProxyOverridesCountry,
				Message: "The 'proxy' property is defined. As a result, the 'proxyCountry' property will be ignored by scrappey.com.",
			})
		}
	}

	if opts.has(FieldProxyCountry) {
		country, ok := opts[FieldProxyCountry].(string)
		if !ok || !countries.IsRecognized(country) {
			return notices, unknownCountry(country)
		}
	}

	if opts.has(FieldCmd) {
		notices = append(notices, Notice{
			Code:    NoticeCmdOverridden,
			Message: "The 'cmd' property is defined. It will be overwritten by the selected endpoint, please do not define the endpoint in the options.",
		})
	}

	if endpoint.IsRequest() {
		err := validateRequest(opts)
		if err != nil {
			return notices, err
		}
	}

	if endpoint.IsSession() {
		if opts.has(FieldSession) {
			if _, ok := opts[FieldSession].(string); !ok {
				return notices, invalid(ErrInvalidSessionType, FieldSession, "session parameter must be a string.")
			}
		}
	}

	if endpoint == RequestPost {
		err := validatePostData(opts)
		if err != nil {
			return notices, err
		}
	}

	return notices, nil
}

func validateRequest(opts Options) error {
	if _, ok := opts[FieldUrl].(string); !ok {
		return invalid(ErrMissingURL, FieldUrl, "url parameter is required.")
	}

	// properties is type checked whenever autoparse is present, even when it
	// is false
	if opts.has(FieldAutoparse) {
		autoparse, ok := opts[FieldAutoparse].(bool)
		if !ok {
			return invalid(ErrInvalidAutoparseType, FieldAutoparse, "autoparse parameter must be a boolean.")
		}
		if autoparse && !opts.has(FieldProperties) {
			return invalid(ErrMissingProperties, FieldProperties, "properties parameter is required when autoparse is enabled.")
		}
		if _, ok := opts[FieldProperties].(string); !ok {
			return invalid(ErrInvalidPropertiesType, FieldProperties, "properties parameter must be a string.")
		}
	}

	if opts.has(FieldCustomHeaders) && !isHeaderMap(opts[FieldCustomHeaders]) {
		return invalid(ErrInvalidHeadersType, FieldCustomHeaders, "customHeaders parameter must be an object.")
	}

	if opts.has(FieldSession) {
		if _, ok := opts[FieldSession].(string); !ok {
			return invalid(ErrInvalidSessionType, FieldSession, "session parameter must be a string.")
		}
	}

	if opts.has(FieldCookiejar) {
		return ValidateCookies(opts[FieldCookiejar])
	}
	return nil
}

func validatePostData(opts Options) error {
	if !opts.has(FieldPostData) {
		return invalid(ErrMissingPostData, FieldPostData, "postData is required. Send empty String if you want to send no postData.")
	}
	if opts[FieldPostData] == nil {
		return errNullPostData()
	}
	payload, ok := opts[FieldPostData].(string)
	if !ok {
		return invalid(ErrInvalidPostDataType, FieldPostData, "postData must be a string.")
	}
	if payload != "" && ClassifyPayload(payload) == PayloadNeither {
		return invalid(ErrInvalidPostData, FieldPostData, "postData must be in JSON or FormData (application/x-www-form-urlencoded) format.")
	}
	return nil
}

// errNullPostData is returned for a postData key that is present with a nil
// value, it is neither missing nor a payload.
func errNullPostData() error {
	return invalid(ErrInvalidPostDataType, FieldPostData, "postData must be a string, not null.")
}

func hasProxyScheme(proxy string) bool {
	lower := strings.ToLower(proxy)
	for _, scheme := range proxySchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// isHeaderMap accepts any non-nil map, including http.Header and named map
// types.
func isHeaderMap(v any) bool {
	value := reflect.ValueOf(v)
	return value.Kind() == reflect.Map && !value.IsNil()
}

func unknownCountry(country string) *ValidationError {
	message := "Invalid proxyCountry. Valid proxyCountries are"
	if suggestion, ok := countries.Suggest(country); ok {
		message = fmt.Sprintf("Invalid proxyCountry %q (did you mean %q?). Valid proxyCountries are", country, suggestion)
	}
	return invalid(ErrUnknownProxyCountry, FieldProxyCountry, message, countries.All()...)
}

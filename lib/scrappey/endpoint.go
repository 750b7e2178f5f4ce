package scrappey

// Endpoint selects the command run by scrappey.com and the validation rules
// applied before it is sent.
type Endpoint string

const (
	SessionsCreate  Endpoint = "sessions.create"
	SessionsDestroy Endpoint = "sessions.destroy"
	RequestGet      Endpoint = "request.get"
	RequestPost     Endpoint = "request.post"
)

var (
	sessionEndpoints = []Endpoint{SessionsCreate, SessionsDestroy}
	requestEndpoints = []Endpoint{RequestGet, RequestPost}
)

// Endpoints returns every endpoint the client knows about.
func Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(sessionEndpoints)+len(requestEndpoints))
	out = append(out, sessionEndpoints...)
	out = append(out, requestEndpoints...)
	return out
}

func (e Endpoint) IsSession() bool {
	for _, s := range sessionEndpoints {
		if e == s {
			return true
		}
	}
	return false
}

func (e Endpoint) IsRequest() bool {
	for _, r := range requestEndpoints {
		if e == r {
			return true
		}
	}
	return false
}

func (e Endpoint) Valid() bool {
	return e.IsSession() || e.IsRequest()
}

func endpointNames() []string {
	endpoints := Endpoints()
	out := make([]string, len(endpoints))
	for i, e := range endpoints {
		out[i] = string(e)
	}
	return out
}

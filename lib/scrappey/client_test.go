package scrappey

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type exchange struct {
	key         string
	contentType string
	body        map[string]any
}

// fakeRemote stands in for scrappey.com, it answers every request with the
// result of respond.
type fakeRemote struct {
	*httptest.Server

	mutex     sync.Mutex
	exchanges []exchange
	respond   func(w http.ResponseWriter, r *http.Request)
}

func newFakeRemote(t *testing.T) *fakeRemote {
	remote := &fakeRemote{
		respond: func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"solution":{"verified":true}}`))
		},
	}
	remote.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Error(err)
			return
		}
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Error(err)
		}

		remote.mutex.Lock()
		remote.exchanges = append(remote.exchanges, exchange{
			key:         r.URL.Query().Get("key"),
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		})
		respond := remote.respond
		remote.mutex.Unlock()

		respond(w, r)
	}))
	t.Cleanup(remote.Close)
	return remote
}

func (f *fakeRemote) bodies() []map[string]any {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	out := make([]map[string]any, len(f.exchanges))
	for i, e := range f.exchanges {
		out[i] = e.body
	}
	return out
}

type warning struct {
	id     string
	params []any
}

type recordingTelemetry struct {
	mutex    sync.Mutex
	warnings []warning
	broken   []string
}

func (r *recordingTelemetry) ReportBroken(id string, params ...any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.broken = append(r.broken, id)
}

func (r *recordingTelemetry) ReportWarning(id string, params ...any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.warnings = append(r.warnings, warning{id: id, params: params})
}

func (r *recordingTelemetry) warningIds() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var out []string
	for _, w := range r.warnings {
		out = append(out, w.id)
	}
	return out
}

func newTestClient(t *testing.T, remote *fakeRemote, opts ClientOptions) (*Client, *recordingTelemetry) {
	tel := &recordingTelemetry{}
	opts.ApiKey = "test-key"
	opts.BaseUrl = remote.URL
	opts.Telemetry = tel
	client, err := NewClient(opts)
	require.NoError(t, err)
	return client, tel
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.ErrorIs(t, err, ErrMissingApiKey)

	client, err := NewClient(ClientOptions{ApiKey: "key"})
	require.NoError(t, err)
	require.Equal(t, DefaultBaseUrl, client.baseUrl)
	require.Equal(t, DefaultTimeout, client.http.GetClient().Timeout)
}

func TestSessionThenGet(t *testing.T) {
	remote := newFakeRemote(t)
	remote.respond = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"session":"S1"}`))
	}
	client, tel := newTestClient(t, remote, ClientOptions{})
	ctx := context.Background()

	created, err := client.CreateSession(ctx, CreateSessionOptions{})
	require.NoError(t, err)
	require.Equal(t, "S1", created.Session())
	require.Equal(t, `{"session":"S1"}`, string(created))

	_, err = client.GetRequest(ctx, RequestOptions{
		Url:     "https://x",
		Session: created.Session(),
	})
	require.NoError(t, err)

	expected := []map[string]any{
		{"cmd": "sessions.create"},
		{"cmd": "request.get", "url": "https://x", "session": "S1"},
	}
	if diff := cmp.Diff(expected, remote.bodies()); diff != "" {
		t.Fatal(diff)
	}
	for _, e := range remote.exchanges {
		require.Equal(t, "test-key", e.key)
		require.Equal(t, "application/json", e.contentType)
	}
	require.Empty(t, tel.warningIds())
}

func TestPostRequest(t *testing.T) {
	testCases := []struct {
		name     string
		postData any
		expected string
	}{
		{name: "form", postData: "a=1", expected: "a=1"},
		{name: "empty", postData: "", expected: ""},
		{name: "json", postData: `{"x":1}`, expected: `{"x":1,"content-type":"application/json"}`},
		{
			name:     "structured",
			postData: map[string]any{"username": "user123"},
			expected: `{"username":"user123","content-type":"application/json"}`,
		},
		{
			name:     "json with content type",
			postData: `{"x":1,"Content-Type":"application/json"}`,
			expected: `{"x":1,"Content-Type":"application/json"}`,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			remote := newFakeRemote(t)
			client, _ := newTestClient(t, remote, ClientOptions{})

			_, err := client.PostRequest(context.Background(), PostRequestOptions{
				RequestOptions: RequestOptions{Url: "https://x"},
				PostData:       test.postData,
			})
			require.NoError(t, err)

			expected := []map[string]any{{
				"cmd":      "request.post",
				"url":      "https://x",
				"postData": test.expected,
			}}
			if diff := cmp.Diff(expected, remote.bodies()); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestRejectedRequestsAreNotSent(t *testing.T) {
	remote := newFakeRemote(t)
	client, _ := newTestClient(t, remote, ClientOptions{})
	ctx := context.Background()

	_, err := client.PostRequest(ctx, PostRequestOptions{
		RequestOptions: RequestOptions{Url: "https://x", Session: "S1"},
	})
	require.ErrorIs(t, err, ErrMissingPostData)

	// misspelled postData
	_, err = client.PostRequestRaw(ctx, Options{FieldUrl: "https://x", "PostData": "a=1"})
	require.ErrorIs(t, err, ErrMissingPostData)

	_, err = client.PostRequest(ctx, PostRequestOptions{
		RequestOptions: RequestOptions{Url: "https://x"},
		PostData:       "not json and no equals",
	})
	require.ErrorIs(t, err, ErrInvalidPostData)

	nullBody := Options{FieldUrl: "https://x", FieldPostData: nil}
	_, postErr := client.PostRequestRaw(ctx, nullBody)
	require.ErrorIs(t, postErr, ErrInvalidPostDataType)
	_, dispatchErr := client.Dispatch(ctx, RequestPost, nullBody)
	require.ErrorIs(t, dispatchErr, ErrInvalidPostDataType)
	require.Equal(t, postErr.Error(), dispatchErr.Error())

	_, err = client.GetRequest(ctx, RequestOptions{})
	require.ErrorIs(t, err, ErrMissingURL)

	_, err = client.GetRequest(ctx, RequestOptions{Url: "https://x", Cookiejar: []Cookie{}})
	require.ErrorIs(t, err, ErrEmptySequence)

	_, err = client.CreateSession(ctx, CreateSessionOptions{Proxy: "ftp://x"})
	require.ErrorIs(t, err, ErrInvalidProxyScheme)

	_, err = client.CreateSession(ctx, CreateSessionOptions{ProxyCountry: "Narnia"})
	require.ErrorIs(t, err, ErrUnknownProxyCountry)

	_, err = client.DestroySession(ctx, "")
	require.ErrorIs(t, err, ErrMissingSession)

	_, err = client.Dispatch(ctx, "request.put", Options{})
	require.ErrorIs(t, err, ErrUnknownEndpoint)

	require.Empty(t, remote.bodies())
}

func TestDestroySession(t *testing.T) {
	remote := newFakeRemote(t)
	client, _ := newTestClient(t, remote, ClientOptions{})

	_, err := client.DestroySession(context.Background(), "S1")
	require.NoError(t, err)

	expected := []map[string]any{{"cmd": "sessions.destroy", "session": "S1"}}
	if diff := cmp.Diff(expected, remote.bodies()); diff != "" {
		t.Fatal(diff)
	}
}

func TestTypedOptions(t *testing.T) {
	remote := newFakeRemote(t)
	client, _ := newTestClient(t, remote, ClientOptions{})

	autoparse := true
	properties := "title, price"
	_, err := client.GetRequest(context.Background(), RequestOptions{
		Url:          "https://x",
		ProxyCountry: "Japan",
		Cookiejar: []Cookie{
			{Name: "a", Value: "b", Domain: "x", Path: "/"},
		},
		CustomHeaders: map[string]string{"auth": "token"},
		Autoparse:     &autoparse,
		Properties:    &properties,
		Extra:         map[string]any{"screenshot": true},
	})
	require.NoError(t, err)

	expected := []map[string]any{{
		"cmd":          "request.get",
		"url":          "https://x",
		"proxyCountry": "Japan",
		"cookiejar": []any{
			map[string]any{"name": "a", "value": "b", "domain": "x", "path": "/"},
		},
		"customHeaders": map[string]any{"auth": "token"},
		"autoparse":     true,
		"properties":    "title, price",
		"screenshot":    true,
	}}
	if diff := cmp.Diff(expected, remote.bodies()); diff != "" {
		t.Fatal(diff)
	}
}

func TestNotices(t *testing.T) {
	remote := newFakeRemote(t)
	client, tel := newTestClient(t, remote, ClientOptions{})
	ctx := context.Background()

	_, err := client.GetRequestRaw(ctx, Options{
		FieldUrl:       "https://x",
		FieldSessionId: "abc",
		FieldCmd:       "sessions.destroy",
	})
	require.NoError(t, err)

	_, err = client.CreateSession(ctx, CreateSessionOptions{
		Proxy:        "socks5://x:1080",
		ProxyCountry: "Germany",
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		"scrappey:" + NoticeLegacySessionId,
		"scrappey:" + NoticeCmdOverridden,
		"scrappey:" + NoticeProxyOverridesCountry,
	}, tel.warningIds())

	expected := []map[string]any{
		{"cmd": "request.get", "url": "https://x", "session": "abc"},
		{"cmd": "sessions.create", "proxy": "socks5://x:1080", "proxyCountry": "Germany"},
	}
	if diff := cmp.Diff(expected, remote.bodies()); diff != "" {
		t.Fatal(diff)
	}
}

func TestNoticesSuppressed(t *testing.T) {
	remote := newFakeRemote(t)
	client, tel := newTestClient(t, remote, ClientOptions{DisableVerboseErrors: true})

	_, err := client.GetRequestRaw(context.Background(), Options{
		FieldUrl:       "https://x",
		FieldSessionId: "abc",
		FieldCmd:       "sessions.destroy",
	})
	require.NoError(t, err)
	require.Empty(t, tel.warningIds())

	expected := []map[string]any{{"cmd": "request.get", "url": "https://x", "session": "abc"}}
	if diff := cmp.Diff(expected, remote.bodies()); diff != "" {
		t.Fatal(diff)
	}
}

func TestRemoteError(t *testing.T) {
	remote := newFakeRemote(t)
	remote.respond = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid key"}`))
	}
	client, _ := newTestClient(t, remote, ClientOptions{})

	_, err := client.CreateSession(context.Background(), CreateSessionOptions{})
	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	require.Equal(t, SessionsCreate, remoteErr.Endpoint)
	require.Equal(t, http.StatusUnauthorized, remoteErr.StatusCode)
	require.Equal(t, `{"error":"invalid key"}`, string(remoteErr.Body))
	require.Len(t, remote.bodies(), 1)
}

func TestRemoteFailurePayloadIsNotInterpreted(t *testing.T) {
	remote := newFakeRemote(t)
	remote.respond = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":"error","error":"CODE-0001"}`))
	}
	client, _ := newTestClient(t, remote, ClientOptions{})

	res, err := client.GetRequest(context.Background(), RequestOptions{Url: "https://x"})
	require.NoError(t, err)
	require.Equal(t, `{"data":"error","error":"CODE-0001"}`, string(res))
}

func TestResponseIsReturnedVerbatim(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "html", body: `<html>ok</html>`},
		{name: "empty", body: ``},
		{name: "array", body: `[1,2]`},
		{name: "string", body: `"done"`},
		{name: "large integer", body: `{"id":9007199254740993}`},
		{name: "whitespace", body: "{ \"a\" : 1 }\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remote := newFakeRemote(t)
			remote.respond = func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}
			client, tel := newTestClient(t, remote, ClientOptions{})

			res, err := client.GetRequest(context.Background(), RequestOptions{Url: "https://x"})
			require.NoError(t, err)
			require.Equal(t, tc.body, string(res))
			require.Empty(t, tel.broken)
		})
	}
}

func TestResponseFields(t *testing.T) {
	fields, err := Response(`{"id":9007199254740993,"session":"S1"}`).Fields()
	require.NoError(t, err)
	require.Equal(t, json.Number("9007199254740993"), fields["id"])
	require.Equal(t, "S1", fields["session"])

	for _, body := range []string{``, `<html>ok</html>`, `[1,2]`, `"done"`, `{"a":1} {"b":2}`} {
		_, err := Response(body).Fields()
		require.Error(t, err, body)
		require.Empty(t, Response(body).Session(), body)
	}
	require.Empty(t, Response(`{"session":5}`).Session())
}

func TestTransportErrors(t *testing.T) {
	remote := newFakeRemote(t)
	remote.respond = func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}

	client, _ := newTestClient(t, remote, ClientOptions{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.GetRequest(ctx, RequestOptions{Url: "https://x"})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	client, _ = newTestClient(t, remote, ClientOptions{Timeout: 50 * time.Millisecond})
	_, err = client.GetRequest(context.Background(), RequestOptions{Url: "https://x"})
	var netErr net.Error
	require.True(t, errors.As(err, &netErr))
	require.True(t, netErr.Timeout())

	// one attempt per call, no retries
	require.Len(t, remote.bodies(), 2)
}

func TestConcurrentCalls(t *testing.T) {
	remote := newFakeRemote(t)
	client, _ := newTestClient(t, remote, ClientOptions{})

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = client.GetRequest(context.Background(), RequestOptions{
				Url:          "https://x",
				ProxyCountry: "UnitedStates",
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, remote.bodies(), len(errs))
}

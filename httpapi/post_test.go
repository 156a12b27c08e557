package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/filekind"
	"github.com/meigma/filekind/httpapi"
)

type echo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newServer(t *testing.T, h nethttp.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return server
}

func newClient(server *httptest.Server, opts ...httpapi.Option) *httpapi.Client {
	base := []httpapi.Option{
		httpapi.WithHTTPClient(server.Client()),
		httpapi.WithBaseDelay(time.Millisecond),
		httpapi.WithMaxDelay(5 * time.Millisecond),
	}
	return httpapi.NewClient(server.URL+"/", append(base, opts...)...)
}

func TestPostJSON(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.Equal(t, nethttp.MethodPost, r.Method)
		assert.Equal(t, "/files/check", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "client-1", r.Header.Get(httpapi.ClientIDHeader))
		assert.Equal(t, "yes", r.Header.Get("X-Extra"))

		var in echo
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.Count++
		_ = json.NewEncoder(w).Encode(httpapi.Result[echo]{Message: "ok", Success: httpapi.StatusSuccess, Data: &in})
	})
	c := newClient(server, httpapi.WithClientID("client-1"), httpapi.WithHeader("X-Extra", "yes"))

	res, err := httpapi.PostJSON[httpapi.Result[echo]](context.Background(), c, "/files/check", echo{Name: "a", Count: 1})
	require.NoError(t, err)
	assert.True(t, res.IsSuccess())
	assert.False(t, res.IsFailed())
	require.True(t, res.HasData())
	assert.Equal(t, echo{Name: "a", Count: 2}, *res.Data)
}

func TestPostJSONRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(nethttp.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"message":"done","success":"SUCCESS"}`)
	})
	c := newClient(server)

	res, err := httpapi.PostJSON[httpapi.Result[echo]](context.Background(), c, "retry", map[string]int{})
	require.NoError(t, err)
	assert.Equal(t, "done", res.Message)
	assert.False(t, res.HasData())
	assert.Equal(t, int32(3), calls.Load())
}

func TestPostJSONGivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"boom"}`)
	})
	c := newClient(server, httpapi.WithMaxRetries(2))

	_, err := httpapi.PostJSON[echo](context.Background(), c, "fail", echo{})
	var respErr *httpapi.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, nethttp.StatusInternalServerError, respErr.StatusCode)
	assert.Equal(t, "boom", respErr.Message)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPostJSONDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"message":"bad input"}`)
	})
	c := newClient(server)

	_, err := httpapi.PostJSON[echo](context.Background(), c, "bad", echo{})
	var respErr *httpapi.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "bad input", respErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPostJSONTimeout(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	c := newClient(server, httpapi.WithTimeout(20*time.Millisecond), httpapi.WithMaxRetries(2))

	_, err := httpapi.PostJSON[echo](context.Background(), c, "slow", echo{})
	require.ErrorIs(t, err, httpapi.ErrTimeout)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPostJSONCanceled(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.WriteHeader(nethttp.StatusServiceUnavailable)
	})
	c := newClient(server)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := httpapi.PostJSON[echo](ctx, c, "any", echo{})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, httpapi.ErrTimeout)
}

func TestPostJSONDecodeError(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		_, _ = io.WriteString(w, "<html>")
	})
	c := newClient(server)

	_, err := httpapi.PostJSON[echo](context.Background(), c, "html", echo{})
	require.ErrorIs(t, err, httpapi.ErrDecode)
}

func TestPostJSONConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(nethttp.NotFoundHandler())
	url := server.URL
	server.Close()

	c := httpapi.NewClient(url, httpapi.WithBaseDelay(time.Millisecond))
	_, err := httpapi.PostJSON[echo](context.Background(), c, "gone", echo{})
	require.Error(t, err)
	assert.False(t, httpapi.ShouldRetry(err, 1, 3))
}

func TestPostForm(t *testing.T) {
	t.Parallel()

	server := newServer(t, func(w nethttp.ResponseWriter, r *nethttp.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "psd", r.FormValue("kind"))

		f, hdr, err := r.FormFile("upload")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)

		_ = json.NewEncoder(w).Encode(echo{Name: hdr.Filename, Count: len(content)})
	})
	c := newClient(server)

	raw := filekind.NewRawFile("photo.psd", []byte("8BPS...."))
	got, err := httpapi.PostForm[echo](context.Background(), c, "upload",
		map[string]string{"kind": "psd"}, httpapi.RawFormFile("upload", raw))
	require.NoError(t, err)
	assert.Equal(t, echo{Name: "photo.psd", Count: 8}, got)
}

func TestPostFormDoesNotRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		calls.Add(1)
		w.WriteHeader(nethttp.StatusBadGateway)
	})
	c := newClient(server)

	_, err := httpapi.PostForm[echo](context.Background(), c, "upload", nil)
	var respErr *httpapi.ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, "HTTP 502", respErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResponseErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"detail", `{"detail":"not found","message":"ignored"}`, "not found"},
		{"structured detail", `{"detail":[{"loc":["body"]}]}`, `[{"loc":["body"]}]`},
		{"message", `{"message":"rejected"}`, "rejected"},
		{"empty json", `{}`, "HTTP 404"},
		{"text", "  plain failure \n", "plain failure"},
		{"empty", "", "HTTP 404"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newServer(t, func(w nethttp.ResponseWriter, _ *nethttp.Request) {
				w.WriteHeader(nethttp.StatusNotFound)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := httpapi.PostJSON[echo](context.Background(), newClient(server), "x", echo{})

			var respErr *httpapi.ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, tt.want, respErr.Message)
			assert.Contains(t, err.Error(), "404")
		})
	}
}

func TestShouldRetry(t *testing.T) {
	t.Parallel()

	server500 := &httpapi.ResponseError{StatusCode: 500, Message: "x"}
	server404 := &httpapi.ResponseError{StatusCode: 404, Message: "x"}

	assert.True(t, httpapi.ShouldRetry(server500, 1, 3))
	assert.False(t, httpapi.ShouldRetry(server500, 3, 3))
	assert.False(t, httpapi.ShouldRetry(server404, 1, 3))
	assert.True(t, httpapi.ShouldRetry(httpapi.ErrTimeout, 2, 3))
	assert.False(t, httpapi.ShouldRetry(context.Canceled, 1, 3))
	assert.False(t, httpapi.ShouldRetry(errors.New("dial tcp: refused"), 1, 3))
	assert.False(t, httpapi.ShouldRetry(nil, 1, 3))
}

func TestClientDefaults(t *testing.T) {
	t.Parallel()

	a := httpapi.NewClient("http://localhost:8010/")
	b := httpapi.NewClient("http://localhost:8010/")
	assert.NotEmpty(t, a.ClientID())
	assert.NotEqual(t, a.ClientID(), b.ClientID())
	assert.Equal(t, "http://localhost:8010/", a.BaseURL())
}

func TestResultValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, httpapi.Result[echo]{Success: httpapi.StatusFailed}.Validate())
	require.Error(t, httpapi.Result[echo]{}.Validate())
	require.Error(t, httpapi.Result[echo]{Success: "MAYBE"}.Validate())

	jf, err := filekind.NewJSONFile(filekind.NewRawFile("result.json",
		[]byte(`{"message":"m","success":"FAILED","data":null}`)))
	require.NoError(t, err)
	res, err := filekind.ParseToObject[httpapi.Result[echo]](jf, httpapi.Result[echo].Validate)
	require.NoError(t, err)
	assert.True(t, res.IsFailed())
	assert.False(t, res.HasData())
}

// ABOUTME: In-process http.RoundTripper that serves requests through a handler.
// ABOUTME: Lets pages use the REST contract without opening a socket.

package crud

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// HandlerTransport answers requests by calling Handler directly.
type HandlerTransport struct {
	Handler http.Handler
	// RemoteAddr is reported to the handler when the request carries none.
	RemoteAddr string
}

func (t HandlerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Requests issued from inside a chi handler carry its route context;
	// the target router must start from a fresh one.
	in := req.Clone(context.WithValue(req.Context(), chi.RouteCtxKey, nil))
	if in.Body == nil {
		in.Body = http.NoBody
	}
	in.RequestURI = in.URL.RequestURI()
	if in.RemoteAddr == "" {
		in.RemoteAddr = t.RemoteAddr
		if in.RemoteAddr == "" {
			in.RemoteAddr = "127.0.0.1:0"
		}
	}

	rec := &responseRecorder{header: make(http.Header)}
	t.Handler.ServeHTTP(rec, in)
	if rec.status == 0 {
		rec.status = http.StatusOK
	}

	body := rec.body.Bytes()
	resp := &http.Response{
		Status:        strconv.Itoa(rec.status) + " " + http.StatusText(rec.status),
		StatusCode:    rec.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        rec.header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
	return resp, nil
}

type responseRecorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func (r *responseRecorder) Header() http.Header { return r.header }

func (r *responseRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = code
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.body.Write(b)
}

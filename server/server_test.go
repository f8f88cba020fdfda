package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FitrahHaque/Repetition-Engine/compressor/lz77"
	"github.com/FitrahHaque/Repetition-Engine/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	New(nil).Handler().ServeHTTP(w, req)
	return w.Result()
}

func TestDetect(t *testing.T) {
	resp := post(t, "/detect", `{"tokens":["A","B","C","A","B","C"],"window":6}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report engine.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 6, report.Tokens)
	assert.Equal(t, "request", report.Source)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, []engine.Group{{
		Tokens:    []string{"A", "B", "C"},
		Length:    3,
		Intervals: [][2]int{{0, 3}, {3, 6}},
	}}, report.Groups)
}

func TestCompress(t *testing.T) {
	resp := post(t, "/compress", `{"tokens":["A","B","A","B"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got CompressResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, []lz77.Triple{{Offset: 0, Length: 0, Next: 1}, {Offset: 0, Length: 0, Next: 2}, {Offset: 2, Length: 2, Next: lz77.End}}, got.Stream)
}

func TestCompressEmpty(t *testing.T) {
	resp := post(t, "/compress", `{"tokens":[]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"stream":[]}`, string(body))
}

func TestBadRequests(t *testing.T) {
	for _, body := range []string{`{"tokens":`, `{"tokens":["a"],"window":-2}`} {
		resp := post(t, "/detect", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var e ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.NotEmpty(t, e.Error)
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	New(nil).Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/detect", nil)
	w := httptest.NewRecorder()
	New(nil).Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(nil).Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}

func TestListenAndServeAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = New(nil).ListenAndServe(context.Background(), ln.Addr().String())
	assert.Error(t, err)
}

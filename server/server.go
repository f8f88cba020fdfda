package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/FitrahHaque/Repetition-Engine/compressor/lz77"
	"github.com/FitrahHaque/Repetition-Engine/engine"
	"github.com/FitrahHaque/Repetition-Engine/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// requestSource names reports built from request bodies; each report
// still carries its own id.
const requestSource = "request"

// maxBody bounds request bodies; annotation sequences are small.
const maxBody = 8 << 20

type DetectRequest struct {
	Tokens []string `json:"tokens"`
	Window int      `json:"window"`
}

type CompressResponse struct {
	Stream []lz77.Triple `json:"stream"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

type Server struct {
	log logging.Logger
}

func New(log logging.Logger) *Server {
	if log == nil {
		log = &logging.NoOpLogger{}
	}
	return &Server{log: log}
}

// Handler returns the router wrapped for cross-origin renderers.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/detect", s.HandleDetect).Methods(http.MethodPost)
	router.HandleFunc("/compress", s.HandleCompress).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.HandleHealth).Methods(http.MethodGet)
	return cors.Default().Handler(router)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or serving fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			srv.Close()
		case <-stopped:
		}
	}()
	s.log.Info("listening", logging.Fields{"addr": ln.Addr().String()})
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) HandleDetect(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	report, err := s.engine(req).DetectTokens(r.Context(), requestSource, req.Tokens)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) HandleCompress(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	report, err := s.engine(req).DetectTokens(r.Context(), requestSource, req.Tokens)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	stream := report.Stream
	if stream == nil {
		stream = []lz77.Triple{}
	}
	writeJSON(w, http.StatusOK, CompressResponse{Stream: stream})
}

func (s *Server) engine(req DetectRequest) *engine.Engine {
	return engine.New(engine.Options{Window: req.Window}, s.log)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (DetectRequest, bool) {
	var req DetectRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return req, false
	}
	if err := json.Unmarshal(body, &req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return req, false
	}
	if req.Window < 0 {
		s.fail(w, http.StatusBadRequest, lz77.ErrInvalidWindow)
		return req, false
	}
	return req, true
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request rejected", logging.Fields{"status": status, "error": err.Error()})
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

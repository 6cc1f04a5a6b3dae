package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/raphaelreyna/liquette/pkg/frontend"
	"github.com/raphaelreyna/liquette/pkg/log"
)

const DefaultAddr = ":27182"

// Server is an HTTP ingress: rendering requests posted to it are handed to
// whatever handles its requests channel.
type Server struct {
	router  *mux.Router
	httpSrv *http.Server
	addr    string
	logger  zerolog.Logger

	reqChan chan *frontend.Request

	mu       sync.Mutex
	listener net.Listener
	stopOnce sync.Once
}

func NewServer(addr string, logger zerolog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{
		addr:    addr,
		logger:  logger,
		reqChan: make(chan *frontend.Request),
	}
	s.routes()

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the router wrapped in the CORS, access log and request
// logger middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = hlog.NewHandler(s.logger)(h)
	h = handlers.CombinedLoggingHandler(s.logger, h)
	h = handlers.CORS(
		handlers.AllowedHeaders([]string{
			"X-Requested-With", "Content-Type", "Authorization", "Access-Control-Allow-Origin",
		}),
		handlers.AllowedMethods([]string{
			"GET", "POST", "HEAD", "OPTIONS",
		}),
		handlers.AllowedOrigins([]string{"*"}),
	)(h)
	return h
}

// Addr returns the address the server listens on once started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) Start(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	log.Info(ctx, "listening for HTTP traffic", nil, "addr", l.Addr().String())

	go func() {
		if err := s.httpSrv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server stopped", err)
		}
	}()

	return nil
}

// Stop shuts the HTTP server down, waiting for in-flight requests, then
// closes the requests channel.
func (s *Server) Stop(ctx context.Context) (err error) {
	s.stopOnce.Do(func() {
		err = s.httpSrv.Shutdown(ctx)
		close(s.reqChan)
	})
	return err
}

func (s *Server) RequestsChan() <-chan *frontend.Request {
	return s.reqChan
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, payload any, code int) {
	if payload == nil {
		w.WriteHeader(code)
		return
	}

	switch p := payload.(type) {
	case string:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(code)
		w.Write([]byte(p))
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("error encoding response")
		}
	}
}

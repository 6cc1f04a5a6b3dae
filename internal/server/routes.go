package server

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() {
	s.router = mux.NewRouter()
	s.router.HandleFunc("/ping", s.handlePing()).Methods("GET", "HEAD")
	s.router.HandleFunc("/render", s.handleRender()).Methods("POST")
	s.router.HandleFunc("/partials", s.handlePartials()).Methods("POST")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

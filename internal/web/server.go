package web

import (
	"log/slog"
	"net/http"

	"github.com/intelligrit/room-index/internal/model"
)

// Server serves a finished index and free-room lookups as JSON.
type Server struct {
	Index  *model.Index
	Addr   string
	Logger *slog.Logger
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/index", s.handleIndex)
	mux.HandleFunc("/api/buildings", s.handleBuildings)
	mux.HandleFunc("/api/rooms", s.handleRooms)
	mux.HandleFunc("/api/search", s.handleSearch)

	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger().Info("serving", "addr", "http://"+s.Addr, "rooms", len(s.Index.Rooms), "days", len(s.Index.Available))
	return http.ListenAndServe(s.Addr, s.Handler())
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

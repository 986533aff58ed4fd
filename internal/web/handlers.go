package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/intelligrit/room-index/internal/campus"
	"github.com/intelligrit/room-index/internal/model"
	"github.com/intelligrit/room-index/internal/search"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Index)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Index.Buildings)
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	buildingStr := r.URL.Query().Get("building")
	if buildingStr == "" {
		writeJSON(w, s.Index.Rooms)
		return
	}

	building, err := strconv.Atoi(buildingStr)
	if err != nil {
		http.Error(w, "invalid 'building' parameter", http.StatusBadRequest)
		return
	}

	filtered := map[int]model.Room{}
	for id, room := range s.Index.Rooms {
		if room.Building == building {
			filtered[id] = room
		}
	}
	writeJSON(w, filtered)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	day := params.Get("day")
	if _, err := time.Parse(model.DayKeyFormat, day); err != nil {
		http.Error(w, "invalid 'day' parameter", http.StatusBadRequest)
		return
	}

	from, err := campus.ParseClock(params.Get("from"))
	if err != nil {
		http.Error(w, "invalid 'from' parameter", http.StatusBadRequest)
		return
	}

	q := search.Query{Day: day, From: from}
	if toStr := params.Get("to"); toStr != "" {
		to, err := campus.ParseClock(toStr)
		if err != nil {
			http.Error(w, "invalid 'to' parameter", http.StatusBadRequest)
			return
		}
		q.To, q.HasTo = to, true
	}

	rooms, err := search.Search(s.Index, q)
	if errors.Is(err, search.ErrUnbookable) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.logger().Error("search failed", "query", r.URL.RawQuery, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger().Debug("search", "day", day, "from", from, "results", len(rooms))
	writeJSON(w, rooms)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// Wildcard CORS: the lookup page may be served from a different origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if v == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

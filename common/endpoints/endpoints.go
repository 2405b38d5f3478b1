// Package endpoints serves operational http endpoints: health and stats.
package endpoints

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/smoke/common/stats"
)

func NewTwitterServer(addr string, stat stats.StatsReceiver) *TwitterServer {
	return &TwitterServer{
		Addr:  addr,
		Stats: stat,
	}
}

type TwitterServer struct {
	Addr  string
	Stats stats.StatsReceiver
}

func (s *TwitterServer) Serve() error {
	log.Info("Serving http & stats on ", s.Addr)
	return http.ListenAndServe(s.Addr, s.mux())
}

func (s *TwitterServer) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", helpHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/admin/metrics.json", s.statsHandler)
	return mux
}

func helpHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Common paths: '/health', '/admin/metrics.json'", 501)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok")
}

func (s *TwitterServer) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	pretty := r.URL.Query().Get("pretty") == "true"
	str := s.Stats.Render(pretty)
	if _, err := io.Copy(w, bytes.NewBuffer(str)); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}

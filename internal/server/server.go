// Package server exposes the computed schedule over HTTP so planning tools
// can pull it as JSON or MessagePack instead of re-running the scheduler.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/skysurvey/nightsched/internal/types"
	"github.com/skysurvey/nightsched/pkg/config"
)

// Server serves the schedule computed for one date range.
type Server struct {
	cfg       *config.ConfigData
	logger    *zap.SugaredLogger
	formatter *Formatter
	nights    []types.ScheduleNight
	byDate    map[string]*types.ScheduleNight
	http      *http.Server
}

// New builds a server over the assembled nights.
func New(cfg *config.ConfigData, nights []types.ScheduleNight, logger *zap.SugaredLogger) *Server {
	byDate := make(map[string]*types.ScheduleNight, len(nights))
	for i := range nights {
		byDate[nights[i].Date.Format("2006-01-02")] = &nights[i]
	}
	return &Server{
		cfg:       cfg,
		logger:    logger,
		formatter: NewFormatter(),
		nights:    nights,
		byDate:    byDate,
	}
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/schedule", s.handleSchedule).Methods(http.MethodGet)
	r.HandleFunc("/schedule/{date}", s.handleNight).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.ListenAddr, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("schedule server listening on %s", addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

func (s *Server) handleSchedule(w http.ResponseWriter, req *http.Request) {
	if err := s.formatter.WriteResponse(w, req, s.nights); err != nil {
		s.logger.Errorf("writing schedule response: %v", err)
	}
}

func (s *Server) handleNight(w http.ResponseWriter, req *http.Request) {
	date := mux.Vars(req)["date"]
	n, ok := s.byDate[date]
	if !ok {
		s.formatter.WriteError(w, http.StatusNotFound, fmt.Sprintf("no night for date %s", date))
		return
	}
	if err := s.formatter.WriteResponse(w, req, n); err != nil {
		s.logger.Errorf("writing night response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, req *http.Request) {
	s.formatter.WriteResponse(w, req, map[string]any{
		"status": "ok",
		"nights": len(s.nights),
		"site":   s.cfg.Site.Name,
	})
}

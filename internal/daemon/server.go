package daemon

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"dropzone/internal/logger"
	"dropzone/internal/model"
	"dropzone/internal/repository"
	"dropzone/internal/status"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// HistoryReader serves persisted transfers to the status API.
type HistoryReader interface {
	GetRecent(n int) ([]model.Transfer, error)
	GetFailed() ([]model.Transfer, error)
	GetStats() (repository.Stats, error)
}

type Server struct {
	echo    *echo.Echo
	coord   *Coordinator
	store   status.Store
	history HistoryReader
	port    int
}

type StatusResponse struct {
	Stopping bool                   `json:"stopping"`
	Active   int                    `json:"active"`
	Buckets  map[string]int         `json:"buckets"`
	Records  []model.TrackingRecord `json:"records"`
	Jobs     []HandleSnapshot       `json:"jobs"`
}

func NewServer(coord *Coordinator, store status.Store, history HistoryReader, port int) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		coord:   coord,
		store:   store,
		history: history,
		port:    port,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/status", s.handleStatus)
	s.echo.POST("/stop", s.handleStop)
	s.echo.GET("/history", s.handleHistory)
	s.echo.GET("/history/stats", s.handleHistoryStats)
}

func (s *Server) Start() {
	go func() {
		addr := "127.0.0.1:" + strconv.Itoa(s.port)
		logger.Log.Info("status server started",
			zap.String("addr", addr))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("status server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleStatus(c echo.Context) error {
	records := s.store.Snapshot()
	active, _ := s.coord.classify()

	return c.JSON(http.StatusOK, StatusResponse{
		Stopping: s.coord.StopRequested(),
		Active:   active,
		Buckets:  status.Counts(status.Classify(records)),
		Records:  records,
		Jobs:     s.coord.Handles(),
	})
}

func (s *Server) handleStop(c echo.Context) error {
	s.coord.RequestStop()
	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history is not available"})
	}

	if c.QueryParam("failed") == "true" {
		failed, err := s.history.GetFailed()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, failed)
	}

	n := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "n must be a positive integer"})
		}
		n = parsed
	}

	transfers, err := s.history.GetRecent(n)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, transfers)
}

func (s *Server) handleHistoryStats(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history is not available"})
	}

	stats, err := s.history.GetStats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

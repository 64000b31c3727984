package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	logger "github.com/chi-middleware/logrus-logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"coedit/internal/collab"
	"coedit/internal/handlers"
	"coedit/internal/handlers/room"
	"coedit/internal/ws"
)

type Server struct {
	Addr         string
	Collab       *collab.Service
	Channels     *ws.Table
	PingInterval time.Duration

	httpSrv *http.Server
}

func NewServer(addr string, svc *collab.Service, channels *ws.Table, pingInterval time.Duration) *Server {
	return &Server{
		Addr:         addr,
		Collab:       svc,
		Channels:     channels,
		PingInterval: pingInterval,
	}
}

func HandlerFunc(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	}
}

// Router builds the full route table. Split out of Run so tests can mount it
// on an httptest server.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// middlewares
	r.Use(logger.Logger("router", logrus.StandardLogger()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprintln(w, "Real-Time Code Editor API")
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", HandlerFunc(&room.CreateRoomHandler{Collab: s.Collab}))
			r.Get("/{id}", HandlerFunc(&room.GetRoomHandler{Collab: s.Collab}))
			r.Post("/{id}/join", HandlerFunc(&room.JoinRoomHandler{Collab: s.Collab}))
			r.Post("/{id}/code", HandlerFunc(&room.EditCodeHandler{Collab: s.Collab}))
			r.Post("/{id}/cursor", HandlerFunc(&room.CursorHandler{Collab: s.Collab}))
			r.Post("/{id}/save", HandlerFunc(&room.SaveRoomHandler{Collab: s.Collab}))
			r.Post("/{id}/leave", HandlerFunc(&room.LeaveRoomHandler{Collab: s.Collab}))
		})
	})

	r.Get("/health", handlers.HealthCheck)

	// event stream endpoint
	r.Get("/ws", HandlerFunc(&handlers.StreamHandler{
		Channels:     s.Channels,
		PingInterval: s.PingInterval,
	}))

	return r
}

func (s *Server) Run() error {
	s.httpSrv = &http.Server{Addr: s.Addr, Handler: s.Router()}
	logrus.Infof("server running on %s", s.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

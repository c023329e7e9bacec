package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	handler    *ScrapeHandler
}

func NewServer(addr string, handler *ScrapeHandler) (*Server, error) {
	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	router.Use(RequestIDMiddleware())

	s := &Server{
		httpServer: &http.Server{Addr: addr, Handler: router},
		router:     router,
		handler:    handler,
	}
	s.SetUpRoutes()
	return s, nil
}

func (s *Server) SetUpRoutes() {
	s.router.GET("/", s.handler.Health)
	s.router.GET("/run-scraper", s.handler.RunScraper)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run blocks until the server fails or is shut down, then returns http.ErrServerClosed.
func (s *Server) Run() error {
	log.Printf("🌐 Server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown waits for in-flight runs until ctx expires. Called before Run, it makes Run return
// at once.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	log.Println("Server shutdown completed")
	return nil
}

// RequestIDMiddleware reuses the caller's X-Request-ID or mints one, and echoes it back.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

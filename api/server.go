// Package api serves a read-only HTTP view of the guild registry.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// ServerConfig contains the base Server configuration
type ServerConfig struct {
	BindAddr string
	Port     int
	APIKey   string
}

// A Server runs the HTTP API.
type Server struct {
	http.Server
	sc ServerConfig
}

// NewServer creates a Server
func NewServer(sc ServerConfig, gl guildLister) *Server {
	s := Server{
		Server: http.Server{
			Addr:              fmt.Sprintf("%s:%d", sc.BindAddr, sc.Port),
			ReadHeaderTimeout: 10 * time.Second,
		},
		sc: sc,
	}

	requestUUID := requestUUID{}
	serverAuth := serverAuth{apiKey: sc.APIKey}
	r := mux.NewRouter()

	// Handles all /api requests, and sets the server auth handler
	api := r.PathPrefix("/api").Subrouter()
	api.Use(requestUUID.handle)
	api.Use(serverAuth.handle)

	initGuilds(api, "/servers/{server_id}/guilds", gl)

	s.Handler = r

	return &s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		log.Infof("Starting HTTP Server on %s:%d", s.sc.BindAddr, s.sc.Port)
		if err := s.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Warn("HTTP server died with error")
		} else {
			log.Info("HTTP server graceful shutdown")
		}
	}()

	return nil
}

// Stop stops the http server
func (s *Server) Stop() {
	log.Warn("Shutting down HTTP server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("Shutdown request error")
	}
}

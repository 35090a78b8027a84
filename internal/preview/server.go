// Package preview serves the site directory over HTTP so the operator
// can look at the freshly inserted post.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Server is a static file server, usually bound to an ephemeral port.
type Server struct {
	ln  net.Listener
	srv *http.Server
}

// Listen binds addr (port 0 picks a free port) and prepares to serve the
// files under dir.
func Listen(addr, dir string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		ln:  ln,
		srv: &http.Server{Handler: http.FileServer(http.Dir(dir))},
	}, nil
}

// URL returns the reachable address of the bound listener.
func (s *Server) URL() string {
	return fmt.Sprintf("http://%s/", s.ln.Addr())
}

// Serve blocks until Shutdown is called or the listener fails.
func (s *Server) Serve() error {
	if err := s.srv.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, letting in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

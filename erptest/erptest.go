// Package erptest runs an in-process stand-in for the Mietwerk REST backend
// so client code can be exercised against real HTTP without a live server.
// It serves a small fixture data set, optionally enforces bearer auth, and
// counts requests per path so tests can assert that a response came from the
// cache rather than the network.
package erptest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo  *echo.Echo
	ts    *httptest.Server
	token string

	mu       sync.Mutex
	hits     map[string]int
	invoices []map[string]any
}

type Option func(*Server)

// WithToken makes the server reject requests without the given bearer token.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New starts the fake backend on a random local port.
func New(opts ...Option) *Server {
	s := &Server{
		hits:     make(map[string]int),
		invoices: append([]map[string]any(nil), invoiceFixtures...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.countRequests)
	e.Use(s.requireBearer)

	e.GET("/api/v1/properties", listHandler(propertyFixtures))
	e.GET("/api/v1/tenants", listHandler(tenantFixtures))
	e.GET("/api/v1/contracts", listHandler(contractFixtures))
	e.GET("/api/v1/invoices", s.listInvoices)
	e.GET("/api/v1/dashboard/stats", func(c echo.Context) error {
		return c.JSON(http.StatusOK, statsFixture)
	})
	e.GET("/api/v1/users/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, userFixture)
	})
	e.POST("/api/v1/invoices", s.createInvoice)
	e.PUT("/api/v1/invoices/:id", s.updateInvoice)
	e.DELETE("/api/v1/invoices/:id", s.deleteInvoice)

	s.echo = e
	s.ts = httptest.NewServer(e)
	return s
}

// BaseURL returns the server's base URL.
func (s *Server) BaseURL() string { return s.ts.URL }

// Close shuts the server down.
func (s *Server) Close() { s.ts.Close() }

// Hits reports how many requests reached the given path over the network.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.hits[c.Request().URL.Path]++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.token == "" {
			return next(c)
		}
		if c.Request().Header.Get("Authorization") != "Bearer "+s.token {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		return next(c)
	}
}

func listHandler(rows []map[string]any) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{"data": rows})
	}
}

func (s *Server) listInvoices(c echo.Context) error {
	s.mu.Lock()
	rows := append([]map[string]any(nil), s.invoices...)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{"data": rows})
}

func (s *Server) createInvoice(c echo.Context) error {
	var invoice map[string]any
	if err := c.Bind(&invoice); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	s.mu.Lock()
	s.invoices = append(s.invoices, invoice)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, invoice)
}

func (s *Server) updateInvoice(c echo.Context) error {
	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, invoice := range s.invoices {
		if invoice["id"] == id {
			updated := make(map[string]any, len(invoice))
			for k, v := range invoice {
				updated[k] = v
			}
			for k, v := range patch {
				updated[k] = v
			}
			s.invoices[i] = updated
			return c.JSON(http.StatusOK, updated)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "invoice not found"})
}

func (s *Server) deleteInvoice(c echo.Context) error {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, invoice := range s.invoices {
		if invoice["id"] == id {
			s.invoices = append(s.invoices[:i], s.invoices[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "invoice not found"})
}

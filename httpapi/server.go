// Package httpapi is the echo-based HTTP service surface that wires the
// pure compiler core together with its service-layer collaborators:
// reusable templates, print drafts, scoped counters, the printer registry,
// and a hosted preview renderer.
package httpapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zplgrid/zplgrid/counterstore"
	"github.com/zplgrid/zplgrid/draftstore"
	"github.com/zplgrid/zplgrid/library"
	"github.com/zplgrid/zplgrid/preview"
	"github.com/zplgrid/zplgrid/printer"
	"github.com/zplgrid/zplgrid/template"
)

// Server holds every collaborator a handler might need. Nil collaborators
// are fine for routes that never need them (so package tests can exercise
// e.g. only the render path without a printer registry).
type Server struct {
	Library  *library.Library
	Drafts   *draftstore.Store
	Counters *counterstore.Store
	Printers *printer.Config
	Preview  *preview.Client

	// Now overrides the clock macros see. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Register mounts every route onto e.
func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/render/zpl", s.handleRenderZPL)
	e.POST("/v1/render/preview", s.handleRenderPreview)

	e.POST("/v1/drafts", s.handleCreateDraft)
	e.GET("/v1/drafts/:id", s.handleGetDraft)

	e.POST("/v1/print/:printer_id", s.handlePrint)

	e.GET("/v1/templates", s.handleListTemplates)
	e.POST("/v1/templates", s.handleCreateTemplate)
	e.GET("/v1/templates/:id", s.handleGetTemplate)
	e.PUT("/v1/templates/:id", s.handleUpdateTemplate)
	e.DELETE("/v1/templates/:id", s.handleDeleteTemplate)
}

// errorResponse maps a core error to the status code table from spec.md
// §7: any recognised compiler error kind is a client mistake (400),
// anything else (I/O, a missing collaborator, a bug) is a 500.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if _, ok := template.KindOf(err); ok {
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}

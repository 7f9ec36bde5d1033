package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zplgrid/zplgrid/draftstore"
)

type createDraftRequest struct {
	Template  json.RawMessage   `json:"template"`
	Variables map[string]string `json:"variables"`
	Target    targetInput       `json:"target"`
	Debug     bool              `json:"debug"`
}

type draftResponse struct {
	DraftID   string            `json:"draft_id"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Template  json.RawMessage   `json:"template"`
	Variables map[string]string `json:"variables"`
	Target    targetInput       `json:"target"`
	Debug     bool              `json:"debug"`
}

func draftToResponse(e *draftstore.Entry) draftResponse {
	return draftResponse{
		DraftID:   e.DraftID,
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
		Template:  e.Template,
		Variables: e.Variables,
		Target:    targetInputFromDraft(e.Target),
		Debug:     e.Debug,
	}
}

func (s *Server) handleCreateDraft(c echo.Context) error {
	if s.Drafts == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "draft store is not configured"})
	}

	var req createDraftRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	entry, err := s.Drafts.Save(req.Template, req.Variables, req.Target.toDraftTarget(), req.Debug)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, draftToResponse(entry))
}

func (s *Server) handleGetDraft(c echo.Context) error {
	if s.Drafts == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "draft store is not configured"})
	}

	entry, err := s.Drafts.Load(c.Param("id"))
	if errors.Is(err, draftstore.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "draft not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, draftToResponse(entry))
}

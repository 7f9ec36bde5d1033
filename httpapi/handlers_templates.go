package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zplgrid/zplgrid/library"
)

type templateSummary struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Tags          []string              `json:"tags"`
	Variables     []library.VariableDoc `json:"variables"`
	PreviewTarget map[string]any        `json:"preview_target,omitempty"`
}

func summaryFromEntry(e library.Entry) templateSummary {
	return templateSummary{
		ID:            e.ID,
		Name:          e.Name,
		Tags:          e.Tags,
		Variables:     e.Variables,
		PreviewTarget: e.PreviewTarget,
	}
}

type templateDetail struct {
	templateSummary
	Template   json.RawMessage `json:"template"`
	SampleData json.RawMessage `json:"sample_data"`
}

func detailFromEntry(e library.Entry) (templateDetail, error) {
	tplData, err := readEntryFile(e.TemplatePath())
	if err != nil {
		return templateDetail{}, err
	}
	sampleData, err := readEntryFile(e.SampleDataPath())
	if err != nil {
		return templateDetail{}, err
	}
	return templateDetail{
		templateSummary: summaryFromEntry(e),
		Template:        tplData,
		SampleData:      sampleData,
	}, nil
}

type templateSaveRequest struct {
	Name          string                `json:"name"`
	Tags          []string              `json:"tags"`
	Variables     []library.VariableDoc `json:"variables"`
	PreviewTarget map[string]any        `json:"preview_target"`
	Template      json.RawMessage       `json:"template"`
	SampleData    json.RawMessage       `json:"sample_data"`
}

func (r templateSaveRequest) toPayload() library.SavePayload {
	return library.SavePayload{
		Name:          r.Name,
		Tags:          r.Tags,
		Variables:     r.Variables,
		PreviewTarget: r.PreviewTarget,
		Template:      r.Template,
		SampleData:    r.SampleData,
	}
}

func (s *Server) handleListTemplates(c echo.Context) error {
	if s.Library == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "template library is not configured"})
	}
	var filterTags []string
	if raw := c.QueryParam("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				filterTags = append(filterTags, t)
			}
		}
	}
	entries, err := s.Library.List(filterTags)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	summaries := make([]templateSummary, 0, len(entries))
	for _, e := range entries {
		summaries = append(summaries, summaryFromEntry(e))
	}
	return c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleCreateTemplate(c echo.Context) error {
	if s.Library == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "template library is not configured"})
	}
	var req templateSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	entry, err := s.Library.Create(req.toPayload())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	detail, err := detailFromEntry(entry)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, detail)
}

func (s *Server) handleGetTemplate(c echo.Context) error {
	if s.Library == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "template library is not configured"})
	}
	entry, err := s.Library.Get(c.Param("id"))
	if errors.Is(err, library.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "template not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	detail, err := detailFromEntry(entry)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handleUpdateTemplate(c echo.Context) error {
	if s.Library == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "template library is not configured"})
	}
	var req templateSaveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	entry, err := s.Library.Update(c.Param("id"), req.toPayload())
	if errors.Is(err, library.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "template not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	detail, err := detailFromEntry(entry)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, detail)
}

func (s *Server) handleDeleteTemplate(c echo.Context) error {
	if s.Library == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "template library is not configured"})
	}
	err := s.Library.Delete(c.Param("id"))
	if errors.Is(err, library.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "template not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func readEntryFile(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

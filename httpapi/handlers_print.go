package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zplgrid/zplgrid/draftstore"
	"github.com/zplgrid/zplgrid/printer"
)

// printRequest accepts either an already-saved draft id or an inline
// compile request, matching a client that previewed via /v1/drafts first
// and one that prints in a single round trip.
type printRequest struct {
	DraftID   string            `json:"draft_id"`
	Template  json.RawMessage   `json:"template"`
	Target    targetInput       `json:"target"`
	Variables map[string]string `json:"variables"`
	Debug     bool              `json:"debug"`
}

type printResponse struct {
	BytesSent int `json:"bytes_sent"`
}

func (s *Server) handlePrint(c echo.Context) error {
	if s.Printers == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "printer registry is not configured"})
	}
	printerID := c.Param("printer_id")
	p, ok := s.Printers.ByID(printerID)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown printer id"})
	}

	var req printRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	rawTemplate, target, variables, debug, draftID, err := s.resolvePrintInput(req)
	if err != nil {
		if errors.Is(err, draftstore.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "draft not found"})
		}
		return errorResponse(c, err)
	}

	result, err := s.compileRequest(rawTemplate, target, variables, printerID, draftID, debug)
	if err != nil {
		return errorResponse(c, err)
	}

	finalZPL, err := printer.ApplyPrinterSettings(result.ZPL, p)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	n, err := printer.SendRawZPL(c.Request().Context(), p, finalZPL)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	if s.Counters != nil {
		for _, scope := range result.CounterScopes {
			if _, err := s.Counters.Commit(scope); err != nil {
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
		}
	}

	return c.JSON(http.StatusOK, printResponse{BytesSent: n})
}

func (s *Server) resolvePrintInput(req printRequest) (json.RawMessage, targetInput, map[string]string, bool, string, error) {
	if req.DraftID == "" {
		return req.Template, req.Target, req.Variables, req.Debug, "", nil
	}
	if s.Drafts == nil {
		return nil, targetInput{}, nil, false, "", errors.New("draft store is not configured")
	}
	entry, err := s.Drafts.Load(req.DraftID)
	if err != nil {
		return nil, targetInput{}, nil, false, "", err
	}
	return entry.Template, targetInputFromDraft(entry.Target), entry.Variables, entry.Debug, entry.DraftID, nil
}

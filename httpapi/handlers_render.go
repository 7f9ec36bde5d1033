package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zplgrid/zplgrid/preview"
)

func (s *Server) handleRenderZPL(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := s.compileRequest(req.Template, req.Target, req.Variables, "", "", req.Debug)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, renderResponse{ZPL: result.ZPL})
}

type renderPreviewRequest struct {
	renderRequest
	DPMM          int     `json:"dpmm"`
	LabelWidthIn  float64 `json:"label_width_in"`
	LabelHeightIn float64 `json:"label_height_in"`
}

func (s *Server) handleRenderPreview(c echo.Context) error {
	if s.Preview == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "preview renderer is not configured"})
	}

	var req renderPreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := s.compileRequest(req.Template, req.Target, req.Variables, "", "", req.Debug)
	if err != nil {
		return errorResponse(c, err)
	}

	png, err := s.Preview.RenderPNG(c.Request().Context(), result.ZPL, preview.RenderOptions{
		DPMM:          req.DPMM,
		LabelWidthIn:  req.LabelWidthIn,
		LabelHeightIn: req.LabelHeightIn,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

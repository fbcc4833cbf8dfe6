package server

import (
	"net/http"

	"github.com/kapu/astroweb-go/internal/export"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/internal/render"
)

// handleRender renders any layout in one of the three forms.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	layout := normalize.FromJSON(req.Layout)

	var (
		html string
		err  error
	)
	switch req.Form {
	case "export":
		html = export.Render(layout, export.Options{Year: s.now().Year()})
	case "editor":
		html, err = render.NewEditor().RenderString(layout, render.Options{Year: s.now().Year()})
	default:
		html, err = render.NewPreview().RenderString(layout, render.Options{Year: s.now().Year()})
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

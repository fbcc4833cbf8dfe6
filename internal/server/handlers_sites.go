package server

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/internal/render"
)

func (s *Server) handleListGenerations(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Sites.List(r.Context(), identityFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generations": list})
}

func (s *Server) handleSaveGeneration(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ref, err := s.deps.Sites.Save(r.Context(), identityFrom(r.Context()), req.Prompt, normalize.FromJSON(req.Layout))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ref)
}

func (s *Server) handleGetGeneration(w http.ResponseWriter, r *http.Request) {
	g, err := s.deps.Sites.Get(r.Context(), identityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGeneration(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.deps.Sites.Update(r.Context(), identityFrom(r.Context()), id, normalize.FromJSON(req.Layout), req.Prompt); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *Server) handleDeleteGeneration(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sites.Delete(r.Context(), identityFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleShareLink(w http.ResponseWriter, r *http.Request) {
	token, err := s.deps.Sites.ShareToken(r.Context(), identityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shareResponse{ShareID: token, URL: s.deps.PublicBaseURL + "/p/" + token})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	dl, err := s.deps.Sites.Export(r.Context(), identityFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.FileName}))
	writeHTML(w, http.StatusOK, dl.HTML)
}

func (s *Server) handleSharedJSON(w http.ResponseWriter, r *http.Request) {
	site, err := s.deps.Sites.Share(r.Context(), chi.URLParam(r, "shareID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// handleSharedPage renders the read-only preview of a shared site.
func (s *Server) handleSharedPage(w http.ResponseWriter, r *http.Request) {
	site, err := s.deps.Sites.Share(r.Context(), chi.URLParam(r, "shareID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	html, err := render.NewPreview().RenderString(site.Layout, render.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

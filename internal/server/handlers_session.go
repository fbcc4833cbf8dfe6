package server

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/edit"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/internal/render"
	"github.com/kapu/astroweb-go/internal/session"
	"github.com/kapu/astroweb-go/pkg/errors"
)

func snapshot(sess *session.Session) sessionResponse {
	recordID, _ := sess.Record()
	return sessionResponse{
		ID:       sess.ID(),
		Version:  sess.Version(),
		RecordID: recordID,
		Layout:   sess.Layout(),
	}
}

// sessionFor resolves the {id} session for the caller, writing the error response on failure.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.deps.Sessions.Get(chi.URLParam(r, "id"), identityFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

// handleCreateSession opens an editing session on a stored generation or a supplied layout.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	identity := identityFrom(r.Context())

	var (
		layout         domain.Layout
		recordID, text string
	)
	switch {
	case req.RecordID != "":
		g, err := s.deps.Sites.Get(r.Context(), identity, req.RecordID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		layout, recordID, text = g.Layout, g.ID, g.Prompt
	case hasLayout(req.Layout):
		layout = normalize.FromJSON(req.Layout)
	default:
		layout = normalize.Normalize(nil)
	}

	sess := s.deps.Sessions.Create(identity, layout)
	if recordID != "" {
		sess.SetRecord(recordID, text)
	}
	writeJSON(w, http.StatusCreated, snapshot(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshot(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	s.deps.Sessions.Remove(sess.ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEditor(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	html, err := render.NewEditor().RenderString(sess.Layout(), render.Options{
		EditEndpoint: "/api/sessions/" + sess.ID() + "/edits",
		Year:         s.now().Year(),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	var req editRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	target, err := edit.ParseTarget(req.Target)
	if err != nil {
		s.writeError(w, r, errors.NewInvalidInput("invalid edit target", "target", req.Target))
		return
	}
	u, err := sess.Apply(edit.Edit{Target: target, Value: req.Value})
	if err != nil {
		s.writeError(w, r, editError(err, req.Target))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func editError(err error, target string) error {
	switch {
	case stderrors.Is(err, edit.ErrEmptyValue):
		return errors.NewInvalidInput("edit value is empty", "value", "")
	case stderrors.Is(err, edit.ErrUnresolvedTarget), stderrors.Is(err, edit.ErrInvalidPath):
		return errors.NewInvalidInput("edit target does not exist in this layout", "target", target)
	}
	return err
}

// handleSaveSession persists the session layout, updating its record when it has one.
func (s *Server) handleSaveSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	identity := identityFrom(r.Context())
	recordID, text := sess.Record()
	layout := sess.Layout()

	if recordID != "" {
		if err := s.deps.Sites.Update(r.Context(), identity, recordID, layout, ""); err != nil {
			s.writeError(w, r, err)
			return
		}
		token, err := s.deps.Sites.ShareToken(r.Context(), identity, recordID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.RecordRef{ID: recordID, ShareToken: token})
		return
	}

	ref, err := s.deps.Sites.Save(r.Context(), identity, text, layout)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.SetRecord(ref.ID, text)
	writeJSON(w, http.StatusCreated, ref)
}

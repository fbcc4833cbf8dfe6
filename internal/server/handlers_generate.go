package server

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/constants"
	"github.com/kapu/astroweb-go/internal/domain"
	"github.com/kapu/astroweb-go/internal/generation"
	"github.com/kapu/astroweb-go/internal/normalize"
	"github.com/kapu/astroweb-go/internal/session"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	identity := identityFrom(r.Context())

	genReq := generation.Request{
		Identity:   identity,
		Prompt:     req.Prompt,
		ThemeStyle: domain.ThemeStyle(req.ThemeStyle),
		RecordID:   req.RecordID,
		Save:       req.Save,
		WithLogo:   s.deps.WithLogo && boolOr(req.WithLogo, true),
		WithImage:  s.deps.WithImage && boolOr(req.WithImage, true),
	}

	var sess *session.Session
	if req.SessionID != "" {
		var err error
		sess, err = s.deps.Sessions.Get(req.SessionID, identity)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := sess.TryStartGeneration(); err != nil {
			s.writeError(w, r, err)
			return
		}
		defer sess.FinishGeneration()

		if current := sess.Layout(); len(current.Sections) > 0 {
			genReq.Previous = &current
		}
		if genReq.RecordID == "" {
			genReq.RecordID, _ = sess.Record()
		}
	} else if hasLayout(req.CurrentLayout) {
		previous := normalize.FromJSON(req.CurrentLayout)
		genReq.Previous = &previous
	}

	res, err := s.deps.Generator.Generate(r.Context(), genReq)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := generateResponse{
		Layout:  res.Layout,
		Balance: res.Balance,
		Record:  res.Record,
	}
	if res.Metadata != nil {
		resp.Provider = res.Metadata.Provider
		resp.Model = res.Metadata.Model
	}
	if res.SaveError != nil {
		resp.SaveError = res.SaveError.Error()
	}
	if sess != nil {
		resp.SessionVersion = sess.Replace(res.Layout).Version
		if res.Record != nil {
			sess.SetRecord(res.Record.ID, genReq.Prompt)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// handleBalance seeds the starting allowance on first contact, then reports the balance.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	if created, err := s.deps.Credits.Grant(r.Context(), identity); err != nil {
		s.logger.Warn("Failed to seed allowance", zap.String("identity", identity), zap.Error(err))
	} else if created {
		s.logger.Info("Starting allowance granted", zap.String("identity", identity))
	}

	balance, err := s.deps.Credits.GetBalance(r.Context(), identity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	balance, err := s.deps.Credits.Increment(r.Context(), identityFrom(r.Context()), req.Amount)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Balance: balance})
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.HTTPConfig.ReadyCheckTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.deps.Checks))
	for name, check := range s.deps.Checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": checks})
}

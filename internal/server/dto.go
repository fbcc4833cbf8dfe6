package server

import (
	"encoding/json"

	"github.com/kapu/astroweb-go/internal/domain"
)

type generateRequest struct {
	Prompt        string          `json:"prompt" validate:"required,max=2000"`
	ThemeStyle    string          `json:"themeStyle" validate:"max=32"`
	CurrentLayout json.RawMessage `json:"currentLayout"`
	RecordID      string          `json:"recordId" validate:"omitempty,max=64"`
	Save          bool            `json:"save"`
	SessionID     string          `json:"sessionId" validate:"omitempty,uuid"`
	WithLogo      *bool           `json:"withLogo"`
	WithImage     *bool           `json:"withImage"`
}

type generateResponse struct {
	Layout         domain.Layout     `json:"layout"`
	Balance        int64             `json:"balance"`
	Record         *domain.RecordRef `json:"record,omitempty"`
	SaveError      string            `json:"saveError,omitempty"`
	Provider       string            `json:"provider,omitempty"`
	Model          string            `json:"model,omitempty"`
	SessionVersion uint64            `json:"sessionVersion,omitempty"`
}

type topUpRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1,max=100"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type saveRequest struct {
	Prompt string          `json:"prompt" validate:"max=2000"`
	Layout json.RawMessage `json:"layout" validate:"required"`
}

type shareResponse struct {
	ShareID string `json:"shareId"`
	URL     string `json:"url"`
}

type createSessionRequest struct {
	Layout   json.RawMessage `json:"layout"`
	RecordID string          `json:"recordId" validate:"omitempty,max=64"`
}

type sessionResponse struct {
	ID       string        `json:"id"`
	Version  uint64        `json:"version"`
	RecordID string        `json:"recordId,omitempty"`
	Layout   domain.Layout `json:"layout"`
}

type editRequest struct {
	Target string `json:"target" validate:"required,editpath"`
	Value  string `json:"value" validate:"required"`
}

type renderRequest struct {
	Layout json.RawMessage `json:"layout" validate:"required"`
	Form   string          `json:"form" validate:"omitempty,oneof=preview editor export"`
}

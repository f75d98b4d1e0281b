package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

// entryResponse is the wire form of an entry. Amounts are exact decimal
// strings in the base currency; Net is the signed balance effect.
type entryResponse struct {
	ID           uuid.UUID       `json:"id"`
	Date         time.Time       `json:"date"`
	Outcome      core.Outcome    `json:"outcome"`
	Stake        decimal.Decimal `json:"stake"`
	Odds         decimal.Decimal `json:"odds"`
	WinAmount    decimal.Decimal `json:"win_amount"`
	PotentialWin decimal.Decimal `json:"potential_win"`
	Net          decimal.Decimal `json:"net"`
	Note         string          `json:"note"`
}

type settingsResponse struct {
	Language        locale.Language `json:"language"`
	Currency        locale.Currency `json:"currency"`
	DisplayName     string          `json:"display_name"`
	NeedsOnboarding bool            `json:"needs_onboarding"`
}

func newEntryResponse(e core.BetEntry) entryResponse {
	return entryResponse{
		ID:           e.ID,
		Date:         e.Date,
		Outcome:      e.Outcome,
		Stake:        e.Stake,
		Odds:         e.Odds,
		WinAmount:    e.WinAmount,
		PotentialWin: e.PotentialWin,
		Net:          core.NetEffect(e),
		Note:         e.Note,
	}
}

func newEntriesResponse(entries []core.BetEntry) []entryResponse {
	out := make([]entryResponse, len(entries))
	for i, e := range entries {
		out[i] = newEntryResponse(e)
	}
	return out
}

func newSettingsResponse(st core.Settings) settingsResponse {
	return settingsResponse{
		Language:        st.Language,
		Currency:        st.Currency,
		DisplayName:     st.DisplayName,
		NeedsOnboarding: st.NeedsOnboarding(),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorStatus maps domain and request errors to HTTP status codes.
func errorStatus(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrInvalidOutcome),
		errors.Is(err, core.ErrNegativeAmount),
		errors.Is(err, core.ErrEmptyDisplayName),
		errors.Is(err, locale.ErrInvalidLanguage),
		errors.Is(err, locale.ErrInvalidCurrency):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs server faults and writes the error body. Internal
// details are not exposed for 5xx responses.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		msg = http.StatusText(status)
	}
	writeError(w, status, msg)
}

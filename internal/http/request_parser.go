package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"bukmacher/internal/core"
	"bukmacher/internal/services"
)

// errBadRequest marks malformed requests, as opposed to well-formed input
// the domain rejects.
var errBadRequest = errors.New("bad request")

// rawNumber accepts a JSON string or number and keeps its text, so that
// "12,50" and 12.5 both reach the amount parser unchanged.
type rawNumber string

func (n *rawNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = rawNumber(s)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected a number or string, got %s", data)
		}
		*n = rawNumber(num.String())
	}
	return nil
}

// entryRequest is the body of POST and PUT /api/entries.
type entryRequest struct {
	Outcome string    `json:"outcome"`
	Stake   rawNumber `json:"stake"`
	Odds    rawNumber `json:"odds"`
	Amount  rawNumber `json:"amount"`
	Date    string    `json:"date"`
	Note    string    `json:"note"`
}

type deleteRequest struct {
	IDs []string `json:"ids"`
}

type settingsRequest struct {
	Language    *string `json:"language"`
	Currency    *string `json:"currency"`
	DisplayName *string `json:"display_name"`
}

// decodeJSON reads a single JSON object of at most maxBodyBytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", errBadRequest)
	}
	return nil
}

// toInput converts the request into raw store input. Dates are either
// RFC 3339 or YYYY-MM-DD, which keeps now's time of day on that calendar
// day in now's location.
func (req entryRequest) toInput(now time.Time) (core.EntryInput, error) {
	outcome, err := core.ParseOutcome(req.Outcome)
	if err != nil {
		return core.EntryInput{}, err
	}
	date, err := parseDate(req.Date, now)
	if err != nil {
		return core.EntryInput{}, err
	}
	return core.EntryInput{
		Outcome: outcome,
		Stake:   string(req.Stake),
		Odds:    string(req.Odds),
		Amount:  string(req.Amount),
		Date:    date,
		Note:    sanitizeInput(req.Note),
	}, nil
}

func parseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or RFC 3339", errBadRequest, s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location()), nil
}

func (req deleteRequest) parseIDs() ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (req settingsRequest) toPatch() services.SettingsPatch {
	return services.SettingsPatch{
		Language:    req.Language,
		Currency:    req.Currency,
		DisplayName: req.DisplayName,
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}

// sanitizeInput removes control characters except tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

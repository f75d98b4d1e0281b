package http

import (
	"net/http"
	"strings"
	"time"

	"bukmacher/internal/core"
	"bukmacher/internal/locale"
	"bukmacher/internal/log"
)

func (s *Server) localNow() time.Time {
	return s.now().In(s.loc)
}

// displaySettings returns the stored settings with the optional lang and
// currency query overrides applied. Overrides are never saved.
func (s *Server) displaySettings(r *http.Request) (core.Settings, error) {
	st, err := s.settings.Current(r.Context())
	if err != nil {
		return core.Settings{}, err
	}
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("lang")); v != "" {
		lang, err := locale.ParseLanguage(v)
		if err != nil {
			return core.Settings{}, err
		}
		st.Language = lang
	}
	if v := strings.TrimSpace(q.Get("currency")); v != "" {
		cur, err := locale.ParseCurrency(v)
		if err != nil {
			return core.Settings{}, err
		}
		st.Currency = cur
	}
	return st, nil
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	st, err := s.displaySettings(r)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	ov, err := s.overviews.Overview(r.Context(), st, s.localNow())
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := s.settings.Current(r.Context())
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(st))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	st, err := s.settings.Update(r.Context(), req.toPatch())
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(st))
}

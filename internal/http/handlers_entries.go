package http

import (
	"net/http"

	"bukmacher/internal/log"
	"bukmacher/internal/services"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.entries.AllSorted(r.Context())
	if err != nil {
		respondError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntriesResponse(entries))
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	in, err := req.toInput(s.localNow())
	if err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	e, err := s.entries.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, log.OpCreate, err)
		return
	}
	w.Header().Set("Location", "/api/entries/"+e.ID.String())
	writeJSON(w, http.StatusCreated, newEntryResponse(e))
}

func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	e, err := s.entries.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(e))
}

// handleEntryDetail renders the localized breakdown of one entry, honouring
// the same lang and currency overrides as the overview.
func (s *Server) handleEntryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	st, err := s.displaySettings(r)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	e, err := s.entries.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, log.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, services.BuildEntryDetail(e, st, s.loc))
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	var req entryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	in, err := req.toInput(s.localNow())
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	e, err := s.entries.Update(r.Context(), id, in)
	if err != nil {
		respondError(w, r, log.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, newEntryResponse(e))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	if err := s.entries.Delete(r.Context(), id); err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteEntries(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	ids, err := req.parseIDs()
	if err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	if _, err := s.entries.DeleteMany(r.Context(), ids); err != nil {
		respondError(w, r, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

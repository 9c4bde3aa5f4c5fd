package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sig-0/fxvol/cache"
)

var (
	errUnableToFetchSurface = errors.New("unable to fetch surface")
	errUnableToFetchPairs   = errors.New("unable to fetch pairs")

	errSurfaceNotFound = errors.New("no surface built for pair")
	errInvalidPair     = errors.New("invalid pair (must be 6 letters)")
)

func (s *Server) SurfaceForPair(w http.ResponseWriter, r *http.Request) {
	pair, err := parsePair(chi.URLParam(r, "pair"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	built, err := s.cache.LatestSurface(r.Context(), pair)
	if err != nil {
		if errors.Is(err, cache.ErrSurfaceNotFound) {
			writeError(w, http.StatusNotFound, errSurfaceNotFound)

			return
		}

		s.logger.Debug(
			"unable to fetch surface",
			"pair", pair,
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchSurface,
		)

		return
	}

	writeJSON(w, http.StatusOK, built)
}

func (s *Server) QualityForPair(w http.ResponseWriter, r *http.Request) {
	pair, err := parsePair(chi.URLParam(r, "pair"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)

		return
	}

	built, err := s.cache.LatestSurface(r.Context(), pair)
	if err != nil {
		if errors.Is(err, cache.ErrSurfaceNotFound) {
			writeError(w, http.StatusNotFound, errSurfaceNotFound)

			return
		}

		s.logger.Debug(
			"unable to fetch surface",
			"pair", pair,
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchSurface,
		)

		return
	}

	writeJSON(w, http.StatusOK, built.Summary)
}

func (s *Server) Pairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := s.cache.ListPairs(r.Context())
	if err != nil {
		s.logger.Debug(
			"unable to fetch pairs",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchPairs,
		)

		return
	}

	resp := &PairsResponse{
		Results: pairs,
	}

	writeJSON(w, http.StatusOK, resp)
}

func parsePair(v string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(v))
	if len(s) != 6 {
		return "", errInvalidPair
	}

	for i := range len(s) {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", errInvalidPair
		}
	}

	return s, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}

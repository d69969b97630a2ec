package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"kda-engine/internal/domain"
	"kda-engine/internal/engine"
	"kda-engine/internal/repository"
	"kda-engine/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// KDAServer exposes the engine and session state over a JSON HTTP API.
type KDAServer struct {
	sessionSvc *service.SessionService
	simSvc     *service.SimulationService
	exportSvc  *service.ExportService
	logger     zerolog.Logger
}

func NewKDAServer(sessionSvc *service.SessionService, simSvc *service.SimulationService, exportSvc *service.ExportService, logger zerolog.Logger) *KDAServer {
	return &KDAServer{sessionSvc: sessionSvc, simSvc: simSvc, exportSvc: exportSvc, logger: logger}
}

func (s *KDAServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/stats", s.handleUpdateStats)
			r.Put("/target", s.handleUpdateTarget)
			r.Get("/goal", s.handleSuggestGoal)
			r.Post("/simulate", s.handleSimulate)
			r.Get("/history", s.handleHistory)
			r.Delete("/history", s.handleClearHistory)
			r.Get("/export", s.handleExport)
		})
	})

	return r
}

type createSessionRequest struct {
	Kills       int     `json:"kills"`
	Deaths      int     `json:"deaths"`
	Assists     int     `json:"assists"`
	TargetRatio float64 `json:"targetRatio"`
}

type statsRequest struct {
	Kills   int `json:"kills"`
	Deaths  int `json:"deaths"`
	Assists int `json:"assists"`
}

type targetRequest struct {
	TargetRatio float64 `json:"targetRatio"`
}

type simulateRequest struct {
	Count int `json:"count"`
}

type sessionResponse struct {
	ID           string  `json:"id"`
	Kills        int     `json:"kills"`
	Deaths       int     `json:"deaths"`
	Assists      int     `json:"assists"`
	TargetRatio  float64 `json:"targetRatio"`
	Ratio        float64 `json:"ratio"`
	RatioDisplay string  `json:"ratioDisplay"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type goalResponse struct {
	Message     string `json:"message"`
	NeedKills   int    `json:"needKills"`
	NeedAssists int    `json:"needAssists"`
}

type simulatedMatchResponse struct {
	ID           string  `json:"id"`
	Position     int     `json:"position"`
	Kills        int     `json:"kills"`
	Deaths       int     `json:"deaths"`
	Assists      int     `json:"assists"`
	Ratio        float64 `json:"ratio"`
	RatioDisplay string  `json:"ratioDisplay"`
}

type historyResponse struct {
	Matches []simulatedMatchResponse `json:"matches"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *KDAServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	session, err := s.sessionSvc.Create(r.Context(), domain.MatchStats{Kills: req.Kills, Deaths: req.Deaths, Assists: req.Assists}, req.TargetRatio)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (s *KDAServer) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionSvc.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *KDAServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessionSvc.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *KDAServer) handleUpdateStats(w http.ResponseWriter, r *http.Request) {
	var req statsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	session, err := s.sessionSvc.UpdateStats(r.Context(), chi.URLParam(r, "sessionID"),
		domain.MatchStats{Kills: req.Kills, Deaths: req.Deaths, Assists: req.Assists})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *KDAServer) handleUpdateTarget(w http.ResponseWriter, r *http.Request) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	session, err := s.sessionSvc.SetTargetRatio(r.Context(), chi.URLParam(r, "sessionID"), req.TargetRatio)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *KDAServer) handleSuggestGoal(w http.ResponseWriter, r *http.Request) {
	var target *float64
	if raw := r.URL.Query().Get("target"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		target = &parsed
	}

	suggestion, err := s.sessionSvc.SuggestGoal(r.Context(), chi.URLParam(r, "sessionID"), target)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, goalResponse{
		Message:     suggestion.Message,
		NeedKills:   suggestion.NeedKills,
		NeedAssists: suggestion.NeedAssists,
	})
}

func (s *KDAServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	matches, err := s.simSvc.Run(r.Context(), chi.URLParam(r, "sessionID"), req.Count)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHistoryResponse(matches))
}

func (s *KDAServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	matches, err := s.simSvc.History(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toHistoryResponse(matches))
}

func (s *KDAServer) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.simSvc.ClearHistory(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *KDAServer) handleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.exportSvc.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(snapshot)); err != nil {
		s.logger.Error().Err(err).Msg("failed to write export snapshot")
	}
}

func toSessionResponse(session *domain.Session) sessionResponse {
	ratio := engine.ComputeRatio(session.Stats.Kills, session.Stats.Deaths, session.Stats.Assists)
	return sessionResponse{
		ID:           session.ID,
		Kills:        session.Stats.Kills,
		Deaths:       session.Stats.Deaths,
		Assists:      session.Stats.Assists,
		TargetRatio:  session.TargetRatio,
		Ratio:        ratio,
		RatioDisplay: engine.FormatRatio(ratio),
		CreatedAt:    session.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    session.UpdatedAt.Format(time.RFC3339),
	}
}

func toHistoryResponse(matches []domain.SimulatedMatch) historyResponse {
	resp := historyResponse{Matches: make([]simulatedMatchResponse, 0, len(matches))}
	for _, m := range matches {
		resp.Matches = append(resp.Matches, simulatedMatchResponse{
			ID:           m.ID,
			Position:     m.Position,
			Kills:        m.Kills,
			Deaths:       m.Deaths,
			Assists:      m.Assists,
			Ratio:        m.Ratio,
			RatioDisplay: engine.FormatRatio(m.Ratio),
		})
	}
	return resp
}

func (s *KDAServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *KDAServer) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *KDAServer) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeError(w, http.StatusInternalServerError, err)
}

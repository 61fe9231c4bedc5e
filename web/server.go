// ABOUTME: JSON HTTP API over the view coordinator, plus a status page and metrics
// ABOUTME: Serves one coordinator per process; all /api routes except login need an open session
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/coordinator"
	"github.com/harperreed/marketmind/gateway"
	"github.com/harperreed/marketmind/models"
	"github.com/harperreed/marketmind/session"
)

//go:embed templates/*
var templatesFS embed.FS

type Server struct {
	coord     *coordinator.Coordinator
	logger    *zap.Logger
	gatherer  prometheus.Gatherer
	templates *template.Template
}

// NewServer builds the API. gatherer backs /metrics; nil uses the default registry.
func NewServer(coord *coordinator.Coordinator, logger *zap.Logger, gatherer prometheus.Gatherer) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	funcMap := template.FuncMap{
		"title": coordinator.Title,
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		coord:     coord,
		logger:    logger.Named("web"),
		gatherer:  gatherer,
		templates: tmpl,
	}, nil
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(s.logger))

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)
			r.Post("/logout", s.handleLogout)
			r.Get("/state", s.handleState)
			r.Post("/view/{view}", s.handleNavigate)
			r.Post("/campaigns", s.handleCampaign)
			r.Post("/pitches", s.handlePitch)
			r.Post("/market", s.handleMarket)
			r.Post("/leads", s.handleLeads)
			r.Post("/insight", s.handleInsight)
			r.Post("/chat", s.handleChat)
		})
	})
	return r
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.coord.Session().Authenticated {
			s.writeError(w, r, coordinator.ErrNotAuthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Snapshot": s.coord.Snapshot(),
		"Views":    coordinator.Views,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("template error", zap.String("template", "index.html"), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.coord.Login(req.Email, req.Password); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.coord.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.coord.Snapshot())
}

type navigateResponse struct {
	View  coordinator.View `json:"view"`
	Title string           `json:"title"`
	// Mounted tells the client to POST /api/insight for the fresh dashboard.
	Mounted bool `json:"mounted"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	view, err := coordinator.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	mounted, err := s.coord.Navigate(view)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, navigateResponse{View: view, Title: coordinator.Title(view), Mounted: mounted})
}

func (s *Server) handleCampaign(w http.ResponseWriter, r *http.Request) {
	var in adapters.CampaignInput
	if !s.decode(w, r, &in) {
		return
	}
	campaign, err := s.coord.GenerateCampaign(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (s *Server) handlePitch(w http.ResponseWriter, r *http.Request) {
	var in adapters.PitchInput
	if !s.decode(w, r, &in) {
		return
	}
	pitch, err := s.coord.GeneratePitch(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pitch)
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	var in adapters.MarketInput
	if !s.decode(w, r, &in) {
		return
	}
	insight, err := s.coord.AnalyzeMarket(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	var in adapters.LeadInput
	if !s.decode(w, r, &in) {
		return
	}
	leads, err := s.coord.ScoreLeads(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	text, err := s.coord.RefreshInsight(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insight": text})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    *models.ChatMessage  `json:"reply"`
	Messages []models.ChatMessage `json:"messages"`
	// Error is set when the reply is the fallback text.
	Error string `json:"error,omitempty"`
}

// handleChat answers 200 even when generation fails, because the fallback
// turn is already part of the transcript.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	reply, err := s.coord.SendChat(r.Context(), req.Message)
	if err != nil && !errors.Is(err, gateway.ErrGenerationFailed) {
		s.writeError(w, r, err)
		return
	}

	snap := s.coord.Snapshot()
	resp := chatResponse{Reply: reply, Messages: snap.Chat.Messages}
	if err != nil {
		resp.Error = coordinator.FailureMessage
		if n := len(snap.Chat.Messages); n > 0 {
			resp.Reply = &snap.Chat.Messages[n-1]
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid JSON body"})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, coordinator.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrEmailRejected), errors.Is(err, session.ErrSecretTooShort):
		return http.StatusBadRequest
	case errors.Is(err, adapters.ErrMissingField), errors.Is(err, coordinator.ErrUnknownView):
		return http.StatusBadRequest
	case errors.Is(err, coordinator.ErrBusy), errors.Is(err, coordinator.ErrInactiveView),
		errors.Is(err, coordinator.ErrInsightResolved):
		return http.StatusConflict
	case errors.Is(err, gateway.ErrGenerationFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusBadGateway {
		// Provider details stay in the log.
		msg = coordinator.FailureMessage
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("rid", RID(r.Context())), zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	_ = enc.Encode(v)
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/buildwise/costplan/internal/estimator"
	"github.com/buildwise/costplan/internal/model"
	"github.com/buildwise/costplan/internal/report"
	"github.com/buildwise/costplan/internal/scenario"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		api := &apiServer{
			svc:    newEstimator(),
			locale: cfg.Report.Locale,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(api, cfg.Server.AllowedOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// apiServer holds the handler dependencies.
type apiServer struct {
	svc    *estimator.Service
	locale string
}

func newRouter(api *apiServer, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", api.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/estimate", api.handleEstimate)
		r.Post("/estimate/adjust", api.handleAdjust)
		r.Post("/estimate/scenarios", api.handleScenarios)
		r.Post("/cashflow/normalize", api.handleNormalize)
		r.Post("/chat", api.handleChat)
		r.Get("/insights", api.handleInsights)
		r.Post("/report/export", api.handleExport)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (a *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *apiServer) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var inputs model.ProjectInputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if err := inputs.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Degrades to the rate-table baseline on model failure so the dashboard
	// always renders a structurally valid estimate.
	result := a.svc.EstimateOrBaseline(r.Context(), inputs)
	writeJSON(w, http.StatusOK, result)
}

func (a *apiServer) handleAdjust(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Result      *model.EstimationResult   `json:"result"`
		Assumptions model.EditableAssumptions `json:"assumptions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, eris.New("result is required"))
		return
	}
	if err := req.Assumptions.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, scenario.ApplyAssumptions(req.Result, req.Assumptions))
}

func (a *apiServer) handleScenarios(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Inputs model.ProjectInputs     `json:"inputs"`
		Anchor *model.EstimationResult `json:"anchor,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if err := req.Inputs.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	comparison, err := a.svc.Comparison(r.Context(), req.Inputs, req.Anchor)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

func (a *apiServer) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Result         *model.EstimationResult `json:"result"`
		TimelineMonths int                     `json:"timeline_months"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, eris.New("result is required"))
		return
	}
	if req.TimelineMonths < 1 || req.TimelineMonths > 60 {
		writeError(w, http.StatusBadRequest, eris.New("timeline_months must be between 1 and 60"))
		return
	}

	writeJSON(w, http.StatusOK, scenario.NormalizeCashflow(req.Result, req.TimelineMonths))
}

func (a *apiServer) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		History []estimator.ChatMessage `json:"history"`
		Message string                  `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, eris.New("message is required"))
		return
	}

	reply, err := a.svc.Chat(r.Context(), req.History, req.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (a *apiServer) handleInsights(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		writeError(w, http.StatusBadRequest, eris.New("location is required"))
		return
	}
	projectType := model.ProjectType(r.URL.Query().Get("type"))
	if projectType == "" {
		projectType = model.ProjectResidential
	}

	switch kind := r.URL.Query().Get("kind"); kind {
	case "tips", "risks":
		insights, err := a.svc.Insight(r.Context(), location, projectType, estimator.InsightKind(kind))
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, insights)
	case "", "all":
		// Fetch both lists; the service serializes the underlying model
		// calls, so this costs nothing extra in rate budget.
		var tips, risks *estimator.Insights
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			tips, err = a.svc.Insight(ctx, location, projectType, estimator.InsightTips)
			return err
		})
		g.Go(func() error {
			var err error
			risks, err = a.svc.Insight(ctx, location, projectType, estimator.InsightRisks)
			return err
		})
		if err := g.Wait(); err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, estimator.Insights{Tips: tips.Tips, Risks: risks.Risks})
	default:
		writeError(w, http.StatusBadRequest, eris.New("kind must be tips, risks or all"))
	}
}

func (a *apiServer) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Inputs      model.ProjectInputs        `json:"inputs"`
		Result      *model.EstimationResult    `json:"result"`
		Assumptions *model.EditableAssumptions `json:"assumptions,omitempty"`
		Comparison  *model.ScenarioComparison  `json:"comparison,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.Wrap(err, "invalid request body"))
		return
	}
	if err := req.Inputs.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Result == nil {
		writeError(w, http.StatusBadRequest, eris.New("result is required"))
		return
	}

	assumptions := model.DefaultAssumptions()
	if req.Assumptions != nil {
		if err := req.Assumptions.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		assumptions = *req.Assumptions
	}

	record := report.Assemble(req.Inputs, req.Result, assumptions, req.Comparison)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "costplan-"+record.ID+".xlsx"))
	if err := report.WriteXLSX(record, a.locale, w); err != nil {
		zap.L().Error("write report", zap.Error(err))
	}
}

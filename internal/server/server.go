// Package server is the HTTP boundary of the analytics service.
//
// It stays deliberately thin: route the request to a catalog id or a
// patient lookup, run it, translate the fault kind into a status code,
// and write either a JSON envelope or the inline SVG. No pipeline logic
// lives here.
//
// Routes:
//
//	GET /reports                                    → registered report ids
//	GET /reports/{id...}                            → run any report by id
//	GET /heartDisease/{name}                        → alias into the heart family
//	GET /factorsOfHeartDiseases/{name}              → alias into the factors family
//	GET /lungCancer/{name}                          → alias into the lung family
//	GET /patientSugarLevel/patient/{id}/sugar-levels       → patient profile
//	GET /patientSugarLevel/patient/{id}/monthlySugarReport → sugar chart URL
//	GET /patientData/                               → patients dataset preview
//	GET /bloodSugarLevel/                           → blood-sugar dataset preview
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/ottawa-ehospital/patient-disease-analytics/internal/chart"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/fault"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/report"
	"github.com/ottawa-ehospital/patient-disease-analytics/internal/sink"
)

// Config controls server startup.
type Config struct {
	Addr string

	// PreviewRows bounds dataset previews. Zero means 5, matching the
	// upstream service.
	PreviewRows int
}

// Server wraps http.Server for convenience.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	executor *report.Executor
	patients *report.PatientService
}

// NewServer constructs a Server with all routes registered.
func NewServer(cfg Config, ex *report.Executor, ps *report.PatientService) *Server {
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = 5
	}
	s := &Server{
		cfg:      cfg,
		mux:      http.NewServeMux(),
		executor: ex,
		patients: ps,
	}
	s.routes()
	return s
}

// Handler returns the root handler with CORS applied, for tests and for
// embedding under another mux.
func (s *Server) Handler() http.Handler {
	return withCORS(s.mux)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("server: listening on %s", s.cfg.Addr)
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /reports", s.handleList)
	s.mux.HandleFunc("GET /reports/{id...}", s.handleReport)

	// Original route aliases, one per report family.
	for _, family := range []string{"heartDisease", "factorsOfHeartDiseases", "lungCancer", "archive/heartDisease", "archive/factorsOfHeartDiseases"} {
		s.mux.HandleFunc("GET /"+family+"/{name}", func(w http.ResponseWriter, r *http.Request) {
			s.runReport(w, r, family+"/"+r.PathValue("name"))
		})
	}

	s.mux.HandleFunc("GET /patientSugarLevel/patient/{id}/sugar-levels", s.handlePatientProfile)
	s.mux.HandleFunc("GET /patientSugarLevel/patient/{id}/monthlySugarReport", s.handleMonthlySugar)
	s.mux.HandleFunc("GET /patientData/", s.handlePatientPreview)
	s.mux.HandleFunc("GET /bloodSugarLevel/", s.handleSugarPreview)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"reports": s.executor.Catalog.IDs()})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.runReport(w, r, r.PathValue("id"))
}

func (s *Server) runReport(w http.ResponseWriter, r *http.Request, id string) {
	pub, err := s.executor.Run(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writePublished(w, pub)
}

func (s *Server) handlePatientProfile(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := s.patients.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleMonthlySugar(w http.ResponseWriter, r *http.Request) {
	id, err := patientID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pub, err := s.patients.MonthlySugarReport(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writePublished(w, pub)
}

func (s *Server) handlePatientPreview(w http.ResponseWriter, r *http.Request) {
	rows, err := s.patients.Preview(r.Context(), s.patients.Patients, s.cfg.PreviewRows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func (s *Server) handleSugarPreview(w http.ResponseWriter, r *http.Request) {
	rows, err := s.patients.Preview(r.Context(), s.patients.BloodSugar, s.cfg.PreviewRows)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}

func patientID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, fault.New(fault.NotFound, "patient id %q is not numeric", r.PathValue("id"))
	}
	return id, nil
}

// statusFor maps the pipeline's fault taxonomy onto HTTP statuses. Upstream
// faults (unreachable source, bad payload) are the caller's 400 per the
// original service's contract; only the artifact store is our 500.
func statusFor(err error) int {
	switch fault.KindOf(err) {
	case fault.NotFound:
		return http.StatusNotFound
	case fault.SourceUnavailable, fault.DecodeFailure, fault.Empty,
		fault.MissingColumn, fault.FitDidNotConverge:
		return http.StatusBadRequest
	case fault.StoreUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

func writePublished(w http.ResponseWriter, pub sink.Published) {
	if pub.Inline() {
		writeArtifact(w, *pub.Artifact)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": pub.URL})
}

func writeArtifact(w http.ResponseWriter, art chart.Artifact) {
	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", art.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Bytes); err != nil {
		log.Printf("server: write artifact: %v", err)
	}
}

// withCORS allows any origin, matching the upstream service's open CORS
// policy.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

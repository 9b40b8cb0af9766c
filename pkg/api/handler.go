// Package api serves tabulations over HTTP and MCP. Both transports
// dispatch to the same kit.Endpoints backed by a Workspace.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hazyhaar/surveyreport/pkg/codebook"
	"github.com/hazyhaar/surveyreport/pkg/kit"
	"github.com/hazyhaar/surveyreport/pkg/table"
	"github.com/hazyhaar/surveyreport/pkg/tabulate"
)

// endpoints are the actions shared by both transports.
type endpoints struct {
	listQuestions kit.Endpoint
	getQuestion   kit.Endpoint
	tabulate      kit.Endpoint
	crosstab      kit.Endpoint
	multiBinary   kit.Endpoint
}

func newEndpoints(ws *Workspace, logger *slog.Logger) endpoints {
	if logger == nil {
		logger = slog.Default()
	}
	wrap := func(name string, ep kit.Endpoint) kit.Endpoint {
		return kit.Logging(logger, name)(ep)
	}
	return endpoints{
		listQuestions: wrap("list_questions", listQuestionsEndpoint(ws)),
		getQuestion:   wrap("get_question", getQuestionEndpoint(ws)),
		tabulate:      wrap("tabulate", tabulateEndpoint(ws)),
		crosstab:      wrap("crosstab", crosstabEndpoint(ws)),
		multiBinary:   wrap("multibinary", multiBinaryEndpoint(ws)),
	}
}

// NewRouter returns an http.Handler with all API routes.
func NewRouter(ws *Workspace, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	h := &handler{endpoints: newEndpoints(ws, logger), ws: ws}

	mux.HandleFunc("GET /v1/questions", h.handleListQuestions)
	mux.HandleFunc("GET /v1/questions/{variable}", h.handleGetQuestion)
	mux.HandleFunc("POST /v1/tabulate", h.handleTabulate)
	mux.HandleFunc("POST /v1/crosstab", h.handleCrosstab)
	mux.HandleFunc("POST /v1/multibinary", h.handleMultiBinary)
	mux.HandleFunc("POST /v1/reload", h.handleReload)
	mux.HandleFunc("GET /v1/health", h.handleHealth)

	return cors(mux)
}

type handler struct {
	endpoints
	ws *Workspace
}

func (h *handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.listQuestions, nil)
}

func (h *handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.getQuestion, &questionReq{Variable: r.PathValue("variable")})
}

func (h *handler) handleTabulate(w http.ResponseWriter, r *http.Request) {
	var req tabulateReq
	if decodeBody(w, r, &req) {
		h.serve(w, r, h.tabulate, &req)
	}
}

func (h *handler) handleCrosstab(w http.ResponseWriter, r *http.Request) {
	var req crosstabReq
	if decodeBody(w, r, &req) {
		h.serve(w, r, h.crosstab, &req)
	}
}

func (h *handler) handleMultiBinary(w http.ResponseWriter, r *http.Request) {
	var req multiBinaryReq
	if decodeBody(w, r, &req) {
		h.serve(w, r, h.multiBinary, &req)
	}
}

func (h *handler) handleReload(w http.ResponseWriter, _ *http.Request) {
	if err := h.ws.Reload(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.handleHealth(w, nil)
}

type healthResponse struct {
	Status       string `json:"status"`
	Rows         int    `json:"rows"`
	Questions    int    `json:"questions"`
	CachedTables int    `json:"cached_tables"`
	LoadedAt     int64  `json:"loaded_at"`
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	rows, questions, cached, loadedAt := h.ws.Status()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Rows:         rows,
		Questions:    questions,
		CachedTables: cached,
		LoadedAt:     loadedAt.Unix(),
	})
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request, ep kit.Endpoint, req any) {
	ctx := kit.WithTransport(r.Context(), "http")
	if id := r.Header.Get("X-Request-ID"); id != "" {
		ctx = kit.WithRequestID(ctx, id)
	}
	resp, err := ep(ctx, req)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, codebook.ErrUnknownQuestion):
		return http.StatusNotFound
	case errors.Is(err, table.ErrCategoryMismatch),
		errors.Is(err, table.ErrDuplicateLabel),
		errors.Is(err, tabulate.ErrEmptyBase),
		errors.Is(err, tabulate.ErrMissingFetchValue):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// --- helpers ---

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 64*1024) // 64 KiB max
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Package httpapi exposes the insights REST API: parsing and validation of
// request parameters, delegation to the query service, and the uniform
// success/error envelope around every response.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/viku01999/insights-api/internal/insight"
	"github.com/viku01999/insights-api/internal/logging"
	"github.com/viku01999/insights-api/internal/metrics"
	"github.com/viku01999/insights-api/internal/service"
	"github.com/viku01999/insights-api/internal/storage"
)

// handler bundles the HTTP endpoints over the query service.
type handler struct {
	svc *service.Service
	log *logging.Logger
}

// NewRouter builds the full route table. Every handler runs behind the rate
// limit, logging and metrics middleware; failures are translated exactly
// once, in handle.
func NewRouter(svc *service.Service, log *logging.Logger, limiter *RateLimiter) *mux.Router {
	h := &handler{svc: svc, log: log}

	r := mux.NewRouter()
	if limiter != nil {
		r.Use(limiter.Middleware())
	}
	r.Use(LoggingMiddleware(log))
	r.Use(metrics.Instrument())

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handle(h.health)).Methods(http.MethodGet)

	api := r.PathPrefix("/api/insights").Subrouter()
	api.HandleFunc("", h.handle(h.list)).Methods(http.MethodGet)
	api.HandleFunc("/", h.handle(h.list)).Methods(http.MethodGet)
	api.HandleFunc("/filters", h.handle(h.filters)).Methods(http.MethodGet)
	api.HandleFunc("/widgets", h.handle(h.widgets)).Methods(http.MethodGet)
	api.HandleFunc("/graphs", h.handle(h.graphs)).Methods(http.MethodGet)
	api.HandleFunc("/createInsights", h.handle(h.create)).Methods(http.MethodPost)
	api.HandleFunc("/{id}", h.handle(h.getByID)).Methods(http.MethodGet)
	api.HandleFunc("/{id}", h.handle(h.update)).Methods(http.MethodPut)
	api.HandleFunc("/{id}", h.handle(h.remove)).Methods(http.MethodDelete)

	return r
}

// handle is the boundary error-translation stage: the single place failures
// become HTTP responses. Unclassified errors are logged with their trace ID
// and reported as a generic 500.
func (h *handler) handle(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}

		var apiErr *Error
		switch {
		case errors.As(err, &apiErr):
			writeFailure(w, apiErr.Status, apiErr.Message)
		case errors.Is(err, storage.ErrNotFound):
			writeFailure(w, http.StatusNotFound, "Insight not found")
		default:
			h.log.LogError(r.Context(), "request failed", err)
			writeFailure(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}

// listResponse is the paginated list payload. TotalItems counts all matches
// ignoring pagination; TotalPages is 1 when pagination is off.
type listResponse struct {
	TotalItems  int64             `json:"totalItems"`
	TotalPages  int64             `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
	Data        []insight.Insight `json:"data"`
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	pageStr := q.Get("page")
	limitStr := q.Get("limit")
	if (pageStr != "") != (limitStr != "") {
		return badRequest("Both page and limit must be provided together")
	}

	var page, limit int
	if pageStr != "" {
		var err error
		if page, err = strconv.Atoi(pageStr); err != nil {
			return badRequest("Page and limit must be valid numbers")
		}
		if limit, err = strconv.Atoi(limitStr); err != nil {
			return badRequest("Page and limit must be valid numbers")
		}
		if page < 0 || limit < 0 {
			return badRequest("Page and limit must not be negative")
		}
	}

	filter := buildFilter(q)

	totalItems, err := h.svc.Count(r.Context(), filter)
	if err != nil {
		return err
	}

	// A zero page or limit disables pagination rather than erroring.
	totalPages := int64(1)
	currentPage := 1
	if page > 0 && limit > 0 {
		totalPages = int64(math.Ceil(float64(totalItems) / float64(limit)))
		currentPage = page
	}

	data, err := h.svc.List(r.Context(), filter, page, limit)
	if err != nil {
		return err
	}

	writeSuccess(w, http.StatusOK, "Insights fetched successfully", listResponse{
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: currentPage,
		Data:        data,
	})
	return nil
}

// buildFilter assembles the exact-match conjunction from the remaining query
// parameters. Unknown keys are ignored; score values that fail numeric
// coercion drop the constraint entirely rather than erroring.
func buildFilter(q map[string][]string) insight.Filter {
	var f insight.Filter
	for key, values := range q {
		if key == "page" || key == "limit" || len(values) == 0 {
			continue
		}
		value := values[0]
		if insight.IsNumericField(key) {
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				f.SetNumber(key, n)
			}
			continue
		}
		f.SetString(key, value)
	}
	return f
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) error {
	var payload insight.Patch
	if err := decodeJSON(r.Body, &payload); err != nil {
		return badRequest("Invalid request body")
	}
	if payload.Intensity == nil {
		return badRequest("Intensity is required")
	}

	var in insight.Insight
	payload.Apply(&in)

	created, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusCreated, "Insight created successfully", created)
	return nil
}

func (h *handler) getByID(w http.ResponseWriter, r *http.Request) error {
	id, err := requestID(r)
	if err != nil {
		return err
	}
	in, err := h.svc.Get(r.Context(), id)
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "Insight fetched successfully", in)
	return nil
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := requestID(r)
	if err != nil {
		return err
	}

	var payload insight.Patch
	if err := decodeJSON(r.Body, &payload); err != nil {
		return badRequest("Invalid request body")
	}
	if payload.IsEmpty() {
		return badRequest("Update body must not be empty")
	}

	updated, err := h.svc.Update(r.Context(), id, payload)
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "Insight updated successfully", updated)
	return nil
}

func (h *handler) remove(w http.ResponseWriter, r *http.Request) error {
	id, err := requestID(r)
	if err != nil {
		return err
	}
	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "Insight deleted successfully", deleted)
	return nil
}

func (h *handler) filters(w http.ResponseWriter, r *http.Request) error {
	var fields []string
	if raw := r.URL.Query().Get("fields"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(field); trimmed != "" {
				fields = append(fields, trimmed)
			}
		}
	}

	values, err := h.svc.UniqueFieldValues(r.Context(), fields)
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "Unique filter values fetched successfully", values)
	return nil
}

func (h *handler) widgets(w http.ResponseWriter, r *http.Request) error {
	widgets, err := h.svc.KPIWidgets(r.Context())
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "KPI widgets fetched successfully", widgets)
	return nil
}

func (h *handler) graphs(w http.ResponseWriter, r *http.Request) error {
	graphs, err := h.svc.GraphData(r.Context())
	if err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "Graph data fetched successfully", graphs)
	return nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Ping(r.Context()); err != nil {
		return err
	}
	writeSuccess(w, http.StatusOK, "Service healthy", map[string]string{"status": "ok"})
	return nil
}

func requestID(r *http.Request) (string, error) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		return "", badRequest("Insight id is required")
	}
	return id, nil
}

func decodeJSON(body io.ReadCloser, dst any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

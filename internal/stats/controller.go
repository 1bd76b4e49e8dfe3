package stats

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// wireTimeLayout is the timestamp format on the wire, shared with the main
// service's stats client.
const wireTimeLayout = "2006-01-02 15:04:05"

// HitRequest is the request body for POST /hit
type HitRequest struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Controller handles the stats service HTTP endpoints. Responses are plain
// JSON, not enveloped, so the main service client can decode them directly.
type Controller struct {
	Logger  *slog.Logger
	Service Service
}

// NewController creates a Controller with the given logger and service.
func NewController(logger *slog.Logger, svc Service) *Controller {
	return &Controller{
		Logger:  logger,
		Service: svc,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// RecordHit handles POST /hit.
func (c *Controller) RecordHit(w http.ResponseWriter, r *http.Request) {
	var req HitRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}
	var errs []string
	if req.App == "" {
		errs = append(errs, "app is required")
	}
	if req.URI == "" {
		errs = append(errs, "uri is required")
	}
	if req.IP == "" {
		errs = append(errs, "ip is required")
	}
	timestamp, err := time.Parse(wireTimeLayout, req.Timestamp)
	if err != nil {
		errs = append(errs, "timestamp must be in format "+wireTimeLayout)
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: strings.Join(errs, "; ")})
		return
	}
	hit, err := c.Service.RecordHit(r.Context(), req.App, req.URI, req.IP, timestamp)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, hit)
}

// GetStats handles GET /stats.
func (c *Controller) GetStats(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start, err := time.Parse(wireTimeLayout, query.Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "start is required in format " + wireTimeLayout})
		return
	}
	end, err := time.Parse(wireTimeLayout, query.Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "end is required in format " + wireTimeLayout})
		return
	}
	stats, err := c.Service.GetStats(r.Context(), start, end, query["uris"], query.Get("unique") == "true")
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// NewRouter initializes the stats service router.
func NewRouter(controller *Controller) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /hit", controller.RecordHit)
	mux.HandleFunc("GET /stats", controller.GetStats)
	return mux
}

// Package http exposes the dashboard over a chi router: upload,
// filtered analytics, exports and chart downloads.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "salespulse/internal/errors"
	"salespulse/internal/filter"
	"salespulse/internal/services"
)

const dateParamFormat = "2006-01-02"

// DashboardHandler handles dashboard HTTP requests.
type DashboardHandler struct {
	service      *services.DashboardService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxUpload    int64
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(service *services.DashboardService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxUpload int64) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
		maxUpload:    maxUpload,
	}
}

// Routes returns the dashboard routes.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/upload", h.Upload)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/dashboard", h.Dashboard)
		r.Get("/options", h.Options)
	})

	r.Get("/export/csv", h.ExportCSV)
	r.Get("/export/xlsx", h.ExportXLSX)
	r.Get("/charts/{name}", h.Chart)

	return r
}

// Upload handles POST /api/upload: a multipart form with a "file" part.
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_REQUEST", "Failed to parse multipart form", err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.New(http.StatusBadRequest,
			"MISSING_PARAMETER", "Form field \"file\" is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(http.StatusBadRequest,
			"INVALID_REQUEST", "Failed to read upload", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "upload received",
		slog.String("filename", header.Filename),
		slog.Int("bytes", len(data)))

	summary, err := h.service.Upload(r.Context(), header.Filename, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, summary)
}

// Dashboard handles GET /api/dashboard with year, month, from and to
// query parameters.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data, err := h.service.Dashboard(r.Context(), spec)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, data)
}

// Options handles GET /api/options.
func (h *DashboardHandler) Options(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// ExportCSV handles GET /api/export/csv.
func (h *DashboardHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	data, err := h.service.ExportCSV(r.Context(), spec)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.csv"`)
	w.Write(data)
}

// ExportXLSX handles GET /api/export/xlsx.
func (h *DashboardHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	spec, err := filterSpecFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	data, err := h.service.ExportXLSX(r.Context(), spec)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="filtered_data.xlsx"`)
	w.Write(data)
}

// Chart handles GET /api/charts/{name} for monthly_trend, top_products
// and state_revenue.
func (h *DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	spec, err := filterSpecFromQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	data, err := h.service.ChartPNG(r.Context(), name, spec)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, name+".png"))
	w.Write(data)
}

// filterSpecFromQuery builds the filter spec from query parameters.
// Absent parameters select everything.
func filterSpecFromQuery(r *http.Request) (filter.Spec, error) {
	spec := filter.Default()
	q := r.URL.Query()

	if year := q.Get("year"); year != "" {
		spec.Year = year
	}
	if month := q.Get("month"); month != "" {
		spec.MonthName = month
	}
	if from := q.Get("from"); from != "" {
		d, err := time.Parse(dateParamFormat, from)
		if err != nil {
			return spec, apierrors.NewValidationError("from must be formatted YYYY-MM-DD")
		}
		spec.From = d
	}
	if to := q.Get("to"); to != "" {
		d, err := time.Parse(dateParamFormat, to)
		if err != nil {
			return spec, apierrors.NewValidationError("to must be formatted YYYY-MM-DD")
		}
		spec.To = d
	}
	return spec, spec.Validate()
}

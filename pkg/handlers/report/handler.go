package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/de-tools/policy-report/pkg/models/api"
	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/de-tools/policy-report/pkg/services/render"
	"github.com/de-tools/policy-report/pkg/services/uploader"
	"github.com/de-tools/policy-report/pkg/store/client"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	maxUploadSize = 32 << 20

	fieldCompanyName = "company_name"
	fieldPolicyFile  = "policy_file"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ProcessResponse is what the page receives after a submission.
type ProcessResponse struct {
	ID      string       `json:"id,omitempty"`
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Page    *render.Page `json:"page,omitempty"`
}

type Handler struct {
	processor client.Processor
	cache     *Cache
}

func NewHandler(processor client.Processor, cache *Cache) *Handler {
	if cache == nil {
		cache = NewCache(DefaultCacheSize)
	}
	return &Handler{
		processor: processor,
		cache:     cache,
	}
}

func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	file, header, err := r.FormFile(fieldPolicyFile)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "policy file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "failed to read policy file")
		return
	}

	view := &responseView{}
	ctrl := uploader.NewController(h.processor, view)
	report, err := ctrl.Submit(ctx, uploader.Input{
		CompanyName: r.FormValue(fieldCompanyName),
		File: &domain.PolicyFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		},
	})
	resp := view.response()
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	} else {
		resp.ID = h.cache.Put(report)
	}

	writeJSON(w, r, status, resp)
	logger.Info().
		Str("status", resp.Status).
		Str("report_id", resp.ID).
		Msg("processed upload")
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	kind, err := downloads.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, ok := h.cache.Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "report not found")
		return
	}

	artifact, err := downloads.Build(report, kind)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, downloads.ErrNoPayload) {
			status = http.StatusNotFound
		}
		writeError(w, r, status, err.Error())
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(artifact.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		logger.Error().
			Err(err).
			Str("report_id", id).
			Msg("failed to write download")
	}
}

// contentDisposition quotes the filename, switching to RFC 2231 encoding for
// non-ASCII company names.
func contentDisposition(filename string) string {
	v := mime.FormatMediaType("attachment", map[string]string{
		"filename": downloads.SafeFilename(filename),
	})
	if v == "" {
		return "attachment"
	}
	return v
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, api.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

// responseView collects what the controller shows so it can be returned as JSON.
type responseView struct {
	spinner bool
	status  string
	message string
	page    *render.Page
}

func (v *responseView) ShowProcessing() {
	v.spinner = true
	v.status = ""
	v.message = ""
	v.page = nil
}

func (v *responseView) HideSpinner() { v.spinner = false }

func (v *responseView) ShowError(msg string) {
	v.status = StatusError
	v.message = msg
}

func (v *responseView) ShowSuccess(msg string) {
	v.status = StatusSuccess
	v.message = msg
}

func (v *responseView) ShowResults(page render.Page) {
	v.page = &page
}

func (v *responseView) response() ProcessResponse {
	return ProcessResponse{
		Status:  v.status,
		Message: v.message,
		Page:    v.page,
	}
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/portfolio/backend/internal/model"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/auth"
)

// maxBodyBytes はリクエストボディの上限（64KiB）
const maxBodyBytes = 64 << 10

// ContactHandler handles contact form submission and admin listing.
type ContactHandler struct {
	contactService service.ContactService
	showDetails    bool
}

// NewContactHandler creates a ContactHandler with the given service.
// showDetails adds the internal error text to 500 responses.
func NewContactHandler(contactService service.ContactService, showDetails bool) *ContactHandler {
	return &ContactHandler{contactService: contactService, showDetails: showDetails}
}

// submitRequest は POST /api/contact のリクエストボディ
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// submitResponse は送信成功時のレスポンス
type submitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        string `json:"id"`
	EmailSent bool   `json:"emailSent"`
}

// Submit handles POST /api/contact.
// name, email and message are all required. The response is 200 once the
// record is stored, whether or not the notification email went out.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	receipt, err := h.contactService.Submit(r.Context(), service.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		Message:   "Message sent successfully",
		ID:        receipt.ID,
		EmailSent: receipt.EmailSent,
	})
}

func (h *ContactHandler) writeSubmitError(w http.ResponseWriter, err error) {
	var (
		verr *service.ValidationError
		cerr *service.ConfigurationError
	)
	switch {
	case errors.As(err, &verr):
		msg := "Missing required fields"
		if len(verr.Missing) == 0 {
			msg = "Message is too long"
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusInternalServerError, h.serverError("Server configuration error", err))
	default:
		writeJSON(w, http.StatusInternalServerError, h.serverError("Failed to process contact form", err))
	}
}

func (h *ContactHandler) serverError(msg string, err error) errorResponse {
	resp := errorResponse{Error: msg}
	if h.showDetails {
		resp.Details = err.Error()
	}
	return resp
}

// adminListResponse は GET /api/admin/contacts のレスポンス
type adminListResponse struct {
	Submissions []*model.ContactSubmission `json:"submissions"`
	Total       int                        `json:"total"`
	Limit       int                        `json:"limit"`
	Offset      int                        `json:"offset"`
}

// AdminList handles GET /api/admin/contacts (admin token only).
// Supports query params: limit (1-100, default 20), offset.
func (h *ContactHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	if !auth.IsAdminFromContext(r.Context()) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return
	}

	opts := model.SubmissionListOptions{
		Limit:  20,
		Offset: 0,
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			opts.Limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	submissions, total, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, h.serverError("list_failed", err))
		return
	}

	// 空の場合は null ではなく [] を返す
	if submissions == nil {
		submissions = []*model.ContactSubmission{}
	}

	writeJSON(w, http.StatusOK, adminListResponse{
		Submissions: submissions,
		Total:       total,
		Limit:       opts.Limit,
		Offset:      opts.Offset,
	})
}

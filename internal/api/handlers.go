package api

import (
	"errors"
	"net/http"

	"github.com/ignite/marketing-site/internal/model"
	"github.com/ignite/marketing-site/internal/pkg/httputil"
	"github.com/ignite/marketing-site/internal/service"
	"github.com/ignite/marketing-site/internal/store"
)

// Handlers contains all HTTP handlers for the submission API.
type Handlers struct {
	svc *service.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{svc: svc}
}

// Root confirms the API is running.
//
//	GET /
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"message": "SMS Marketing SaaS API is running"})
}

// SubmitContact accepts a contact-form submission and returns the stored
// record, including the generated id and created_at.
//
//	POST /api/contact
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var in model.ContactInput
	if !httputil.Decode(w, r, &in) {
		return
	}

	c, err := h.svc.SubmitContact(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, c)
}

// SubscribeNewsletter accepts a newsletter opt-in. A duplicate email is a
// 400 with a message the frontend surfaces verbatim.
//
//	POST /api/newsletter
func (h *Handlers) SubscribeNewsletter(w http.ResponseWriter, r *http.Request) {
	var in model.SubscriberInput
	if !httputil.Decode(w, r, &in) {
		return
	}

	sub, err := h.svc.SubscribeNewsletter(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, sub)
}

// ListContacts returns all contact records.
//
//	GET /api/contacts
func (h *Handlers) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.svc.ListContacts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, contacts)
}

// ListSubscribers returns all subscriber records.
//
//	GET /api/subscribers
func (h *Handlers) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.ListSubscribers(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.OK(w, subs)
}

// HealthCheck reports whether the document store is reachable. Uptime
// monitors depend on the 503 to distinguish "dependency down" from other
// failures.
//
//	GET /api/health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.HealthCheck(r.Context()); err != nil {
		httputil.ServiceUnavailable(w, "Service unavailable")
		return
	}
	httputil.OK(w, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}

// writeServiceError maps the service error taxonomy onto response codes:
// validation → 422, duplicate email → 400, anything else → 500 with a
// generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		httputil.UnprocessableEntity(w, verr.Error())
		return
	}
	if errors.Is(err, store.ErrDuplicateEmail) {
		httputil.BadRequest(w, "Email already subscribed")
		return
	}
	httputil.InternalError(w, err)
}

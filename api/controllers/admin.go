package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Mongkol7/E-Bookstore/api/responses"
	"github.com/Mongkol7/E-Bookstore/api/validators"
	"github.com/Mongkol7/E-Bookstore/internal/admin"
	"github.com/Mongkol7/E-Bookstore/internal/upstream"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
	"github.com/Mongkol7/E-Bookstore/pkg/logger"
)

// AdminDashboard aggregates every admin panel for the selected period.
func AdminDashboard(svc *admin.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		period := admin.ParsePeriod(r.URL.Query().Get("period"))
		dash, err := svc.Dashboard(r.Context(), sess.Token, period)
		if err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}

func adminResource(r *http.Request) (upstream.AdminResource, error) {
	resource := upstream.AdminResource(chi.URLParam(r, "resource"))
	if !resource.Valid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown admin resource").
			WithDetails(map[string]string{"resource": string(resource)})
	}
	return resource, nil
}

// AdminCreate forwards a create to the named collection.
func AdminCreate(svc *admin.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		resource, err := adminResource(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload map[string]any
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CreateResource(r.Context(), sess.Token, resource, payload); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "created"})
	}
}

// AdminUpdate forwards an update; the entity id travels in the body.
func AdminUpdate(svc *admin.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		resource, err := adminResource(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload map[string]any
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, ok := payload["id"]; !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "id is required"))
			return
		}

		if err := svc.UpdateResource(r.Context(), sess.Token, resource, payload); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

type adminDeleteRequest struct {
	ID int64 `json:"id" validate:"required,min=1"`
}

// AdminDelete forwards a delete by body-carried id.
func AdminDelete(svc *admin.Service, teardown *Teardown, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireSession(w, r, logg)
		if !ok {
			return
		}

		resource, err := adminResource(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adminDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteResource(r.Context(), sess.Token, resource, payload.ID); err != nil {
			teardown.Fail(w, r, logg, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

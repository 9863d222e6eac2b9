package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/metrics"
	"github.com/hackgods/vortex-care/internal/recruitment"
	"github.com/hackgods/vortex-care/internal/security"
	"github.com/hackgods/vortex-care/internal/validate"
)

// deps are the collaborators shared by every handler.
type deps struct {
	identity    *identity.Service
	recruitment *recruitment.Service
	clinic      *clinic.Service
	validator   *validate.Validator
	sanitizer   *security.Sanitizer
	metrics     *metrics.Collector
}

func idParam(r *http.Request) string { return chi.URLParam(r, "id") }

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, identity.ErrAccountDeactivated):
		return "deactivated"
	default:
		return "error"
	}
}

func loginHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decode(w, r, d.validator, &req); err != nil {
			handleError(w, r, err)
			return
		}
		res, err := d.identity.Login(r.Context(), req.Email, req.Password)
		d.metrics.RecordLogin(loginOutcome(err))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, LoginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: toUserResponse(res.User)})
	}
}

func registerHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		clean := func() {
			d.sanitizer.Strings(&req.FirstName, &req.LastName, &req.Phone)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		res, err := d.identity.Register(r.Context(), identity.RegisterInput{
			Email:     req.Email,
			Password:  req.Password,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, LoginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: toUserResponse(res.User)})
	}
}

func logoutHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.identity.Logout(r.Context(), ActorFrom(r.Context())); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func meHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.identity.Me(r.Context(), ActorFrom(r.Context()))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func updateProfileHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileRequest
		clean := func() {
			d.sanitizer.Strings(req.FirstName, req.LastName, req.Phone)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		u, err := d.identity.UpdateProfile(r.Context(), ActorFrom(r.Context()), identity.ProfilePatch{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Avatar:    req.Avatar,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

func changePasswordHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChangePasswordRequest
		if err := decode(w, r, d.validator, &req); err != nil {
			handleError(w, r, err)
			return
		}
		if err := d.identity.ChangePassword(r.Context(), ActorFrom(r.Context()), req.CurrentPassword, req.NewPassword); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/indiankitchen/kitchen-backend/internal/core"
	"github.com/indiankitchen/kitchen-backend/internal/middleware"
	"github.com/indiankitchen/kitchen-backend/internal/store"
	"github.com/indiankitchen/kitchen-backend/internal/user"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type Handler struct {
	service   *Service
	cookie    CookieConfig
	validator *validator.Validate
}

func NewHandler(service *Service, cookie CookieConfig) *Handler {
	return &Handler{
		service:   service,
		cookie:    cookie,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts the account endpoints. credentialLimit guards
// the routes that accept credentials.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, credentialLimit func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(credentialLimit)
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.Post("/google-sync", h.GoogleSync)
		})

		r.Post("/logout", h.Logout)
		r.With(optionalAuth).Get("/me", h.Me)
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, sess, err := h.service.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.DuplicateError("user"))
			return
		}
		core.Fail(w, err, "user")
		return
	}

	h.setSessionCookie(w, sess)
	core.Created(w, AuthResponse{User: user.ToUserResponse(u)})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, "missing email or password")
		return
	}

	u, sess, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.writeSignInError(w, err)
		return
	}

	h.setSessionCookie(w, sess)
	core.OK(w, AuthResponse{User: user.ToUserResponse(u)})
}

func (h *Handler) GoogleSync(w http.ResponseWriter, r *http.Request) {
	var req GoogleSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, sess, err := h.service.GoogleSync(r.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, ErrGoogleDisabled) {
			core.JSONError(w, core.NewAppError(
				err,
				"google sign-in is not enabled",
				http.StatusNotFound,
				"GOOGLE_DISABLED",
			))
			return
		}
		h.writeSignInError(w, err)
		return
	}

	h.setSessionCookie(w, sess)
	core.OK(w, GoogleSyncResponse{Success: true, User: user.ToUserResponse(u)})
}

// Logout always succeeds and always clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.ExtractToken(r, h.cookie.Name)

	if err := h.service.Logout(r.Context(), token); err != nil {
		core.InternalServerError(w, err)
		return
	}

	h.clearSessionCookie(w)
	core.OK(w, map[string]bool{"success": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.OK(w, MeResponse{})
		return
	}

	u, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.OK(w, MeResponse{})
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := user.ToUserResponse(u)
	core.OK(w, MeResponse{User: &resp})
}

func (h *Handler) writeSignInError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAccountBlocked):
		core.JSONError(w, core.ForbiddenError("your account has been blocked"))
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError("invalid credentials"))
	default:
		core.InternalServerError(w, err)
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sess *store.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

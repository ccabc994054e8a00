package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rahulkpr2510/droply/internal/config"
	"github.com/rahulkpr2510/droply/internal/identity"
	"github.com/rahulkpr2510/droply/internal/onboarding"
)

// UserHandler holds the dependencies for onboarding-related HTTP handlers.
// Each request drives a fresh onboarding.Flow over the identity provider;
// sign-up spans two requests, with the pending verification target handed
// back to the client in between.
type UserHandler struct {
	provider identity.Provider
	cfg      config.Config
}

// NewUserHandler creates a new UserHandler with its dependencies
func NewUserHandler(provider identity.Provider, cfg config.Config) *UserHandler {
	return &UserHandler{provider: provider, cfg: cfg}
}

// ---Request/Response Structs ---

type verifyRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Code   string `json:"code"`
}

type resendCodeRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type signUpResponse struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type sessionResponse struct {
	Status       string `json:"status"`
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type validationResponse struct {
	Message string                 `json:"error"`
	Fields  onboarding.FieldErrors `json:"fields"`
}

// --- Handlers ---

// SignUp handles the POST /api/auth/sign-up endpoint. On success the account
// exists but is unverified; the client must follow up with the emailed code.
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var form onboarding.SignUpForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("Invalid request body"))
		return
	}

	flow := onboarding.NewFlow(h.provider)
	if err := flow.SubmitSignUp(r.Context(), form); err != nil {
		var vErr *onboarding.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, validationResponse{
				Message: "Validation failed",
				Fields:  vErr.Fields,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, NewInternalServerError())
		return
	}

	if flow.Phase() != onboarding.PhaseAwaitingVerification {
		writeJSON(w, http.StatusConflict, NewConflictError(flow.LastError()))
		return
	}

	pending := flow.Pending()
	writeJSON(w, http.StatusCreated, signUpResponse{
		Status: "awaiting_verification",
		UserID: pending.UserID,
		Email:  pending.Email,
	})
}

// Verify handles the POST /api/auth/verify endpoint. An accepted code
// activates the session: the access token is set as a cookie and the caller
// identity it carries is what the listing endpoint authorizes against.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("Invalid request body"))
		return
	}
	if req.UserID == "" || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("userId and code are required"))
		return
	}

	pending := &identity.Pending{UserID: req.UserID, Email: req.Email}
	flow := onboarding.NewVerificationFlow(h.provider, pending)
	if err := flow.SubmitCode(r.Context(), req.Code); err != nil {
		writeJSON(w, http.StatusInternalServerError, NewInternalServerError())
		return
	}

	if flow.Phase() != onboarding.PhaseComplete {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError(flow.LastError()))
		return
	}

	h.activateSession(w, flow.Session())
}

// SignIn handles the POST /api/auth/sign-in endpoint.
func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var form onboarding.SignInForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("Invalid request body"))
		return
	}

	flow := onboarding.NewFlow(h.provider)
	if err := flow.SubmitSignIn(r.Context(), form); err != nil {
		var vErr *onboarding.ValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusBadRequest, validationResponse{
				Message: "Validation failed",
				Fields:  vErr.Fields,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, NewInternalServerError())
		return
	}

	if flow.Phase() != onboarding.PhaseComplete {
		writeJSON(w, http.StatusUnauthorized, NewUnauthorizedError(flow.LastError()))
		return
	}

	h.activateSession(w, flow.Session())
}

// ResendCode handles the PATCH /api/auth/resend-code endpoint for accounts
// stuck in the verification step.
func (h *UserHandler) ResendCode(w http.ResponseWriter, r *http.Request) {
	var req resendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("Invalid request body"))
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, NewBadRequestError("userId is required"))
		return
	}

	pending := &identity.Pending{UserID: req.UserID, Email: req.Email}
	if err := h.provider.RequestEmailCode(r.Context(), pending); err != nil {
		writeJSON(w, http.StatusInternalServerError, FromServiceError(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "code_sent"})
}

// activateSession sets the access-token cookie and returns the session body.
func (h *UserHandler) activateSession(w http.ResponseWriter, session *identity.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.Auth.AccessKeyTTL),
		HttpOnly: true,
		Secure:   h.cfg.HTTP.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, http.StatusOK, sessionResponse{
		Status:       "complete",
		UserID:       session.UserID,
		Email:        session.Email,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

// --- Helper Functions ---

// writeJSON is a utility for sending JSON responses with a given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

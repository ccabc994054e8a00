package api

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// method is a helper function to ensure a handler only responds to a specific HTTP method.
func method(m string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != m {
			writeJSON(w, http.StatusMethodNotAllowed, &APIError{
				Status:  http.StatusMethodNotAllowed,
				Message: "Method not allowed",
			})
			return
		}
		next(w, r)
	}
}

// byMethod dispatches to a different handler per HTTP method on one path.
func byMethod(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next, ok := handlers[r.Method]
		if !ok {
			writeJSON(w, http.StatusMethodNotAllowed, &APIError{
				Status:  http.StatusMethodNotAllowed,
				Message: "Method not allowed",
			})
			return
		}
		next(w, r)
	}
}

// RegisterRoutes sets up all the application's routes on the given ServeMux.
func RegisterRoutes(
	mux *http.ServeMux,
	userHandler *UserHandler,
	fileHandler *FileHandler,
	mediaHandler *MediaHandler,
	authMW *AuthMiddleware,
	logger *log.Logger,
) {
	// --- Onboarding (public) ---
	mux.HandleFunc("/api/auth/sign-up", method("POST", userHandler.SignUp))
	mux.HandleFunc("/api/auth/verify", method("POST", userHandler.Verify))
	mux.HandleFunc("/api/auth/sign-in", method("POST", userHandler.SignIn))
	mux.HandleFunc("/api/auth/resend-code", method("PATCH", userHandler.ResendCode))

	// --- Files (authenticated) ---
	mux.Handle("/api/files", authMW.RequireAuth(byMethod(map[string]http.HandlerFunc{
		"GET":  fileHandler.GetList,
		"POST": fileHandler.Create,
	})))

	// --- Media CDN upload auth (authenticated) ---
	mux.Handle("/api/imagekit-auth", authMW.RequireAuth(method("GET", mediaHandler.UploadAuth)))

	// --- Metrics ---
	mux.Handle("/metrics", promhttp.Handler())

	logger.Println("Registered API routes")
}

// We have to add this custom PATCH handler because the default ServeMux doesn't support it.
// This is a workaround for sticking to the standard library.
// We can wrap our main mux with this to add PATCH support.
func NewPatchRouter(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "PATCH" {
			// Find a handler that matches the path.
			handler, pattern := mux.Handler(r)

			// If a handler is found for the path (even if it's for a different method),
			// serve the request. Our `method` helper inside the handler will
			// then correctly apply method-specific logic.
			if pattern != "" {
				handler.ServeHTTP(w, r)
				return
			}
		}
		// For all other methods, use the default mux behavior.
		mux.ServeHTTP(w, r)
	})
}

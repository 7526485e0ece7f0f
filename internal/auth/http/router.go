package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/auth/metrics"
	"github.com/aussiebroadwan/accounts/internal/auth/service"
	"github.com/aussiebroadwan/accounts/internal/auth/store"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"

	_ "github.com/aussiebroadwan/accounts/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	metrics      *metrics.Metrics

	store       store.Store
	AuthService *service.AuthService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		metrics:      m,
		logger:       logger,
	}

	// Request logging outermost so every response carries a request id.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if m != nil {
		r.middlewares = append(r.middlewares, m.HTTPMiddleware)
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerTokens()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	User accounts: registration with emailed activation codes, login, token refresh, password reset and administration.
//	@description
//	@description				Access and refresh tokens are EdDSA (Ed25519) signed JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/accounts
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	r.Mux.Handle("POST /v1/auth/register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /v1/auth/activate", &ActivateHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /v1/auth/activate/resend", &ResendActivationHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /v1/auth/forgot-password", &ForgotPasswordHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /v1/auth/reset-password", &ResetPasswordHandler{AuthService: r.AuthService})

	// Authenticated endpoints
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(&MeHandler{AuthService: r.AuthService},
			httpx.AuthnMiddleware(r.keys.Verifier),
		),
	)
	r.Mux.Handle("PUT /v1/auth/password",
		httpx.Chain(&UpdatePasswordHandler{AuthService: r.AuthService},
			httpx.AuthnMiddleware(r.keys.Verifier),
		),
	)
}

func (r *Router) registerTokens() {
	r.Mux.Handle("POST /v1/auth/login", &LoginHandler{AuthService: r.AuthService})

	// The refresh token is verified by the handler, not AuthnMiddleware,
	// because the middleware only accepts access tokens.
	r.Mux.Handle("POST /v1/auth/refresh", &RefreshHandler{AuthService: r.AuthService})

	r.Mux.Handle("GET /.well-known/jwks.json", JWKSHandler(r.keys))
}

func (r *Router) registerAdmin() {
	h := &AdminUsersHandler{AuthService: r.AuthService}

	// Superuser checks happen in the service against the stored account.
	r.Mux.Handle("POST /v1/admin/users",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.keys.Verifier),
		),
	)
	r.Mux.Handle("DELETE /v1/admin/users/{id}",
		httpx.Chain(http.HandlerFunc(h.HandleDelete),
			httpx.AuthnMiddleware(r.keys.Verifier),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
	r.Mux.Handle("GET /health", HealthHandler())

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}

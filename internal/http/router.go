package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/internal/store"
	"github.com/harborlane/sheetrate/pkg/httpx"
	"github.com/harborlane/sheetrate/pkg/jwtx"
	"github.com/harborlane/sheetrate/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       *jwtx.Signer
	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AccountService   *service.AccountService
	DirectoryService *service.DirectoryService
	ConverterService *service.ConverterService
	BootstrapService *service.BootstrapService
}

func NewRouter(
	signer *jwtx.Signer,
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerConverter()
	r.registerDirectory()
	r.registerBootstrap()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
//
//	@title			sheetrate API
//	@version		0.1.0
//	@description	Backend for the sheetrate spreadsheet task-pane panel: session management,
//	@description	an account directory with an admin role, and a currency conversion workflow
//	@description	that rewrites the selected cell of the host workbook.
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
//	@description				Session token issued at login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn is the shared bearer-token middleware: verify the JWT, then confirm
// the backing session row is still live.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(r.verifier, r.AccountService)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AccountService: r.AccountService}

	// Credential endpoints take the strict limit by IP to slow brute force.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)

	me := &MeHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(me,
			r.authn(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerConverter() {
	currencies := &CurrenciesHandler{ConverterService: r.ConverterService}
	selection := &SelectionHandler{ConverterService: r.ConverterService}
	convert := &ConvertHandler{ConverterService: r.ConverterService}

	r.Mux.Handle("GET /v1/currencies",
		httpx.Chain(http.HandlerFunc(currencies.HandleList),
			r.authn(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)

	// Refresh hits the upstream rate API, so it gets the moderate limit.
	r.Mux.Handle("POST /v1/currencies/refresh",
		httpx.Chain(http.HandlerFunc(currencies.HandleRefresh),
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)

	r.Mux.Handle("GET /v1/selection",
		httpx.Chain(http.HandlerFunc(selection.HandleGet),
			r.authn(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("PUT /v1/selection/{side}",
		httpx.Chain(http.HandlerFunc(selection.HandlePut),
			r.authn(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/selection",
		httpx.Chain(http.HandlerFunc(selection.HandleReset),
			r.authn(),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /v1/convert",
		httpx.Chain(convert,
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerDirectory() {
	h := &UsersHandler{DirectoryService: r.DirectoryService}

	// The admin middleware re-reads the acting account on every request; the
	// service runs its own gate again before mutating.
	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			r.authn(),
			httpx.RequireAdmin(r.DirectoryService),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/users", admin(http.HandlerFunc(h.HandleList)))
	r.Mux.Handle("PUT /v1/users/{id}/admin", admin(http.HandlerFunc(h.HandleSetAdmin)))
	r.Mux.Handle("DELETE /v1/users/{id}", admin(http.HandlerFunc(h.HandleDelete)))
}

func (r *Router) registerBootstrap() {
	h := &BootstrapHandler{BootstrapService: r.BootstrapService}
	r.Mux.Handle("POST /v1/bootstrap",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}

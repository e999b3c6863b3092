package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/leverads/meta-sync-api/pkg/apiErrors"
)

var (
	WithRoutes = func(routes ...Route) ConfigRouter {
		return func(router *Router) {
			router.AddRoutes(routes...)
		}
	}

	// WithMiddlewares aplica middlewares a todas as rotas adicionadas depois dele
	WithMiddlewares = func(middlewares ...func(http.Handler) http.Handler) ConfigRouter {
		return func(router *Router) {
			router.shared = append(router.shared, middlewares...)
		}
	}
)

type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []func(http.Handler) http.Handler // Middlewares exclusivos desta rota
}

type Router struct {
	router *httprouter.Router
	shared []func(http.Handler) http.Handler
}

type ConfigRouter func(router *Router)

// New cria o router com respostas JSON para rota inexistente e método não suportado
func New(configs ...ConfigRouter) Router {
	router := &Router{
		router: httprouter.New(),
	}
	router.router.NotFound = http.HandlerFunc(notFound)
	router.router.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)

	for _, config := range configs {
		config(router)
	}

	return *router
}

func (r Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// AddRoutes registra as rotas; os middlewares compartilhados envolvem os da rota
func (r Router) AddRoutes(routes ...Route) {
	for _, route := range routes {
		handler := chain(route.Handler, route.Middlewares)
		handler = chain(handler, r.shared)

		r.router.Handler(route.Method, route.Path, handler)
	}
}

// chain aplica os middlewares do último para o primeiro
func chain(handler http.Handler, middlewares []func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func notFound(w http.ResponseWriter, r *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrRouteNotFound, "Rota não encontrada", map[string]string{"path": r.URL.Path})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apiErrors.WriteError(w, apiErrors.ErrMethodNotAllowed, "Método não suportado", map[string]string{"method": r.Method})
}

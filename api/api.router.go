package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/roadvision/store/api/resources"
	nuts "github.com/vaudience/go-nuts"
)

type Router struct {
	router    *mux.Router
	handler   http.Handler
	resources *resources.Resources
}

func NewRouter(res *resources.Resources) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		resources: res,
	}

	r.setupRoutes()
	r.handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(
		handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(handlers.CustomLoggingHandler(io.Discard, r.router, logRequest)),
	)
	return r
}

func (r *Router) setupRoutes() {
	// Public routes
	r.router.HandleFunc("/health", r.resources.System.Health).Methods(http.MethodGet)
	r.router.HandleFunc("/metrics", r.resources.System.Metrics).Methods(http.MethodGet)
	r.router.HandleFunc("/swagger/doc.json", r.resources.System.SwaggerDoc).Methods(http.MethodGet)

	// Processed agent data, with and without the trailing slash
	data := r.resources.ProcessedAgentData
	for _, base := range []string{"/processed_agent_data", "/processed_agent_data/"} {
		r.router.HandleFunc(base, data.List).Methods(http.MethodGet)
		r.router.HandleFunc(base, data.Create).Methods(http.MethodPost)
	}
	r.router.HandleFunc("/processed_agent_data/{id}", data.Get).Methods(http.MethodGet)
	r.router.HandleFunc("/processed_agent_data/{id}", data.Update).Methods(http.MethodPut)
	r.router.HandleFunc("/processed_agent_data/{id}", data.Delete).Methods(http.MethodDelete)

	// Live updates
	r.router.HandleFunc("/ws", r.resources.Live.Subscribe).Methods(http.MethodGet)
	r.router.HandleFunc("/ws/", r.resources.Live.Subscribe).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	nuts.L.Infof("[HTTP] %s %s %d %dB %s", p.Request.Method, p.URL.RequestURI(), p.StatusCode, p.Size, p.TimeStamp.Format(time.RFC3339))
}

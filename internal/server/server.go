// Package server wires the GraphQL executor, transports and auxiliary endpoints into one HTTP handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/handler"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/99designs/gqlgen/graphql/handler/lru"
	"github.com/99designs/gqlgen/graphql/handler/transport"
	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/VitaminP8/hackernews/graph"
	"github.com/VitaminP8/hackernews/graph/executor"
	"github.com/VitaminP8/hackernews/internal/apperror"
	"github.com/VitaminP8/hackernews/internal/auth"
	"github.com/VitaminP8/hackernews/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

const keepAlivePingInterval = 10 * time.Second

type Deps struct {
	Resolver *graph.Resolver
	Tokens   auth.TokenSigner
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Log      logrus.FieldLogger

	// Health reports backend readiness for /healthz. Nil means always healthy.
	Health func(ctx context.Context) error
}

// NewGraphQLHandler builds the /query handler: websocket, GET and POST transports,
// a parsed-query cache and automatic persisted queries.
func NewGraphQLHandler(deps Deps) *handler.Server {
	srv := handler.New(executor.NewExecutableSchema(executor.Config{Resolvers: deps.Resolver}))

	srv.AddTransport(transport.Websocket{
		KeepAlivePingInterval: keepAlivePingInterval,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		InitFunc: auth.WebsocketInitFunc(deps.Tokens, deps.Log),
	})
	srv.AddTransport(transport.Options{})
	srv.AddTransport(transport.GET{})
	srv.AddTransport(transport.POST{})

	srv.SetQueryCache(lru.New[*ast.QueryDocument](1000))
	srv.Use(extension.AutomaticPersistedQuery{Cache: lru.New[string](100)})
	if deps.Metrics != nil {
		srv.Use(metrics.OperationCounter{Metrics: deps.Metrics})
	}

	srv.SetErrorPresenter(errorPresenter(deps.Log))
	srv.SetRecoverFunc(recoverFunc(deps.Log))
	return srv
}

// NewRouter mounts the GraphQL endpoint, the playground, /metrics and /healthz.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", healthHandler(deps.Health))
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Handle("/", playground.Handler("Hacker News GraphQL", "/query"))
	r.Handle("/query", auth.Middleware(deps.Tokens, deps.Log)(NewGraphQLHandler(deps)))
	return r
}

// errorPresenter exposes apperror kinds as extensions.code and hides internal failures.
func errorPresenter(log logrus.FieldLogger) graphql.ErrorPresenterFunc {
	return func(ctx context.Context, err error) *gqlerror.Error {
		gqlErr := graphql.DefaultErrorPresenter(ctx, err)

		var appErr *apperror.Error
		if !errors.As(err, &appErr) {
			return gqlErr
		}
		if appErr.Kind == apperror.KindInternal {
			log.WithError(err).WithField("path", gqlErr.Path.String()).Error("graphql: internal error")
			gqlErr.Message = "internal server error"
		}

		if gqlErr.Extensions == nil {
			gqlErr.Extensions = map[string]any{}
		}
		gqlErr.Extensions["code"] = string(appErr.Kind)
		return gqlErr
	}
}

func recoverFunc(log logrus.FieldLogger) graphql.RecoverFunc {
	return func(ctx context.Context, r any) error {
		log.WithField("stack", string(debug.Stack())).Errorf("graphql: panic: %v", r)
		return apperror.Internal(fmt.Errorf("panic: %v", r))
	}
}

// requestLogger logs one line per request. The wrapped writer keeps http.Hijacker for websockets.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
				}).Info("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

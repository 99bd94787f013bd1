package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"WhatsEase/internal/config"
	"WhatsEase/internal/http-server/handlers/activity"
	"WhatsEase/internal/http-server/handlers/auth"
	"WhatsEase/internal/http-server/handlers/errors"
	"WhatsEase/internal/http-server/handlers/message"
	"WhatsEase/internal/http-server/handlers/user"
	"WhatsEase/internal/http-server/middleware/authenticate"
	"WhatsEase/internal/http-server/middleware/timeout"
	"WhatsEase/internal/lib/sl"
	"WhatsEase/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	auth.Core
	user.Core
	message.Core
	activity.Core
}

// New builds the router and serves it. Blocks until the listener fails.
func New(conf *config.Config, log *slog.Logger, handler Handler, hub *ws.Hub, wsAuth ws.Authenticator) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	// The socket path authenticates during the handshake itself.
	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(hub, wsAuth, log, w, r)
	})

	router.Group(func(public chi.Router) {
		public.Use(timeout.Timeout(5))
		public.Use(render.SetContentType(render.ContentTypeJSON))

		public.Route("/auth", func(r chi.Router) {
			r.Post("/register", auth.Register(log, handler))
			r.Post("/login", auth.Login(log, handler))
		})
	})

	router.Group(func(private chi.Router) {
		private.Use(timeout.Timeout(5))
		private.Use(render.SetContentType(render.ContentTypeJSON))
		private.Use(authenticate.New(log, handler))

		private.Route("/api/v1", func(v1 chi.Router) {
			v1.Route("/users", func(r chi.Router) {
				r.Get("/", user.GetUsers(log, handler))
				r.Get("/me", user.Me(log, handler))
			})
			v1.Route("/messages", func(r chi.Router) {
				r.Get("/", message.History(log, handler))
				r.Post("/", message.Create(log, handler))
			})
			v1.Route("/activity", func(r chi.Router) {
				r.Get("/", activity.List(log, handler))
			})
		})
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}

package http

import (
	"github.com/geocoder89/bookapi/internal/auth"
	"github.com/geocoder89/bookapi/internal/config"
	"github.com/geocoder89/bookapi/internal/http/handlers"
	"github.com/geocoder89/bookapi/internal/http/middlewares"
	"github.com/geocoder89/bookapi/internal/observability"
	"github.com/geocoder89/bookapi/internal/repo"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs from main.
type Deps struct {
	Config config.Config
	Repos  repo.Repositories
	JWT    *auth.Manager

	// AuthLimiter throttles register/login; nil disables it.
	AuthLimiter middlewares.Limiter

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer

	// Ready holds extra readiness checks next to the store ping.
	Ready map[string]handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(middlewares.Recovery())
	r.Use(middlewares.ErrorHandler())
	r.Use(middlewares.RequestID())
	if d.Config.OTelEnabled {
		r.Use(otelgin.Middleware("bookapi"))
	}
	r.Use(middlewares.RequestLogger())
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))
	if d.Config.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.Config.MaxBodyBytes))
	}

	r.NoRoute(middlewares.NotFound)

	// health
	checks := map[string]handlers.Pinger{"store": d.Repos.Ping}
	for name, check := range d.Ready {
		checks[name] = check
	}

	h := handlers.NewHealthHandler(checks)
	r.GET("/", h.Home)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(d.Repos.Users, d.JWT)
	booksHandler := handlers.NewBooksHandler(d.Repos.Books)
	authorsHandler := handlers.NewAuthorsHandler(d.Repos.Authors)
	genresHandler := handlers.NewGenresHandler(d.Repos.Genres)

	authMW := middlewares.NewAuthMiddleware(d.JWT)

	api := r.Group("/api")

	// credential routes are public but throttled per client ip
	public := api.Group("")
	if d.AuthLimiter != nil {
		public.Use(middlewares.RateLimiterMiddleware(d.AuthLimiter, middlewares.KeyByIP))
	}
	public.Use(middlewares.RequireJSON())
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)

	// the gate runs first so an anonymous request is always a 401
	catalog := api.Group("")
	catalog.Use(authMW.RequireAuth(), middlewares.RequireJSON())

	bookID := middlewares.ValidateObjectID("bookId")
	catalog.GET("/books", booksHandler.ListBooks)
	catalog.POST("/books", booksHandler.CreateBook)
	catalog.GET("/books/:bookId", bookID, booksHandler.GetBook)
	catalog.PUT("/books/:bookId", bookID, booksHandler.UpdateBook)
	catalog.DELETE("/books/:bookId", bookID, booksHandler.DeleteBook)

	authorID := middlewares.ValidateObjectID("authorId")
	catalog.GET("/authors", authorsHandler.ListAuthors)
	catalog.POST("/authors", authorsHandler.CreateAuthor)
	catalog.GET("/authors/:authorId", authorID, authorsHandler.GetAuthor)
	catalog.PUT("/authors/:authorId", authorID, authorsHandler.UpdateAuthor)
	catalog.DELETE("/authors/:authorId", authorID, authorsHandler.DeleteAuthor)

	genreID := middlewares.ValidateObjectID("genreId")
	catalog.GET("/genres", genresHandler.ListGenres)
	catalog.POST("/genres", genresHandler.CreateGenre)
	catalog.GET("/genres/:genreId", genreID, genresHandler.GetGenre)
	catalog.PUT("/genres/:genreId", genreID, genresHandler.UpdateGenre)
	catalog.DELETE("/genres/:genreId", genreID, genresHandler.DeleteGenre)

	return r
}

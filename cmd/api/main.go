package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ScroogeKZ/CreativeStudio/internal/auth"
	"github.com/ScroogeKZ/CreativeStudio/internal/cache"
	"github.com/ScroogeKZ/CreativeStudio/internal/config"
	"github.com/ScroogeKZ/CreativeStudio/internal/contacts"
	"github.com/ScroogeKZ/CreativeStudio/internal/content"
	"github.com/ScroogeKZ/CreativeStudio/internal/db"
	"github.com/ScroogeKZ/CreativeStudio/internal/identity"
	"github.com/ScroogeKZ/CreativeStudio/internal/middleware"
	"github.com/ScroogeKZ/CreativeStudio/internal/notifications"
	"github.com/ScroogeKZ/CreativeStudio/internal/orders"
	"github.com/ScroogeKZ/CreativeStudio/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("postgres connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("postgres connected")
	defer pg.Close()

	if err := db.Migrate(pg.DB); err != nil {
		logger.Error("migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cacheStore := buildCache(ctx, cfg, logger)

	jwtManager := &auth.Manager{
		Secret:    auth.EnsureSecret(cfg.JWTSecret, logger),
		AdminTTL:  time.Duration(cfg.AdminTokenTTLDays) * 24 * time.Hour,
		ClientTTL: time.Duration(cfg.ClientTokenTTLDays) * 24 * time.Hour,
	}

	mailer := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, false)
	if mailer == nil {
		logger.Info("brevo mailer disabled")
	} else {
		logger.Info("brevo mailer enabled", slog.String("sender", cfg.BrevoSenderEmail))
	}

	val := validation.New()
	contentTTL := time.Duration(cfg.ContentTTLSeconds) * time.Second

	contentRepo := content.NewRepository(pg)
	contentService := content.NewService(contentRepo, cacheStore, contentTTL, logger)
	contentHandler := content.NewHandler(contentService, val, logger)

	contactsRepo := contacts.NewRepository(pg)
	contactsService := contacts.NewService(contactsRepo, mailer, cfg.ContactNotifyTo, logger)
	contactsHandler := contacts.NewHandler(contactsService, val, logger)

	identityRepo := identity.NewRepository(pg)
	adminService := identity.NewAdminService(identityRepo, jwtManager, logger)
	clientService := identity.NewClientService(identityRepo, jwtManager, logger)
	identityHandler := identity.NewHandler(adminService, clientService, val, logger)

	ordersRepo := orders.NewRepository(pg)
	ordersService := orders.NewService(ordersRepo, logger)
	ordersHandler := orders.NewHandler(ordersService, val, logger)

	if cfg.AdminPassword != "" {
		if _, created, err := adminService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			logger.Error("admin bootstrap failed", slog.String("error", err.Error()))
			os.Exit(1)
		} else if created {
			logger.Info("admin account created", slog.String("email", cfg.AdminEmail))
		}
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	window := time.Duration(cfg.RateLimitWindowSec) * time.Second
	contactLimiter := middleware.NewRateLimiter(cfg.RateLimitContact, window)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimitAuth, window)

	adminOnly := middleware.AdminAuth(adminService)
	clientOnly := middleware.ClientAuth(clientService)

	r.Route("/api", func(api chi.Router) {
		api.Get("/services", contentHandler.GetServices)
		api.Get("/services/{slug}", contentHandler.GetServiceBySlug)
		api.Get("/cases", contentHandler.GetCases)
		api.Get("/cases/{slug}", contentHandler.GetCaseBySlug)
		api.Get("/posts", contentHandler.GetPosts)
		api.Get("/posts/{slug}", contentHandler.GetPostBySlug)
		api.Get("/testimonials", contentHandler.GetTestimonials)

		api.With(contactLimiter.Middleware).Post("/contacts", contactsHandler.Submit)

		api.Route("/auth", func(a chi.Router) {
			a.With(authLimiter.Middleware).Post("/login", identityHandler.AdminLogin)
			a.With(adminOnly).Get("/me", identityHandler.AdminMe)
		})

		api.Route("/client", func(c chi.Router) {
			c.With(authLimiter.Middleware).Post("/register", identityHandler.ClientRegister)
			c.With(authLimiter.Middleware).Post("/login", identityHandler.ClientLogin)

			c.Group(func(portal chi.Router) {
				portal.Use(clientOnly)
				portal.Get("/me", identityHandler.ClientMe)
				portal.Get("/orders", ordersHandler.ClientListOrders)
				portal.Get("/orders/{id}", ordersHandler.ClientGetOrder)
				portal.Get("/orders/{id}/tasks", ordersHandler.ClientListTasks)
				portal.Get("/orders/{id}/updates", ordersHandler.ClientListUpdates)
				portal.Get("/stats", ordersHandler.ClientStats)
			})
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(adminOnly)

			admin.Get("/services", contentHandler.AdminListServices)
			admin.Post("/services", contentHandler.AdminCreateService)
			admin.Put("/services/{id}", contentHandler.AdminUpdateService)
			admin.Delete("/services/{id}", contentHandler.AdminDeleteService)

			admin.Get("/cases", contentHandler.AdminListCases)
			admin.Post("/cases", contentHandler.AdminCreateCase)
			admin.Put("/cases/{id}", contentHandler.AdminUpdateCase)
			admin.Delete("/cases/{id}", contentHandler.AdminDeleteCase)

			admin.Get("/posts", contentHandler.AdminListPosts)
			admin.Post("/posts", contentHandler.AdminCreatePost)
			admin.Put("/posts/{id}", contentHandler.AdminUpdatePost)
			admin.Delete("/posts/{id}", contentHandler.AdminDeletePost)

			admin.Get("/testimonials", contentHandler.AdminListTestimonials)
			admin.Post("/testimonials", contentHandler.AdminCreateTestimonial)
			admin.Put("/testimonials/{id}", contentHandler.AdminUpdateTestimonial)
			admin.Delete("/testimonials/{id}", contentHandler.AdminDeleteTestimonial)

			admin.Get("/contacts", contactsHandler.AdminList)
			admin.Patch("/contacts/{id}/status", contactsHandler.AdminUpdateStatus)

			admin.Get("/clients", identityHandler.AdminListClients)

			admin.Get("/orders", ordersHandler.AdminListOrders)
			admin.Post("/orders", ordersHandler.AdminCreateOrder)
			admin.Get("/orders/{id}", ordersHandler.AdminGetOrder)
			admin.Put("/orders/{id}", ordersHandler.AdminUpdateOrder)
			admin.Delete("/orders/{id}", ordersHandler.AdminDeleteOrder)
			admin.Get("/orders/{id}/tasks", ordersHandler.AdminListTasks)
			admin.Post("/orders/{id}/tasks", ordersHandler.AdminCreateTask)
			admin.Post("/tasks/{id}/complete", ordersHandler.AdminCompleteTask)
			admin.Get("/orders/{id}/updates", ordersHandler.AdminListUpdates)
			admin.Post("/orders/{id}/updates", ordersHandler.AdminCreateUpdate)
		})
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}

// buildCache selects the cache backend from config: an in-process memory
// cache by default, Redis when configured, or no caching at all.
func buildCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.Cache {
	switch cfg.CacheBackend {
	case "none":
		logger.Info("cache disabled")
		return cache.NewNoop()
	case "redis":
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		return redisCache
	default:
		return cache.NewMemory(time.Duration(cfg.ContentTTLSeconds) * time.Second)
	}
}

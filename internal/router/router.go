package router

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mookrata-pos/api/internal/config"
	"github.com/mookrata-pos/api/internal/database"
	"github.com/mookrata-pos/api/internal/handler"
	mw "github.com/mookrata-pos/api/internal/middleware"
	"github.com/mookrata-pos/api/internal/service"
	"github.com/mookrata-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Reads are open to any authenticated role, floor mutations require
// CASHIER or ADMIN, management surfaces require ADMIN.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/floor", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	newBillStore := func(db database.DBTX) service.BillStore {
		return database.New(db)
	}
	billService := service.NewBillService(pool, newBillStore)

	tableHandler := handler.NewTableHandler(queries, billService, hub, cfg.BaseURL)
	billHandler := handler.NewBillHandler(queries, billService, hub)
	customerHandler := handler.NewCustomerHandler(queries)
	promotionHandler := handler.NewPromotionHandler(queries)
	settingsHandler := handler.NewSettingsHandler(queries)
	reportHandler := handler.NewReportHandler(queries)
	userHandler := handler.NewUserHandler(queries)

	// cashierOrAdmin wraps the floor-mutation routes of a handler.
	cashierOrAdmin := func(register func(chi.Router)) func(chi.Router) {
		return func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole("ADMIN", "CASHIER"))
				register(r)
			})
		}
	}
	adminOnly := func(register func(chi.Router)) func(chi.Router) {
		return func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole("ADMIN"))
				register(r)
			})
		}
	}

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Route("/tables", func(r chi.Router) {
			tableHandler.RegisterRoutes(r)
			cashierOrAdmin(tableHandler.RegisterWriteRoutes)(r)
			adminOnly(tableHandler.RegisterAdminRoutes)(r)
		})

		r.Route("/bills", func(r chi.Router) {
			billHandler.RegisterRoutes(r)
			cashierOrAdmin(billHandler.RegisterWriteRoutes)(r)
			adminOnly(billHandler.RegisterAdminRoutes)(r)
		})

		r.Route("/customers", func(r chi.Router) {
			customerHandler.RegisterRoutes(r)
			cashierOrAdmin(customerHandler.RegisterWriteRoutes)(r)
			adminOnly(customerHandler.RegisterAdminRoutes)(r)
		})

		r.Route("/promotions", func(r chi.Router) {
			promotionHandler.RegisterRoutes(r)
			adminOnly(promotionHandler.RegisterAdminRoutes)(r)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler.RegisterRoutes(r)
			adminOnly(settingsHandler.RegisterAdminRoutes)(r)
		})

		r.Route("/reports", reportHandler.RegisterRoutes)

		r.Route("/users", adminOnly(userHandler.RegisterRoutes))
	})

	log.Println("Router initialized with all handlers")
	return r
}

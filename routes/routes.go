package routes

import (
	"github.com/Dosada05/auction-system/docs"
	"github.com/Dosada05/auction-system/handlers"
	"github.com/Dosada05/auction-system/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	setupHandler *handlers.SetupHandler,
	auctionHandler *handlers.AuctionHandler,
	mediaHandler *handlers.MediaHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret []byte,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/doc.json", docs.ServeOpenAPI)
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Post("/auth/login", authHandler.Login)

	// Публичные маршруты для зрительских экранов
	router.Get("/auction", auctionHandler.GetState)
	router.Get("/auction/players/remaining", auctionHandler.RemainingPlayers)
	router.Get("/ws/auction", webSocketHandler.ServeWs)

	// Защищённые маршруты только для оператора аукциона
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Post("/setup/auction", setupHandler.CommitSetup)
		r.Post("/setup/players/preview", setupHandler.PreviewPlayers)
		r.Post("/setup/reset", setupHandler.Reset)

		r.Post("/auction/bid", auctionHandler.PlaceBid)
		r.Post("/auction/skip", auctionHandler.Skip)
		r.Post("/auction/next", auctionHandler.Next)

		r.Post("/media/logos", mediaHandler.UploadLogo)
		r.Post("/media/photos", mediaHandler.UploadPhotos)
		r.Delete("/media", mediaHandler.RemoveMedia)
	})
}

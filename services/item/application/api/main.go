package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/playcatalog/pkg/app"
	"github.com/ghuser/playcatalog/pkg/logger"
	"github.com/ghuser/playcatalog/services/item/application/handlers"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
// Mount the router at "/api" so paths match handlers.ItemsBasePath.
func ItemRoutes(r chi.Router, a *app.Application) {
	Routes(r, appsvcs.New(a), a.Logger.With("component", "item_api"))
}

// Routes registers item endpoints backed by an already-wired service container.
func Routes(r chi.Router, svcs *appsvcs.Services, log logger.Logger) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs, log).Execute)
		r.Post("/", handlers.NewPostItemHandler(svcs, log).Execute)
		r.Get("/{id}", handlers.NewGetItemHandler(svcs, log).Execute)
		r.Put("/{id}", handlers.NewPutItemHandler(svcs, log).Execute)
		r.Delete("/{id}", handlers.NewDeleteItemHandler(svcs, log).Execute)
	})
}

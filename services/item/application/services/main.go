package services

import (
	"github.com/ghuser/playcatalog/pkg/app"
	"github.com/ghuser/playcatalog/pkg/cache"
	"github.com/ghuser/playcatalog/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := postgres.NewItemRepository(a.Db)

	opts := []Option{WithUpdateAsCreated(a.Config.EmitUpdateAsCreated)}
	if a.Redis != nil {
		opts = append(opts, WithCache(cache.NewItemCache(a.Redis)))
	}

	return &Services{
		Item: NewItemService(repo, a.EventBus, a.Logger.With("component", "item_service"), opts...),
	}
}

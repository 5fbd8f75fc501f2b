package handlers

import (
	"net/http"

	"github.com/ghuser/playcatalog/pkg/httpx"
	"github.com/ghuser/playcatalog/pkg/logger"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
)

// ListItemsHandler handles GET /api/items requests.
type ListItemsHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewListItemsHandler returns a ListItemsHandler backed by the given services.
func NewListItemsHandler(svc *appsvcs.Services, log logger.Logger) *ListItemsHandler {
	return &ListItemsHandler{svc: svc, log: log}
}

// Execute lists all items.
//
//	@Summary		List items
//	@Description	Returns every item in the catalog
//	@Tags			items
//	@Produce		json
//	@Success		200	{array}		ItemResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/items [get]
func (h *ListItemsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Item.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	resp := make([]ItemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

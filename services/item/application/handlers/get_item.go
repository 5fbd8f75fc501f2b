package handlers

import (
	"net/http"

	"github.com/ghuser/playcatalog/pkg/httpx"
	"github.com/ghuser/playcatalog/pkg/logger"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
)

// GetItemHandler handles GET /api/items/{id} requests.
type GetItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewGetItemHandler returns a GetItemHandler backed by the given services.
func NewGetItemHandler(svc *appsvcs.Services, log logger.Logger) *GetItemHandler {
	return &GetItemHandler{svc: svc, log: log}
}

// Execute returns a single item.
//
//	@Summary		Get item
//	@Description	Returns the item with the given ID
//	@Tags			items
//	@Produce		json
//	@Param			id	path		string	true	"Item ID"	format(uuid)
//	@Success		200	{object}	ItemResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/items/{id} [get]
func (h *GetItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	item, err := h.svc.Item.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toItemResponse(item))
}

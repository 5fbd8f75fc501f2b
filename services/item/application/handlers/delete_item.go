package handlers

import (
	"net/http"

	"github.com/ghuser/playcatalog/pkg/httpx"
	"github.com/ghuser/playcatalog/pkg/logger"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
)

// DeleteItemHandler handles DELETE /api/items/{id} requests.
type DeleteItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by the given services.
func NewDeleteItemHandler(svc *appsvcs.Services, log logger.Logger) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc, log: log}
}

// Execute removes an item.
//
//	@Summary		Delete item
//	@Description	Removes the item and publishes ItemDeleted
//	@Tags			items
//	@Param			id	path	string	true	"Item ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/items/{id} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.svc.Item.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.NoContent(w)
}

package handlers

import (
	"net/http"

	"github.com/ghuser/playcatalog/pkg/httpx"
	"github.com/ghuser/playcatalog/pkg/logger"
	pkgvalidator "github.com/ghuser/playcatalog/pkg/validator"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
)

// PutItemHandler handles PUT /api/items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services, log logger.Logger) *PutItemHandler {
	return &PutItemHandler{svc: svc, log: log}
}

// Execute replaces name, description and price of an existing item.
//
//	@Summary		Update item
//	@Description	Overwrites name, description and price; ID and creation date never change
//	@Tags			items
//	@Accept			json
//	@Param			id		path	string				true	"Item ID"	format(uuid)
//	@Param			request	body	UpdateItemRequest	true	"Item update request"
//	@Success		204
//	@Failure		400	{object}	ValidationErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := parseItemID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Item.Update(r.Context(), id, appsvcs.UpdateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	}); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.NoContent(w)
}

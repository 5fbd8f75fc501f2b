package handlers

import (
	"net/http"

	"github.com/ghuser/playcatalog/pkg/httpx"
	"github.com/ghuser/playcatalog/pkg/logger"
	pkgvalidator "github.com/ghuser/playcatalog/pkg/validator"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
)

// PostItemHandler handles POST /api/items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Creates a new item and publishes ItemCreated
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Header			201		{string}	Location	"URL of the new item"
//	@Failure		400		{object}	ValidationErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CreateItemRequest](w, r)
	if !ok {
		return
	}

	item, err := h.svc.Item.Create(r.Context(), appsvcs.CreateItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	httpx.Created(w, itemLocation(item.ID), toItemResponse(item))
}

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/pkg/errhttp"
	"github.com/ghuser/playcatalog/pkg/logger"
	"github.com/ghuser/playcatalog/pkg/telemetry"
	itemdomain "github.com/ghuser/playcatalog/services/item/domain"
	"github.com/ghuser/playcatalog/services/item/domain/models"
)

// ItemsBasePath is the mount point of the item routes; Location headers point below it.
const ItemsBasePath = "/api/items"

// ItemResponse is the public representation of an item.
type ItemResponse struct {
	ID          uuid.UUID `json:"id"           example:"123e4567-e89b-12d3-a456-426614174000"`
	Name        string    `json:"name"         example:"Sword"`
	Description string    `json:"description"  example:"Sharp"`
	Price       float64   `json:"price"        example:"100"`
	CreatedDate time.Time `json:"createdDate"  example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// CreateItemRequest is the request body for POST /api/items.
type CreateItemRequest struct {
	Name        string   `json:"name"        validate:"required,notblank,max=255" example:"Sword"`
	Description string   `json:"description"                                  example:"Sharp"`
	Price       *float64 `json:"price"       validate:"required,gte=0,lte=1000"   example:"100"`
} // @name CreateItemRequest

// UpdateItemRequest is the request body for PUT /api/items/{id}.
// Omitting description keeps the stored value.
type UpdateItemRequest struct {
	Name        string   `json:"name"        validate:"required,notblank,max=255" example:"Sword+1"`
	Description *string  `json:"description"                                  example:"Sharp"`
	Price       *float64 `json:"price"       validate:"required,gte=0,lte=1000"   example:"150"`
} // @name UpdateItemRequest

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

// ValidationErrorResponse is returned when the request body fails validation.
type ValidationErrorResponse struct {
	Error  string            `json:"error"  example:"Validation failed"`
	Fields map[string]string `json:"fields"`
} // @name ValidationErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price.Float64(),
		CreatedDate: item.CreatedAt,
	}
}

func itemLocation(id uuid.UUID) string {
	return fmt.Sprintf("%s/%s", ItemsBasePath, id)
}

// parseItemID reads the {id} path parameter. A malformed ID can never name an
// existing item, so it is reported as ErrItemNotFound.
func parseItemID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, itemdomain.ErrItemNotFound
	}
	return id, nil
}

// writeError logs server-side failures before mapping err to a response.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	if errhttp.StatusFor(err) >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		telemetry.CaptureError(r.Context(), err)
	}
	errhttp.WriteError(w, err)
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/playcatalog/pkg/logger"
	"github.com/ghuser/playcatalog/services/item/application/handlers"
	appsvcs "github.com/ghuser/playcatalog/services/item/application/services"
	itemdomain "github.com/ghuser/playcatalog/services/item/domain"
	itemevents "github.com/ghuser/playcatalog/services/item/domain/events"
	"github.com/ghuser/playcatalog/services/item/domain/models"
)

type stubRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]models.Item
	err   error
}

func (r *stubRepo) GetAll(_ context.Context) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*models.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, &it)
	}
	return out, nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, itemdomain.ErrItemNotFound
	}
	return &it, nil
}

func (r *stubRepo) Create(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.items[item.ID] = *item
	return nil
}

func (r *stubRepo) Update(_ context.Context, item *models.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *stubPublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *stubPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

func newTestRouter(t *testing.T) (http.Handler, *stubRepo, *stubPublisher) {
	t.Helper()
	repo := &stubRepo{items: make(map[uuid.UUID]models.Item)}
	pub := &stubPublisher{}
	log := logger.NewWithWriter(io.Discard, "error")
	svcs := &appsvcs.Services{Item: appsvcs.NewItemService(repo, pub, log)}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		Routes(r, svcs, log)
	})
	return r, repo, pub
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func createSword(t *testing.T, h http.Handler) handlers.ItemResponse {
	t.Helper()
	rr := do(t, h, http.MethodPost, "/api/items", `{"name":"Sword","description":"Sharp","price":100}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp handlers.ItemResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestPostItem_Created(t *testing.T) {
	h, _, pub := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/items", `{"name":"Sword","description":"Sharp","price":100}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if raw := rr.Body.String(); !strings.Contains(raw, `"createdDate":`) {
		t.Errorf("expected createdDate key in body, got %s", raw)
	}

	var resp handlers.ItemResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID == uuid.Nil || resp.Name != "Sword" || resp.Description != "Sharp" || resp.Price != 100 {
		t.Errorf("unexpected body: %+v", resp)
	}
	if resp.CreatedDate.IsZero() {
		t.Error("expected createdDate to be set")
	}
	if loc := rr.Header().Get("Location"); loc != "/api/items/"+resp.ID.String() {
		t.Errorf("Location: got %q", loc)
	}
	if got := pub.published(); len(got) != 1 || got[0] != itemevents.TopicItemCreated {
		t.Errorf("expected one item.created event, got %v", got)
	}
}

func TestPostItem_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing name", `{"price":10}`},
		{"empty name", `{"name":"","price":10}`},
		{"blank name", `{"name":"   ","price":10}`},
		{"missing price", `{"name":"Sword"}`},
		{"negative price", `{"name":"Sword","price":-1}`},
		{"price above max", `{"name":"Sword","price":1000.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, repo, pub := newTestRouter(t)

			rr := do(t, h, http.MethodPost, "/api/items", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			if len(repo.items) != 0 || len(pub.published()) != 0 {
				t.Fatal("expected no side effects")
			}
		})
	}
}

func TestPostItem_IgnoresUndeclaredFields(t *testing.T) {
	h, repo, _ := newTestRouter(t)

	rr := do(t, h, http.MethodPost, "/api/items", `{"name":"Sword","price":1,"category":"weapons"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one stored item, got %d", len(repo.items))
	}
}

func TestPostItem_StoreFailure(t *testing.T) {
	h, repo, pub := newTestRouter(t)
	repo.err = errors.New("pq: connection refused")

	rr := do(t, h, http.MethodPost, "/api/items", `{"name":"Sword","price":1}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection refused") {
		t.Errorf("internal error leaked to client: %s", rr.Body.String())
	}
	if len(pub.published()) != 0 {
		t.Fatal("expected no events")
	}
}

func TestGetItem(t *testing.T) {
	h, _, _ := newTestRouter(t)
	created := createSword(t, h)

	rr := do(t, h, http.MethodGet, "/api/items/"+created.ID.String(), "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var got handlers.ItemResponse
	_ = json.NewDecoder(rr.Body).Decode(&got)
	if got.ID != created.ID || got.Name != "Sword" {
		t.Errorf("unexpected body: %+v", got)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	h, _, _ := newTestRouter(t)

	for _, path := range []string{"/api/items/" + uuid.NewString(), "/api/items/not-a-uuid"} {
		rr := do(t, h, http.MethodGet, path, "")
		if rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestListItems(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rr := do(t, h, http.MethodGet, "/api/items", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Errorf("expected empty JSON array, got %s", body)
	}

	createSword(t, h)
	createSword(t, h)

	rr = do(t, h, http.MethodGet, "/api/items", "")
	var list []handlers.ItemResponse
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 items, got %d", len(list))
	}
}

func TestPutItem(t *testing.T) {
	h, _, pub := newTestRouter(t)
	created := createSword(t, h)

	rr := do(t, h, http.MethodPut, "/api/items/"+created.ID.String(), `{"name":"Sword+1","price":150}`)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, h, http.MethodGet, "/api/items/"+created.ID.String(), "")
	var got handlers.ItemResponse
	_ = json.NewDecoder(rr.Body).Decode(&got)
	if got.Name != "Sword+1" || got.Price != 150 || got.Description != "Sharp" {
		t.Errorf("unexpected body after update: %+v", got)
	}
	if !got.CreatedDate.Equal(created.CreatedDate) {
		t.Errorf("createdDate changed: %v vs %v", got.CreatedDate, created.CreatedDate)
	}

	topics := pub.published()
	if len(topics) != 2 || topics[1] != itemevents.TopicItemUpdated {
		t.Errorf("expected created then updated events, got %v", topics)
	}
}

func TestPutItem_Errors(t *testing.T) {
	h, _, _ := newTestRouter(t)
	created := createSword(t, h)

	if rr := do(t, h, http.MethodPut, "/api/items/"+uuid.NewString(), `{"name":"X","price":1}`); rr.Code != http.StatusNotFound {
		t.Errorf("absent item: expected 404, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodPut, "/api/items/"+created.ID.String(), `{"name":"X","price":5000}`); rr.Code != http.StatusBadRequest {
		t.Errorf("bad price: expected 400, got %d", rr.Code)
	}
}

func TestDeleteItem(t *testing.T) {
	h, _, pub := newTestRouter(t)
	created := createSword(t, h)
	path := "/api/items/" + created.ID.String()

	if rr := do(t, h, http.MethodDelete, path, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, path, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
	if rr := do(t, h, http.MethodDelete, path, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rr.Code)
	}

	topics := pub.published()
	if len(topics) != 2 || topics[1] != itemevents.TopicItemDeleted {
		t.Errorf("expected created then one deleted event, got %v", topics)
	}
}

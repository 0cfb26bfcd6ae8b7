package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-guild-backend/internal/catalog"
	"github.com/tbourn/go-guild-backend/internal/services"
)

func newCatalogHandlers(t *testing.T, idx catalog.Index) *Handlers {
	t.Helper()
	db := newHandlerDB(t)
	return New(
		services.NewRequestService(db),
		&services.ClaimService{DB: db},
		&services.FulfillmentService{DB: db},
		&services.CharacterService{DB: db},
		services.NewSessionService(db),
		idx,
	)
}

func newCatalogRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.GET("/items", h.SearchItems)
	r.GET("/items/:id", h.GetItem)
	return r
}

func testIndex(t *testing.T) catalog.Index {
	t.Helper()
	return catalog.NewIndex([]catalog.Entry{
		{ItemID: "breastplate", Label: "Breastplate", Profession: "blacksmithing", GearSlot: "chest"},
		{ItemID: "silk-hood", Label: "Silk Hood", Profession: "tailoring", GearSlot: "head"},
		{ItemID: "silk-pants", Label: "Silk Pants", Profession: "tailoring", GearSlot: "legs"},
	})
}

func TestSearchItems_QueryRequired_Ranked_KClamped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCatalogHandlers(t, testIndex(t))
	r := newCatalogRouter(h)

	// q is mandatory
	if w := perform(t, r, http.MethodGet, "/items", "u1", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("missing q -> %d", w.Code)
	}

	// Ranked results
	w := perform(t, r, http.MethodGet, "/items?q=silk+pants", "u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search -> %d body=%s", w.Code, w.Body.String())
	}
	var out SearchItemsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Total < 1 || out.Items[0].Entry.ItemID != "silk-pants" {
		t.Fatalf("ranking unexpected: %#v", out)
	}

	// k above the cap clamps rather than failing
	if w := perform(t, r, http.MethodGet, "/items?q=silk&k=9999", "u1", ""); w.Code != http.StatusOK {
		t.Fatalf("large k -> %d", w.Code)
	}

	// No token overlap -> empty result set, still 200
	w = perform(t, r, http.MethodGet, "/items?q=zzzz", "u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("no match -> %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if out.Total != 0 || out.Items == nil {
		t.Fatalf("expected empty items array, got %#v", out)
	}
}

func TestGetItem_Exact_CaseInsensitive_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCatalogHandlers(t, testIndex(t))
	r := newCatalogRouter(h)

	w := perform(t, r, http.MethodGet, "/items/Breastplate", "u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get item -> %d body=%s", w.Code, w.Body.String())
	}
	var e catalog.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("json: %v", err)
	}
	if e.ItemID != "breastplate" || e.Profession != "blacksmithing" {
		t.Fatalf("entry unexpected: %#v", e)
	}

	if w := perform(t, r, http.MethodGet, "/items/nope", "u1", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing item -> %d", w.Code)
	}
}

func TestCatalogEndpoints_NilIndex_500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCatalogHandlers(t, nil)
	r := newCatalogRouter(h)

	if w := perform(t, r, http.MethodGet, "/items?q=silk", "u1", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("nil index search -> %d", w.Code)
	}
	if w := perform(t, r, http.MethodGet, "/items/breastplate", "u1", ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("nil index get -> %d", w.Code)
	}
}

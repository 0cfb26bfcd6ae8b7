// Item catalog HTTP handlers.
//
// This file exposes read-only lookup over the guild's craftable item catalog:
//   - GET /items          (fuzzy search)
//   - GET /items/{id}     (exact item id)
//
// The catalog is loaded once at startup and immutable afterwards, so these
// endpoints never touch the database.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-guild-backend/internal/catalog"
	"github.com/tbourn/go-guild-backend/internal/utils"
)

// SearchItemsResponse wraps ranked catalog matches.
type SearchItemsResponse struct {
	Items []catalog.Match `json:"items"`
	Total int             `json:"total"`
}

// SearchItems godoc
// @ID          searchItems
// @Summary     Search the item catalog
// @Description Returns catalog entries ranked by similarity to the query.
// @Tags        Catalog
// @Produce     json
//
// @Param       q  query  string  true   "Search query"      example(silk pants)
// @Param       k  query  int     false  "Maximum results"   minimum(1) maximum(25) default(5)
//
// @Success     200  {object} handlers.SearchItemsResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     500  {object} handlers.ErrorResponse "Catalog not loaded"
// @Router      /items [get]
func (h *Handlers) SearchItems(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q query param required")
		return
	}
	if h.catalog == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "catalog not loaded")
		return
	}

	k := utils.BoundedAtoi(c.Query("k"), 5, 1, 25)

	matches := h.catalog.TopK(q, k)
	if matches == nil {
		matches = []catalog.Match{}
	}
	ok(c, http.StatusOK, SearchItemsResponse{Items: matches, Total: len(matches)})
}

// GetItem godoc
// @ID          getItem
// @Summary     Fetch a catalog item
// @Description Returns a single catalog entry by exact item id (case-insensitive).
// @Tags        Catalog
// @Produce     json
//
// @Param       id  path  string  true  "Item ID"  example(breastplate)
//
// @Success     200  {object} catalog.Entry
// @Failure     404  {object} handlers.ErrorResponse "Unknown item"
// @Failure     500  {object} handlers.ErrorResponse "Catalog not loaded"
// @Router      /items/{id} [get]
func (h *Handlers) GetItem(c *gin.Context) {
	if h.catalog == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "catalog not loaded")
		return
	}
	e, found := h.catalog.ByItemID(c.Param("id"))
	if !found {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
		return
	}
	ok(c, http.StatusOK, e)
}

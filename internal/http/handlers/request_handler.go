// Craft request HTTP handlers.
//
// This file exposes REST endpoints for craft request resources:
//   - POST   /requests                (submit)
//   - GET    /requests/{id}           (fetch, includes audit trail)
//   - GET    /requests/{id}/audit     (audit trail only)
//   - GET    /requests                (profession board, ETag support)
//   - GET    /requests/mine           (requester's submissions)
//   - GET    /requests/claimed        (crafter's active claims)
//   - PUT    /requests/{id}/status    (transition / admin override)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-guild-backend/internal/catalog"
	"github.com/tbourn/go-guild-backend/internal/domain"
	"github.com/tbourn/go-guild-backend/internal/repo"
	"github.com/tbourn/go-guild-backend/internal/services"
	"github.com/tbourn/go-guild-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// RequestService defines craft request lifecycle operations consumed by HTTP
// handlers. Implementations should be safe for concurrent use and must honor
// the provided context for cancellation and timeouts.
type RequestService interface {
	// Create validates and persists a new craft request.
	Create(ctx context.Context, in services.CreateRequestInput) (*domain.CraftRequest, error)
	// Get fetches a request with its audit trail.
	Get(ctx context.Context, id string) (*domain.CraftRequest, error)
	// ListByRequester returns a user's submissions, newest first.
	ListByRequester(ctx context.Context, requesterID string, statuses []string, limit int) ([]domain.CraftRequest, error)
	// ListByProfession returns the profession work board, oldest first.
	ListByProfession(ctx context.Context, profession string, statuses []string) ([]domain.CraftRequest, error)
	// ListClaimedBy returns a crafter's active claims.
	ListClaimedBy(ctx context.Context, crafterID string) ([]domain.CraftRequest, error)
	// Audit returns the audit trail in insertion order.
	Audit(ctx context.Context, requestID string) ([]domain.AuditEntry, error)
	// Transition moves a request along an allowed status edge.
	Transition(ctx context.Context, id, actorID, to, denyReason string) (*domain.CraftRequest, error)
	// Deny marks a request denied with a reason.
	Deny(ctx context.Context, id, actorID, reason string) (*domain.CraftRequest, error)
	// ForceStatus overwrites the status, bypassing the edge table.
	ForceStatus(ctx context.Context, id, actorID, to, denyReason string) (*domain.CraftRequest, error)
}

// ClaimService defines claim arbitration operations.
type ClaimService interface {
	// Claim atomically assigns an open request to a crafter.
	Claim(ctx context.Context, requestID, crafterID, crafterName string) (*domain.CraftRequest, error)
	// Release returns a held request to the open pool.
	Release(ctx context.Context, requestID, crafterID string) (*domain.CraftRequest, error)
}

// FulfillmentService defines work-reporting operations.
type FulfillmentService interface {
	// Start moves a claimed request to in_progress.
	Start(ctx context.Context, requestID, crafterID string) (*domain.CraftRequest, error)
	// ApplyCompletion records crafted quantity; nil amount completes in full.
	ApplyCompletion(ctx context.Context, requestID, crafterID string, amount *int) (*domain.CraftRequest, error)
}

// CharacterService defines roster operations.
type CharacterService interface {
	// Register adds a character to the user's roster.
	Register(ctx context.Context, ownerID, name, kind string) (*domain.Character, error)
	// List returns the user's roster.
	List(ctx context.Context, ownerID string) ([]domain.Character, error)
	// Delete removes a character and denies its active requests.
	Delete(ctx context.Context, ownerID, name string) (int64, error)
}

// SessionService defines composition session operations.
type SessionService interface {
	// Put stores a session payload, renewing its TTL.
	Put(ctx context.Context, key, ownerID, data string) (*domain.Session, error)
	// Get returns the payload or ErrSessionNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Delete removes the session; missing keys are a no-op.
	Delete(ctx context.Context, key string) error
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for requests, claims, fulfillment,
// characters, sessions, and the item catalog. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	reqSvc     RequestService
	claimSvc   ClaimService
	fulfillSvc FulfillmentService
	charSvc    CharacterService
	sessSvc    SessionService
	catalog    catalog.Index
}

// New constructs a Handlers instance bound to the given services. The catalog
// index may be nil; item lookup endpoints then answer 404.
func New(reqSvc RequestService, claimSvc ClaimService, fulfillSvc FulfillmentService, charSvc CharacterService, sessSvc SessionService, idx catalog.Index) *Handlers {
	return &Handlers{
		reqSvc:     reqSvc,
		claimSvc:   claimSvc,
		fulfillSvc: fulfillSvc,
		charSvc:    charSvc,
		sessSvc:    sessSvc,
		catalog:    idx,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// DTOs
//

// CreateRequestBody is the JSON payload for submitting a craft request.
type CreateRequestBody struct {
	// CharacterName is the registered character the item is for.
	CharacterName string `json:"character_name" binding:"required" example:"Mogra"`
	// Profession the request is addressed to (e.g. blacksmithing).
	Profession string `json:"profession" binding:"required" example:"blacksmithing"`
	// GearSlot the item occupies (e.g. chest).
	GearSlot string `json:"gear_slot" binding:"required" example:"chest"`
	// ItemID identifies the catalog item.
	ItemID string `json:"item_id" binding:"required" example:"breastplate"`
	// ItemLabel optionally overrides the display label.
	ItemLabel string `json:"item_label" example:"Breastplate"`
	// Quantity requested; defaults to 1.
	Quantity int `json:"quantity" example:"3"`
	// MaterialsRequired maps material name to count.
	MaterialsRequired map[string]int `json:"materials_required,omitempty"`
	// MaterialsProvided maps material name to count already supplied.
	MaterialsProvided map[string]int `json:"materials_provided,omitempty"`
	// ProvidesMats reports whether the requester supplies materials.
	ProvidesMats bool `json:"provides_mats" example:"true"`
}

// UpdateStatusBody is the JSON payload for transitioning a request.
type UpdateStatusBody struct {
	// Status is the target status value.
	Status string `json:"status" binding:"required" example:"denied"`
	// Reason accompanies denials.
	Reason string `json:"reason" example:"no mats in bank"`
	// Force bypasses the transition table (administrative override).
	Force bool `json:"force" example:"false"`
}

// ListRequestsResponse wraps a list of requests.
type ListRequestsResponse struct {
	Requests []domain.CraftRequest `json:"requests"`
	Total    int                   `json:"total"`
}

//
// Helpers
//

// statusFilter parses the repeatable/comma-separated "status" query param.
func statusFilter(c *gin.Context) []string {
	var out []string
	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

//
// Handlers
//

// CreateRequest godoc
// @ID          createRequest
// @Summary     Submit a craft request
// @Description Creates a craft request for one of the caller's characters and returns the request with its audit trail started.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateRequestBody  true  "Request payload"
//
// @Success     201  {object}  domain.CraftRequest
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or invalid field"
// @Failure     404  {object}  handlers.ErrorResponse  "Character not registered"
// @Failure     409  {object}  handlers.ErrorResponse  "Duplicate submission"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /requests [post]
func (h *Handlers) CreateRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	req, err := h.reqSvc.Create(c.Request.Context(), services.CreateRequestInput{
		RequesterID:           userID(c),
		CharacterName:         body.CharacterName,
		Profession:            body.Profession,
		GearSlot:              body.GearSlot,
		ItemID:                body.ItemID,
		ItemLabel:             body.ItemLabel,
		QuantityRequested:     body.Quantity,
		MaterialsRequired:     body.MaterialsRequired,
		MaterialsProvided:     body.MaterialsProvided,
		RequesterProvidesMats: body.ProvidesMats,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, req)
}

// GetRequest godoc
// @ID          getRequest
// @Summary     Fetch a craft request
// @Description Returns a request by ID including its audit trail in insertion order.
// @Tags        Requests
// @Produce     json
//
// @Param       id  path  string  true  "Request ID (UUID)"  format(uuid)
//
// @Success     200  {object}  domain.CraftRequest
// @Failure     404  {object}  handlers.ErrorResponse  "Request not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /requests/{id} [get]
func (h *Handlers) GetRequest(c *gin.Context) {
	req, err := h.reqSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

// GetRequestAudit godoc
// @ID          getRequestAudit
// @Summary     Fetch a request's audit trail
// @Description Returns the append-only audit trail for a request in insertion order.
// @Tags        Requests
// @Produce     json
//
// @Param       id  path  string  true  "Request ID (UUID)"  format(uuid)
//
// @Success     200  {array}   domain.AuditEntry
// @Failure     404  {object}  handlers.ErrorResponse  "Request not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /requests/{id}/audit [get]
func (h *Handlers) GetRequestAudit(c *gin.Context) {
	entries, err := h.reqSvc.Audit(c.Request.Context(), c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, entries)
}

// ListRequests godoc
// @ID          listRequests
// @Summary     List a profession's work board
// @Description Returns requests for a profession, oldest first. Supports status filters and weak ETag via If-None-Match (may return 304).
// @Tags        Requests
// @Produce     json
//
// @Param       profession     query   string  true  "Profession"                  example(blacksmithing)
// @Param       status         query   string  false "Status filter (repeatable or comma-separated)"  example(open,claimed)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListRequestsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Missing profession or unknown status"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests [get]
func (h *Handlers) ListRequests(c *gin.Context) {
	ctx := c.Request.Context()
	profession := strings.TrimSpace(c.Query("profession"))
	if profession == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "profession query param required")
		return
	}

	// ETag pre-check (best effort).
	if db := h.statsDB(); db != nil {
		count, maxTS, err := repo.ProfessionStats(ctx, db, profession)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"board:%s:%d:%d"`, profession, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.reqSvc.ListByProfession(ctx, profession, statusFilter(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListRequestsResponse{Requests: items, Total: len(items)})
}

// ListMyRequests godoc
// @ID          listMyRequests
// @Summary     List the caller's submissions
// @Description Returns the caller's craft requests, newest first. Supports status filters, a result cap, and weak ETag via If-None-Match.
// @Tags        Requests
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"  example(user123)
// @Param       status         query   string  false "Status filter (repeatable or comma-separated)"
// @Param       limit          query   int     false "Maximum results"  minimum(1) maximum(100)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
//
// @Success     200  {object} handlers.ListRequestsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Unknown status"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/mine [get]
func (h *Handlers) ListMyRequests(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	// limit 0 means "no cap" at the repo layer; anything above 100 is clamped.
	limit := utils.BoundedAtoi(c.Query("limit"), 0, 0, 100)

	// ETag pre-check (best effort).
	if db := h.statsDB(); db != nil {
		count, maxTS, err := repo.RequestsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"requests:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, err := h.reqSvc.ListByRequester(ctx, uid, statusFilter(c), limit)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListRequestsResponse{Requests: items, Total: len(items)})
}

// ListClaimedRequests godoc
// @ID          listClaimedRequests
// @Summary     List the caller's active claims
// @Description Returns requests currently claimed by the caller, oldest claim first.
// @Tags        Requests
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(crafter42)
//
// @Success     200  {object} handlers.ListRequestsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/claimed [get]
func (h *Handlers) ListClaimedRequests(c *gin.Context) {
	items, err := h.reqSvc.ListClaimedBy(c.Request.Context(), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, ListRequestsResponse{Requests: items, Total: len(items)})
}

// UpdateRequestStatus godoc
// @ID          updateRequestStatus
// @Summary     Transition a request's status
// @Description Moves a request along an allowed status edge. With force=true the edge table is bypassed (administrative override); the override is audited.
// @Tags        Requests
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(officer1)
// @Param       id         path    string  true  "Request ID (UUID)"  format(uuid)
// @Param       body       body    handlers.UpdateStatusBody  true  "Target status"
//
// @Success     200  {object} domain.CraftRequest
// @Failure     400  {object} handlers.ErrorResponse "Unknown status"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Illegal transition"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/status [put]
func (h *Handlers) UpdateRequestStatus(c *gin.Context) {
	var body UpdateStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status required")
		return
	}

	var (
		req *domain.CraftRequest
		err error
	)
	if body.Force {
		req, err = h.reqSvc.ForceStatus(c.Request.Context(), c.Param("id"), userID(c), body.Status, body.Reason)
	} else {
		req, err = h.reqSvc.Transition(c.Request.Context(), c.Param("id"), userID(c), body.Status, body.Reason)
	}
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

// statsDB exposes the underlying *gorm.DB for ETag stats when the request
// service is the concrete implementation. Best effort only; handlers work
// without it.
func (h *Handlers) statsDB() *gorm.DB {
	if svc, ok := h.reqSvc.(*services.RequestService); ok {
		return svc.DB
	}
	return nil
}

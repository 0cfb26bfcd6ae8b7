// Claim and fulfillment HTTP handlers.
//
// This file exposes the REST endpoints a crafter uses to work a request:
//   - POST /requests/{id}/claim     (claim an open request)
//   - POST /requests/{id}/release   (return it to the pool)
//   - POST /requests/{id}/start     (begin crafting)
//   - POST /requests/{id}/progress  (report partial or full completion)
//   - POST /requests/{id}/deny      (refuse with a reason)
//
// Handlers in this file are transport-thin: they validate input, delegate to
// application services, and translate lifecycle errors into HTTP results.
// Claim races surface as 409 already_claimed; the loser must pick another
// request rather than retry.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClaimBody is the JSON payload for claiming a request.
type ClaimBody struct {
	// CrafterName is the display name recorded on the claim.
	CrafterName string `json:"crafter_name" example:"Thorin"`
}

// ProgressBody is the JSON payload for reporting completion.
//
// Amount semantics:
//   - omitted/null : complete the request in full
//   - >= 1         : report that many crafted items (clamped to the total)
type ProgressBody struct {
	Amount *int `json:"amount,omitempty" binding:"omitempty,min=1" example:"2"`
}

// DenyBody is the JSON payload for denying a request.
type DenyBody struct {
	// Reason is shown to the requester.
	Reason string `json:"reason" binding:"required" example:"no mats in bank"`
}

// ClaimRequest godoc
// @ID          claimRequest
// @Summary     Claim an open request
// @Description Atomically assigns an open request to the caller. Exactly one concurrent claimer wins; losers receive 409 already_claimed.
// @Tags        Lifecycle
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Crafter ID (demo header)"  example(crafter42)
// @Param       id         path    string  true  "Request ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ClaimBody  false "Claim payload"
//
// @Success     200  {object} domain.CraftRequest
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Already claimed or not claimable"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/claim [post]
func (h *Handlers) ClaimRequest(c *gin.Context) {
	var body ClaimBody
	// The payload is optional; a bare POST claims under the caller's id.
	_ = c.ShouldBindJSON(&body)

	req, err := h.claimSvc.Claim(c.Request.Context(), c.Param("id"), userID(c), strings.TrimSpace(body.CrafterName))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

// ReleaseRequest godoc
// @ID          releaseRequest
// @Summary     Release a claimed request
// @Description Returns a request held by the caller to the open pool, clearing the claim.
// @Tags        Lifecycle
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Crafter ID (demo header)"  example(crafter42)
// @Param       id         path    string  true  "Request ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.CraftRequest
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Not claimed by the caller"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/release [post]
func (h *Handlers) ReleaseRequest(c *gin.Context) {
	req, err := h.claimSvc.Release(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

// StartRequest godoc
// @ID          startRequest
// @Summary     Start crafting
// @Description Moves a request the caller has claimed to in_progress.
// @Tags        Lifecycle
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Crafter ID (demo header)"  example(crafter42)
// @Param       id         path    string  true  "Request ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.CraftRequest
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Not claimed by the caller or not startable"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/start [post]
func (h *Handlers) StartRequest(c *gin.Context) {
	req, err := h.fulfillSvc.Start(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

// ReportProgress godoc
// @ID          reportProgress
// @Summary     Report crafted quantity
// @Description Records partial (amount >= 1) or full (amount omitted) completion on an in-progress request held by the caller. The running total clamps at the requested quantity; reaching it completes the request.
// @Tags        Lifecycle
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "Crafter ID (demo header)"  example(crafter42)
// @Param       id         path    string  true  "Request ID (UUID)"  format(uuid)
// @Param       body       body    handlers.ProgressBody  false "Progress payload"
//
// @Success     200  {object} domain.CraftRequest
// @Failure     400  {object} handlers.ErrorResponse "Invalid amount"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Not claimed by the caller or not in progress"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/progress [post]
func (h *Handlers) ReportProgress(c *gin.Context) {
	var body ProgressBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "amount must be >= 1 when present")
			return
		}
	}

	req, err := h.fulfillSvc.ApplyCompletion(c.Request.Context(), c.Param("id"), userID(c), body.Amount)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

// DenyRequest godoc
// @ID          denyRequest
// @Summary     Deny a request
// @Description Marks a request denied with a reason. Any non-terminal request may be denied.
// @Tags        Lifecycle
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(officer1)
// @Param       id         path    string  true  "Request ID (UUID)"  format(uuid)
// @Param       body       body    handlers.DenyBody  true "Denial payload"
//
// @Success     200  {object} domain.CraftRequest
// @Failure     400  {object} handlers.ErrorResponse "Missing reason"
// @Failure     404  {object} handlers.ErrorResponse "Request not found"
// @Failure     409  {object} handlers.ErrorResponse "Already terminal"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /requests/{id}/deny [post]
func (h *Handlers) DenyRequest(c *gin.Context) {
	var body DenyBody
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Reason) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reason required")
		return
	}

	req, err := h.reqSvc.Deny(c.Request.Context(), c.Param("id"), userID(c), strings.TrimSpace(body.Reason))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}

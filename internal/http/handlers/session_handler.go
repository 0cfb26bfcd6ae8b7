// Composition session HTTP handlers.
//
// This file exposes the REST endpoints backing the multi-step request
// composition flow:
//   - PUT    /session   (store/overwrite the caller's draft, renews TTL)
//   - GET    /session   (fetch the draft)
//   - DELETE /session   (abandon the draft)
//
// Sessions are keyed per user; the payload is opaque to the server. Expired
// and deleted drafts are indistinguishable: both answer 404.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// sessionKey derives the composition session key for a user. One draft per
// user; a new draft overwrites the old one.
func sessionKey(uid string) string { return "compose:" + uid }

// SessionBody is the JSON payload for storing a composition draft.
type SessionBody struct {
	// Data is the opaque draft payload (typically serialized step state).
	Data string `json:"data" binding:"required" example:"{\"step\":\"gear_slot\"}"`
}

// SessionResponse wraps a stored draft.
type SessionResponse struct {
	Data string `json:"data"`
}

// PutSession godoc
// @ID          putSession
// @Summary     Store the caller's composition draft
// @Description Stores (or overwrites) the caller's in-flight request draft and renews its TTL.
// @Tags        Sessions
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.SessionBody  true  "Draft payload"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Missing data"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /session [put]
func (h *Handlers) PutSession(c *gin.Context) {
	var body SessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "data required")
		return
	}

	uid := userID(c)
	if _, err := h.sessSvc.Put(c.Request.Context(), sessionKey(uid), uid, body.Data); err != nil {
		failService(c, err)
		return
	}
	noContent(c)
}

// GetSession godoc
// @ID          getSession
// @Summary     Fetch the caller's composition draft
// @Description Returns the caller's draft if it exists and has not expired.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.SessionResponse
// @Failure     404  {object} handlers.ErrorResponse "No live draft"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /session [get]
func (h *Handlers) GetSession(c *gin.Context) {
	data, err := h.sessSvc.Get(c.Request.Context(), sessionKey(userID(c)))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, SessionResponse{Data: data})
}

// DeleteSession godoc
// @ID          deleteSession
// @Summary     Abandon the caller's composition draft
// @Description Deletes the caller's draft. Deleting a missing or expired draft is a no-op.
// @Tags        Sessions
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     204  {string} string "No Content"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /session [delete]
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.sessSvc.Delete(c.Request.Context(), sessionKey(userID(c))); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

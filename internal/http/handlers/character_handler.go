// Character roster HTTP handlers.
//
// This file exposes REST endpoints for the caller's character roster:
//   - POST   /characters          (register)
//   - GET    /characters          (list)
//   - DELETE /characters/{name}   (delete, cascades denials)
//
// Deleting a character denies every non-terminal request that references it;
// the response reports how many requests the cascade touched.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-guild-backend/internal/domain"
)

// RegisterCharacterBody is the JSON payload for registering a character.
type RegisterCharacterBody struct {
	// Name of the character, unique within the caller's roster.
	Name string `json:"name" binding:"required,min=1,max=64" example:"Mogra"`
	// Kind is "main" or "alt"; defaults to "main".
	Kind string `json:"kind" example:"main"`
}

// ListCharactersResponse wraps the caller's roster.
type ListCharactersResponse struct {
	Characters []domain.Character `json:"characters"`
	Total      int                `json:"total"`
}

// DeleteCharacterResponse reports the result of a roster deletion.
type DeleteCharacterResponse struct {
	// DeniedRequests is how many active requests the cascade denied.
	DeniedRequests int64 `json:"denied_requests" example:"2"`
}

// RegisterCharacter godoc
// @ID          registerCharacter
// @Summary     Register a character
// @Description Adds a character to the caller's roster. Names are unique per user.
// @Tags        Characters
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.RegisterCharacterBody  true  "Character payload"
//
// @Success     201  {object} domain.Character
// @Failure     400  {object} handlers.ErrorResponse "Missing name or invalid kind"
// @Failure     409  {object} handlers.ErrorResponse "Name already registered"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /characters [post]
func (h *Handlers) RegisterCharacter(c *gin.Context) {
	var body RegisterCharacterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1-64 chars)")
		return
	}

	char, err := h.charSvc.Register(c.Request.Context(), userID(c), body.Name, body.Kind)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, char)
}

// ListCharacters godoc
// @ID          listCharacters
// @Summary     List the caller's characters
// @Description Returns the caller's roster grouped by kind, alphabetical within each group.
// @Tags        Characters
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.ListCharactersResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /characters [get]
func (h *Handlers) ListCharacters(c *gin.Context) {
	chars, err := h.charSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ListCharactersResponse{Characters: chars, Total: len(chars)})
}

// DeleteCharacter godoc
// @ID          deleteCharacter
// @Summary     Delete a character
// @Description Removes a character from the caller's roster and denies its open, claimed, and in-progress requests. Completed and denied requests are left untouched.
// @Tags        Characters
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       name       path    string  true  "Character name"  example(Mogra)
//
// @Success     200  {object} handlers.DeleteCharacterResponse
// @Failure     404  {object} handlers.ErrorResponse "Character not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /characters/{name} [delete]
func (h *Handlers) DeleteCharacter(c *gin.Context) {
	name := strings.TrimSpace(c.Param("name"))
	denied, err := h.charSvc.Delete(c.Request.Context(), userID(c), name)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, DeleteCharacterResponse{DeniedRequests: denied})
}

package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/pulsecheck/internal/common"
	"github.com/dmitrijs2005/pulsecheck/internal/logging"
	"github.com/dmitrijs2005/pulsecheck/internal/server/services"
	"github.com/gin-gonic/gin"
)

// Handlers adapts HTTP requests to the resource services.
type Handlers struct {
	users  UserManager
	tokens TokenAuthority
	checks CheckManager
	logger logging.Logger
}

func NewHandlers(users UserManager, tokens TokenAuthority, checks CheckManager, logger logging.Logger) *Handlers {
	return &Handlers{users: users, tokens: tokens, checks: checks, logger: logger}
}

var empty = struct{}{}

// bearerToken reads the token header, falling back to Authorization: Bearer.
func bearerToken(c *gin.Context) string {
	if t := strings.TrimSpace(c.GetHeader(common.TokenHeaderName)); t != "" {
		return t
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// bindJSON decodes the body; malformed JSON is a validation failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWith(c, http.StatusBadRequest, CodeValidation, "missing required fields, or request body is not valid JSON")
		return false
	}
	return true
}

func (h *Handlers) ping(c *gin.Context) {
	c.JSON(http.StatusOK, empty)
}

// users

func (h *Handlers) createUser(c *gin.Context) {
	var in services.NewUser
	if !bindJSON(c, &in) {
		return
	}
	if err := h.users.Create(c.Request.Context(), in); err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, empty)
}

func (h *Handlers) getUser(c *gin.Context) {
	user, err := h.users.Read(c.Request.Context(), c.Query("phone"), bearerToken(c))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, user)
}

type userUpdateRequest struct {
	Phone string `json:"phone"`
	services.UserPatch
}

func (h *Handlers) updateUser(c *gin.Context) {
	var req userUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.users.Update(c.Request.Context(), req.Phone, req.UserPatch, bearerToken(c)); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, empty)
}

func (h *Handlers) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Query("phone"), bearerToken(c)); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, empty)
}

// tokens

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *Handlers) createToken(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.tokens.Issue(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *Handlers) getToken(c *gin.Context) {
	token, err := h.tokens.Read(c.Request.Context(), c.Query("id"))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, token)
}

type renewRequest struct {
	ID     string `json:"id"`
	Extend bool   `json:"extend"`
}

// renewToken requires extend to be true; anything else is rejected before
// the token is looked up.
func (h *Handlers) renewToken(c *gin.Context) {
	var req renewRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.Extend {
		abortWith(c, http.StatusBadRequest, CodeValidation, "missing required field(s) or field(s) are invalid")
		return
	}
	if _, err := h.tokens.Renew(c.Request.Context(), req.ID, true); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, empty)
}

func (h *Handlers) deleteToken(c *gin.Context) {
	if err := h.tokens.Revoke(c.Request.Context(), c.Query("id")); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, empty)
}

// checks

func (h *Handlers) createCheck(c *gin.Context) {
	var in services.NewCheck
	if !bindJSON(c, &in) {
		return
	}
	check, err := h.checks.Create(c.Request.Context(), in, bearerToken(c))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *Handlers) getCheck(c *gin.Context) {
	check, err := h.checks.Read(c.Request.Context(), c.Query("id"), bearerToken(c))
	if err != nil {
		writeError(c, err, http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, check)
}

type checkUpdateRequest struct {
	ID string `json:"id"`
	services.CheckPatch
}

func (h *Handlers) updateCheck(c *gin.Context) {
	var req checkUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	check, err := h.checks.Update(c.Request.Context(), req.ID, req.CheckPatch, bearerToken(c))
	if err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, check)
}

func (h *Handlers) deleteCheck(c *gin.Context) {
	if err := h.checks.Delete(c.Request.Context(), c.Query("id"), bearerToken(c)); err != nil {
		writeError(c, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, empty)
}

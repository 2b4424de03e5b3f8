package mockapi

import (
	"net/http"
	"strconv"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/errors"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/gin-gonic/gin"
)

func (s *Server) login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	f := fieldErrors{}
	f.required("email", creds.Email)
	f.required("password", creds.Password)
	if f.reject(c) {
		return
	}

	user, ok := s.store.Authenticate(creds.Email, creds.Password)
	if !ok {
		errors.Unprocessable(c, "These credentials do not match our records.", map[string][]string{
			"email": {"These credentials do not match our records."},
		})
		return
	}

	s.respondWithToken(c, user)
}

func (s *Server) respondWithToken(c *gin.Context, user api.User) {
	token, expires, err := s.issuer.Issue(user)
	if err != nil {
		errors.InternalError(c, "failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, api.LoginResponse{Token: token, ExpiresAt: expires, User: user})
}

func (s *Server) logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (s *Server) refresh(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	s.respondWithToken(c, user)
}

func (s *Server) currentUser(c *gin.Context) (api.User, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return api.User{}, false
	}

	claims, ok := v.(*session.Claims)
	if !ok {
		return api.User{}, false
	}

	id, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return api.User{}, false
	}

	return s.store.User(id)
}

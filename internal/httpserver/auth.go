package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"puremilk/internal/service/auth"
)

type authResponse struct {
	Token string      `json:"token"`
	User  userSummary `json:"user"`
}

type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

func checkAdminHandler(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		exists, err := authSvc.AdminExists(c.Request.Context())
		if err != nil {
			detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin_exists": exists})
	}
}

func registerHandler(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in auth.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			detail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, token, err := authSvc.Register(c.Request.Context(), in)
		if err != nil {
			serviceError(c, err, "User not found")
			return
		}

		c.JSON(http.StatusOK, authResponse{
			Token: token,
			User: userSummary{
				ID:    user.ID,
				Email: user.Email,
				Role:  string(user.Role),
				Name:  user.Name,
			},
		})
	}
}

func loginHandler(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			detail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, token, err := authSvc.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			serviceError(c, err, "User not found")
			return
		}

		c.JSON(http.StatusOK, authResponse{
			Token: token,
			User: userSummary{
				ID:    user.ID,
				Email: user.Email,
				Role:  string(user.Role),
				Name:  user.Name,
			},
		})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"role":       user.Role,
			"name":       user.Name,
			"phone":      user.Phone,
			"last_login": user.LastLogin,
		})
	}
}

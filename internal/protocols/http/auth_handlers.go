package http

import (
	"github.com/gin-gonic/gin"

	"misimuslim/pkg/models"
)

// register handles user registration
func (s *Server) register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		badRequest(c, "username and password are required")
		return
	}

	user, err := s.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 201, "User registered successfully", gin.H{"user": user.Profile()})
}

// login handles user authentication
func (s *Server) login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		badRequest(c, "username and password are required")
		return
	}

	resp, err := s.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "Login successful", resp)
}

package http

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// listRewards returns the reward catalog. With a valid token the entries are
// decorated with the caller's ownership state; anonymously it is the plain
// catalog.
func (s *Server) listRewards(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if user, err := s.authSvc.ValidateToken(c.Request.Context(), parts[1]); err == nil {
				views, err := s.rewardSvc.ListForUser(c.Request.Context(), user.ID)
				if err != nil {
					respondError(c, err)
					return
				}
				respond(c, 200, "", gin.H{"rewards": views})
				return
			}
		}
	}

	respond(c, 200, "", gin.H{"rewards": s.rewardSvc.Catalog()})
}

// redeemReward purchases a catalog entry with coins
func (s *Server) redeemReward(c *gin.Context) {
	userID, _ := GetUserID(c)
	rewardID := c.Param("id")
	if rewardID == "" {
		badRequest(c, "reward id is required")
		return
	}

	result, err := s.rewardSvc.Redeem(c.Request.Context(), userID, rewardID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "Reward redeemed", result)
}

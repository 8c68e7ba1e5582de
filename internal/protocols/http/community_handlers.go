package http

import (
	"github.com/gin-gonic/gin"
)

// getDailyQuote returns today's motivational quote
func (s *Server) getDailyQuote(c *gin.Context) {
	quote, err := s.quoteSvc.Today(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "", gin.H{"quote": quote})
}

// getLeaderboard returns the top users by cumulative XP
func (s *Server) getLeaderboard(c *gin.Context) {
	entries, err := s.leaderboardSvc.Top(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "", gin.H{"leaderboard": entries})
}

package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"misimuslim/pkg/models"
)

// listPosts returns the forum feed newest-first
func (s *Server) listPosts(c *gin.Context) {
	limit, offset := parsePagination(c)

	resp, err := s.forumSvc.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "", resp)
}

// createPost publishes a new forum post
func (s *Server) createPost(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	post, err := s.forumSvc.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 201, "Post created", gin.H{"post": post})
}

// listComments returns a post's comments oldest-first
func (s *Server) listComments(c *gin.Context) {
	postID := c.Param("id")
	if postID == "" {
		badRequest(c, "post id is required")
		return
	}
	limit, offset := parsePagination(c)

	resp, err := s.forumSvc.ListComments(c.Request.Context(), postID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 200, "", resp)
}

// createComment adds a comment under a post
func (s *Server) createComment(c *gin.Context) {
	userID, _ := GetUserID(c)
	postID := c.Param("id")
	if postID == "" {
		badRequest(c, "post id is required")
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	comment, err := s.forumSvc.CreateComment(c.Request.Context(), userID, postID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, 201, "Comment created", gin.H{"comment": comment})
}

// parsePagination reads limit/offset query parameters with sane defaults
func parsePagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

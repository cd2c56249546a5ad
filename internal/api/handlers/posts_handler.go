package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ace-TI85/dev-connector/internal/api/middleware"
	"github.com/ace-TI85/dev-connector/internal/api/types"
	"github.com/ace-TI85/dev-connector/internal/api/validators"
	"github.com/ace-TI85/dev-connector/internal/services"
)

type PostsHandler struct {
	posts services.PostService
}

func NewPostsHandler(posts services.PostService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

// Create publishes a post under the caller's identity. POST /api/posts
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreatePostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.posts.Create(r.Context(), middleware.GetUserID(r.Context()), req.Text)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, post)
}

// List returns the feed, newest first. GET /api/posts
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, posts)
}

// Get returns one post. GET /api/posts/{id}
func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, post)
}

// Delete removes the caller's own post. DELETE /api/posts/{id}
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.posts.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, map[string]string{"msg": "Post removed"})
}

// Like adds the caller to the likes list; liking twice is a 400 conflict.
// PUT /api/posts/like/{id}
func (h *PostsHandler) Like(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	likes, err := h.posts.Like(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, likes)
}

// Unlike removes the caller's like; unliking first is a 400 conflict.
// PUT /api/posts/unlike/{id}
func (h *PostsHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	likes, err := h.posts.Unlike(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, likes)
}

// AddComment prepends a comment under the caller's identity.
// POST /api/posts/comment/{id}
func (h *PostsHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	var req types.AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := validators.Struct(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	comments, err := h.posts.AddComment(r.Context(), middleware.GetUserID(r.Context()), id, req.Text)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, comments)
}

// RemoveComment deletes the caller's own comment by exact id.
// DELETE /api/posts/comment/{id}/{comment_id}
func (h *PostsHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	commentID, err := uuid.Parse(chi.URLParam(r, "comment_id"))
	if err != nil {
		writeBadRequest(w, "Not a valid comment id")
		return
	}

	comments, err := h.posts.RemoveComment(r.Context(), middleware.GetUserID(r.Context()), id, commentID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeData(w, comments)
}

func postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "Not a valid post id")
		return uuid.Nil, false
	}
	return id, true
}

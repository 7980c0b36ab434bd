package handler

import (
	"log"
	"net/http"
	"strings"

	"my-social/aggregate"
	models "my-social/model"
	"my-social/storage"
)

type feedResponse struct {
	Posts    []models.FeedPost `json:"posts"`
	PageInfo models.PageInfo   `json:"page_info"`
}

func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me := viewerID(r)

	first, err := queryInt(r, "first", defaultFeedLimit, maxFeedLimit)
	if err != nil {
		fail(w, r, err)
		return
	}
	var after *string
	if cursor := r.URL.Query().Get("after"); cursor != "" {
		after = &cursor
	}

	conn, err := h.Posts.List(ctx, int32(first), after)
	if err != nil {
		fail(w, r, err)
		return
	}

	posts := make([]models.Post, 0, len(conn.Posts))
	authorIDs := make([]int64, 0, len(conn.Posts))
	seen := make(map[int64]bool)
	for _, p := range conn.Posts {
		posts = append(posts, p.Post)
		if !seen[p.UserID] {
			seen[p.UserID] = true
			authorIDs = append(authorIDs, p.UserID)
		}
	}

	authors, err := h.Users.GetByIDs(ctx, authorIDs)
	if err != nil {
		fail(w, r, err)
		return
	}

	var bookmarks []models.Bookmark
	if me != 0 {
		if bookmarks, err = h.Bookmarks.List(ctx, me); err != nil {
			fail(w, r, err)
			return
		}
	}

	feed := aggregate.JoinFeed(posts, aggregate.IndexUsers(authors))
	for i := range feed {
		info, err := h.Likes.Summary(ctx, feed[i].ID, me)
		if err != nil {
			fail(w, r, err)
			return
		}
		feed[i].LikeCount = info.Count
		feed[i].IsLiked = info.IsLiked
		feed[i].CommentCount = int(conn.Posts[i].CommentsCount)
		feed[i].IsBookmarked = aggregate.IsBookmarked(bookmarks, feed[i].ID)
	}

	writeJSON(w, http.StatusOK, feedResponse{Posts: feed, PageInfo: conn.PageInfo})
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	post, err := h.Posts.GetByID(r.Context(), postID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func validatePost(in *models.CreatePostInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	// A photo post stands on its own; a board post needs both fields.
	if in.ImageURL != "" {
		return nil
	}
	if in.Title == "" {
		return invalid("제목을 입력해주세요.")
	}
	if in.Content == "" {
		return invalid("내용을 입력해주세요.")
	}
	return nil
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var in models.CreatePostInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	if err := validatePost(&in); err != nil {
		fail(w, r, err)
		return
	}

	author, err := h.viewer(ctx, me)
	if err != nil {
		fail(w, r, err)
		return
	}

	post := &models.Post{
		UserID:         me,
		Title:          in.Title,
		Content:        in.Content,
		AuthorNickname: author.Nickname,
	}

	var images []models.PostImage
	if in.ImageURL != "" {
		url, err := storage.SaveImage(ctx, h.Bucket, me, in.ImageURL)
		if err != nil {
			fail(w, r, err)
			return
		}
		post.ImageURL = &url
		images = append(images, models.PostImage{ImageURL: url})
	}

	if err := h.Posts.Create(ctx, post); err != nil {
		fail(w, r, err)
		return
	}

	if _, err := h.LocalPosts.Create(ctx, *post, images); err != nil {
		log.Printf("failed to mirror post %d into slot store: %v", post.ID, err)
	}
	logPublish("post", h.Publisher.PublishPostCreated(post))

	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.Posts.Delete(r.Context(), postID, me); err != nil {
		fail(w, r, err)
		return
	}
	if err := h.LocalPosts.Delete(r.Context(), postID); err != nil {
		log.Printf("failed to remove post %d from slot store: %v", postID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	comments, err := h.Comments.ListByPost(r.Context(), postID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	var in models.CreateCommentInput
	if err := decodeJSON(w, r, &in); err != nil {
		fail(w, r, err)
		return
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		fail(w, r, invalid("댓글 내용을 입력해주세요."))
		return
	}

	author, err := h.viewer(ctx, me)
	if err != nil {
		fail(w, r, err)
		return
	}

	comment := &models.Comment{
		PostID:         postID,
		UserID:         me,
		Content:        content,
		AuthorNickname: author.Nickname,
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		fail(w, r, err)
		return
	}
	logPublish("comment", h.Publisher.PublishCommentAdded(comment))

	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) GetPostLikes(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	info, err := h.remoteLikeInfo(r, postID, viewerID(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// TogglePostLike flips the caller's like in the likes table.
func (h *Handler) TogglePostLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	me, ok := currentUserID(w, r)
	if !ok {
		return
	}
	postID, err := pathID(r, "postID")
	if err != nil {
		fail(w, r, err)
		return
	}

	liked, err := h.PostLikes.IsLiked(ctx, postID, me)
	if err != nil {
		fail(w, r, err)
		return
	}
	if liked {
		err = h.PostLikes.Unlike(ctx, postID, me)
	} else {
		err = h.PostLikes.Like(ctx, postID, me)
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	info, err := h.remoteLikeInfo(r, postID, me)
	if err != nil {
		fail(w, r, err)
		return
	}
	if info.IsLiked {
		logPublish("like", h.Publisher.PublishPostLiked(me, info))
	}
	writeJSON(w, http.StatusOK, info)
}

func (h *Handler) remoteLikeInfo(r *http.Request, postID, me int64) (*models.LikeInfo, error) {
	count, err := h.PostLikes.Count(r.Context(), postID)
	if err != nil {
		return nil, err
	}
	info := &models.LikeInfo{PostID: postID, Count: int(count)}
	if me != 0 {
		if info.IsLiked, err = h.PostLikes.IsLiked(r.Context(), postID, me); err != nil {
			return nil, err
		}
	}
	return info, nil
}

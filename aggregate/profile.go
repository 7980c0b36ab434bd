package aggregate

import (
	models "my-social/model"
)

// UnknownAuthor is shown for posts whose author record and stored nickname
// are both missing.
const UnknownAuthor = "알 수 없음"

// ProfileStats counts posts, followers and following for userID. Duplicate
// follow edges are counted as stored.
func ProfileStats(posts []models.Post, follows []models.Follow, userID int64) models.ProfileStats {
	return models.ProfileStats{
		PostsCount:     Count(posts, AuthoredBy(userID)),
		FollowersCount: Count(follows, Following(userID)),
		FollowingCount: Count(follows, FollowerOf(userID)),
	}
}

func IsFollowing(follows []models.Follow, followerID, followingID int64) bool {
	return Any(follows, Edge(followerID, followingID))
}

// JoinBookmarks resolves bookmarks to posts in bookmark order, dropping
// bookmarks whose post no longer exists.
func JoinBookmarks(bookmarks []models.Bookmark, posts map[int64]models.Post) []models.Post {
	out := make([]models.Post, 0, len(bookmarks))
	for _, b := range bookmarks {
		if p, ok := posts[b.PostID]; ok {
			out = append(out, p)
		}
	}
	return out
}

func IsBookmarked(bookmarks []models.Bookmark, postID int64) bool {
	return Any(bookmarks, func(b models.Bookmark) bool { return b.PostID == postID })
}

// LikeSummary derives the like count and the viewer's like state from a
// likes slot.
func LikeSummary(postID int64, likes []models.Like, me int64) models.LikeInfo {
	return models.LikeInfo{
		PostID:  postID,
		Count:   len(likes),
		IsLiked: Any(likes, func(l models.Like) bool { return l.UserID == me }),
	}
}

// JoinFeed attaches each post's author. Posts without an author record use
// the nickname stored on the post, or UnknownAuthor.
func JoinFeed(posts []models.Post, users map[int64]models.User) []models.FeedPost {
	feed := make([]models.FeedPost, 0, len(posts))
	for _, p := range posts {
		item := models.FeedPost{
			Post:   p,
			Images: []models.PostImage{},
		}

		if u, ok := users[p.UserID]; ok {
			item.User = u.Summary()
		} else {
			nickname := p.AuthorNickname
			if nickname == "" {
				nickname = UnknownAuthor
			}
			item.User = models.UserSummary{Nickname: nickname}
		}

		if p.ImageURL != nil && *p.ImageURL != "" {
			item.Images = append(item.Images, models.PostImage{ImageURL: *p.ImageURL})
		}

		feed = append(feed, item)
	}
	return feed
}

// PushRecentSearch moves user to the front of the list, dropping any older
// entry for the same id and keeping at most limit entries.
func PushRecentSearch(list []models.RecentSearch, user models.RecentSearch, limit int) []models.RecentSearch {
	out := make([]models.RecentSearch, 0, len(list)+1)
	out = append(out, user)
	for _, item := range list {
		if item.ID != user.ID {
			out = append(out, item)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

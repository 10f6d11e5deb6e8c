package dto

import "time"

// LikeState 是点赞或取消点赞后的图片状态。
type LikeState struct {
	LikeCount            int64 `json:"likeCount"`
	IsLikedByCurrentUser bool  `json:"isLikedByCurrentUser"`
}

type FollowState struct {
	Following bool `json:"following"`
}

type UserStatsResponse struct {
	UserID                string `json:"userId"`
	ImageCount            int64  `json:"imageCount"`
	FollowersCount        int64  `json:"followersCount"`
	FollowingCount        int64  `json:"followingCount"`
	TotalLikesReceived    int64  `json:"totalLikesReceived"`
	TotalCommentsReceived int64  `json:"totalCommentsReceived"`
}

// UserProfile 是资料页与搜索结果的用户视图。IsFollowing 仅在登录用户查看他人时非空。
type UserProfile struct {
	ID           string            `json:"id"`
	UserName     string            `json:"userName"`
	DisplayName  *string           `json:"displayName"`
	Bio          *string           `json:"bio"`
	AvatarURL    *string           `json:"avatarUrl"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	Stats        UserStatsResponse `json:"stats"`
	IsFollowing  *bool             `json:"isFollowing"`
	IsOwnProfile bool              `json:"isOwnProfile"`
}

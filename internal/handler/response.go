package handler

import (
	"time"

	"muru-backend/internal/model"
	"muru-backend/internal/service"
)

// UserResponse 로그인 응답에 포함되는 사용자 정보
type UserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// ProfileResponse 내 프로필
type ProfileResponse struct {
	ID              int64     `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FirstName       *string   `json:"firstName"`
	LastName        *string   `json:"lastName"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

// MeResponse 내 프로필 + 활동 수
type MeResponse struct {
	ProfileResponse
	BoardsCount   int64 `json:"boardsCount"`
	PostsCount    int64 `json:"postsCount"`
	CommentsCount int64 `json:"commentsCount"`
}

// PublicUserResponse 다른 사용자에게 보이는 필드만
type PublicUserResponse struct {
	ID              int64   `json:"id"`
	Username        string  `json:"username"`
	ProfileImageURL *string `json:"profileImageUrl"`
}

// LoginResponse 로그인 응답
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// BoardResponse 보드 응답
type BoardResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublic    bool       `json:"isPublic"`
	CoverImage  *string    `json:"coverImage"`
	UserID      int64      `json:"userId"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// PostResponse 게시물 응답
type PostResponse struct {
	ID        int64      `json:"id"`
	BoardID   int64      `json:"boardId"`
	ImageURL  string     `json:"imageUrl"`
	Note      *string    `json:"note"`
	UserID    int64      `json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CommentResponse 댓글 응답. text/createdBy는 프론트엔드 호환용 중복 필드
type CommentResponse struct {
	ID        int64      `json:"id"`
	BoardID   *int64     `json:"boardId"`
	PostID    *int64     `json:"postId"`
	Content   string     `json:"content"`
	Text      string     `json:"text"`
	UserID    int64      `json:"userId"`
	UserName  string     `json:"userName"`
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// UploadResponse 파일 업로드 응답. filePath와 path는 같은 값
type UploadResponse struct {
	FilePath         string `json:"filePath"`
	Path             string `json:"path"`
	FileName         string `json:"fileName"`
	OriginalFileName string `json:"originalFileName"`
	FileSize         int64  `json:"fileSize"`
	FileType         string `json:"fileType"`
}

// AvatarResponse POST /user/profile-image 응답
type AvatarResponse struct {
	Message      string `json:"message"`
	ProfileImage string `json:"profileImage"`
}

// AvatarURLResponse PUT /user/profile-image 응답. 프론트엔드가 profileImageUrl 키를 읽음
type AvatarURLResponse struct {
	Message         string `json:"message"`
	ProfileImageURL string `json:"profileImageUrl"`
}

func toUser(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func toProfile(u *model.User) ProfileResponse {
	return ProfileResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}

func toMe(m *service.MeResult) MeResponse {
	return MeResponse{
		ProfileResponse: toProfile(m.User),
		BoardsCount:     m.BoardsCount,
		PostsCount:      m.PostsCount,
		CommentsCount:   m.CommentsCount,
	}
}

func toPublicUser(u *model.User) PublicUserResponse {
	return PublicUserResponse{ID: u.ID, Username: u.Username, ProfileImageURL: u.ProfileImageURL}
}

func toBoard(b *model.Board) BoardResponse {
	res := BoardResponse{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		IsPublic:    b.IsPublic,
		CoverImage:  b.CoverImage,
		UserID:      b.UserID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Owner != nil {
		res.CreatedBy = b.Owner.Username
	}
	return res
}

func toBoards(boards []model.Board) []BoardResponse {
	res := make([]BoardResponse, len(boards))
	for i := range boards {
		res[i] = toBoard(&boards[i])
	}
	return res
}

func toPost(p *model.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		BoardID:   p.BoardID,
		ImageURL:  p.ImageURL,
		Note:      p.Note,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPosts(posts []model.Post) []PostResponse {
	res := make([]PostResponse, len(posts))
	for i := range posts {
		res[i] = toPost(&posts[i])
	}
	return res
}

func toComment(c *model.Comment) CommentResponse {
	res := CommentResponse{
		ID:        c.ID,
		BoardID:   c.BoardID,
		PostID:    c.PostID,
		Content:   c.Content,
		Text:      c.Content,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Author != nil {
		res.UserName = c.Author.Username
		res.CreatedBy = c.Author.Username
	}
	return res
}

func toComments(comments []model.Comment) []CommentResponse {
	res := make([]CommentResponse, len(comments))
	for i := range comments {
		res[i] = toComment(&comments[i])
	}
	return res
}

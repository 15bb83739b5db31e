package model

import (
	"time"
)

// User 사용자
type User struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash    string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName       *string   `gorm:"type:varchar(100)" json:"firstName,omitempty"`
	LastName        *string   `gorm:"type:varchar(100)" json:"lastName,omitempty"`
	ProfileImageURL *string   `gorm:"type:text" json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Roles []Role `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// RoleNames 역할 이름 목록
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// HasRole 역할 보유 여부
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role 역할
type Role struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
}

func (Role) TableName() string {
	return "roles"
}

// Board 보드 (게시물/댓글의 소유권 및 공개 범위 단위)
type Board struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"type:varchar(100);not null" json:"title"`
	Description string     `gorm:"type:varchar(500);not null;default:''" json:"description"`
	IsPublic    bool       `gorm:"not null;index" json:"isPublic"`
	CoverImage  *string    `gorm:"type:text" json:"coverImage,omitempty"`
	UserID      int64      `gorm:"not null;index" json:"userId"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`

	// Relations
	Owner    *User     `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"owner,omitempty"`
	Posts    []Post    `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Board) TableName() string {
	return "boards"
}

// Post 보드에 올린 이미지 + 메모
type Post struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	BoardID   int64      `gorm:"not null;index" json:"boardId"`
	ImageURL  string     `gorm:"type:text;not null" json:"imageUrl"`
	Note      *string    `gorm:"type:text" json:"note,omitempty"`
	UserID    int64      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Relations
	Board    *Board    `gorm:"foreignKey:BoardID" json:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment 보드(선택적으로 게시물)에 대한 댓글
type Comment struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID    *int64     `gorm:"index" json:"postId,omitempty"`
	BoardID   *int64     `gorm:"index" json:"boardId,omitempty"`
	Content   string     `gorm:"type:varchar(2000);not null" json:"content"`
	UserID    int64      `gorm:"not null;index" json:"userId"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`

	// Relations
	Author *User  `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Board  *Board `gorm:"foreignKey:BoardID" json:"-"`
	Post   *Post  `gorm:"foreignKey:PostID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// AllModels AutoMigrate 대상 모델 목록
func AllModels() []interface{} {
	return []interface{}{
		&Role{},
		&User{},
		&Board{},
		&Post{},
		&Comment{},
	}
}

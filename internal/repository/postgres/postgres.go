package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"muru-backend/internal/model"
	"muru-backend/internal/repository"
)

// New GORM 기반 저장소 묶음 생성
func New(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Users:    &userRepository{db: db},
		Boards:   &boardRepository{db: db},
		Posts:    &postRepository{db: db},
		Comments: &commentRepository{db: db},
	}
}

// translate GORM 에러를 저장소 에러로 변환
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repository.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repository.ErrDuplicate
	default:
		return err
	}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Model(&model.User{ID: user.ID}).
		Select("Email", "Username", "PasswordHash", "FirstName", "LastName", "ProfileImageURL", "UpdatedAt").
		Omit(clause.Associations).
		Updates(user)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) AssignRole(ctx context.Context, userID int64, roleName string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		role := model.Role{Name: roleName}
		if err := tx.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		return tx.Model(&user).Association("Roles").Append(&role)
	}))
}

func (r *userRepository) RemoveRole(ctx context.Context, userID int64, roleName string) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		var role model.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			return err
		}

		return tx.Model(&user).Association("Roles").Delete(&role)
	}))
}

type boardRepository struct {
	db *gorm.DB
}

func (r *boardRepository) Create(ctx context.Context, board *model.Board) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(board).Error)
}

func (r *boardRepository) FindByID(ctx context.Context, id int64) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Preload("Owner").First(&board, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &board, nil
}

func (r *boardRepository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&boards).Error
	return boards, translate(err)
}

func (r *boardRepository) ListPublic(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).Preload("Owner").
		Where("is_public = ?", true).
		Order("created_at DESC, id DESC").
		Find(&boards).Error
	return boards, translate(err)
}

func (r *boardRepository) Update(ctx context.Context, board *model.Board) error {
	res := r.db.WithContext(ctx).Model(&model.Board{ID: board.ID}).
		Select("Title", "Description", "IsPublic", "CoverImage", "UpdatedAt").
		Omit(clause.Associations).
		Updates(board)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *boardRepository) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&model.Post{}).Select("id").Where("board_id = ?", id)

		// 1. 댓글 (보드 직속 + 보드 게시물에 달린 댓글)
		if err := tx.Where("board_id = ? OR post_id IN (?)", id, postIDs).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		// 2. 게시물
		if err := tx.Where("board_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}

		// 3. 보드
		res := tx.Delete(&model.Board{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (r *boardRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Where("user_id = ?", ownerID).Count(&count).Error
	return count, translate(err)
}

type postRepository struct {
	db *gorm.DB
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error)
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Board").First(&post, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *postRepository) ListByBoard(ctx context.Context, boardID int64) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, translate(err)
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (r *postRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("user_id = ?", ownerID).Count(&count).Error
	return count, translate(err)
}

type commentRepository struct {
	db *gorm.DB
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).
		Preload("Board").
		Preload("Author").
		First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByBoard(ctx context.Context, boardID int64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("board_id = ?", boardID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	return comments, translate(err)
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *commentRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("user_id = ?", ownerID).Count(&count).Error
	return count, translate(err)
}

package inmem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"muru-backend/internal/model"
	"muru-backend/internal/repository"
)

// store 네 저장소가 공유하는 상태. 보드 삭제 cascade가 게시물/댓글까지 닿기 때문에 하나로 묶음
type store struct {
	mu sync.Mutex

	users     map[int64]model.User
	roles     map[string]model.Role
	userRoles map[int64]map[string]struct{}
	boards    map[int64]model.Board
	posts     map[int64]model.Post
	comments  map[int64]model.Comment

	maxID int64
	now   func() time.Time
}

// New 메모리 기반 저장소 묶음 생성 (테스트, 로컬 개발용)
func New() *repository.Repositories {
	s := &store{
		users:     make(map[int64]model.User),
		roles:     make(map[string]model.Role),
		userRoles: make(map[int64]map[string]struct{}),
		boards:    make(map[int64]model.Board),
		posts:     make(map[int64]model.Post),
		comments:  make(map[int64]model.Comment),
		now:       time.Now,
	}

	return &repository.Repositories{
		Users:    &userRepository{s: s},
		Boards:   &boardRepository{s: s},
		Posts:    &postRepository{s: s},
		Comments: &commentRepository{s: s},
	}
}

func (s *store) nextID() int64 {
	s.maxID++
	return s.maxID
}

// stamp 생성 시각이 비어 있으면 현재 시각으로 채움 (동률은 ID 역순으로 정렬)
func (s *store) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now()
	}
}

func (s *store) userWithRoles(id int64) (model.User, bool) {
	user, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}

	names := make([]string, 0, len(s.userRoles[id]))
	for name := range s.userRoles[id] {
		names = append(names, name)
	}
	sort.Strings(names)

	user.Roles = make([]model.Role, 0, len(names))
	for _, name := range names {
		user.Roles = append(user.Roles, s.roles[name])
	}
	return user, true
}

func (s *store) owner(id int64) *model.User {
	user, ok := s.users[id]
	if !ok {
		return nil
	}
	user.Roles = nil
	return &user
}

func (s *store) board(id int64) (model.Board, bool) {
	board, ok := s.boards[id]
	if !ok {
		return model.Board{}, false
	}
	board.Owner = s.owner(board.UserID)
	return board, true
}

func newestFirst(aTime, bTime time.Time, aID, bID int64) bool {
	if !aTime.Equal(bTime) {
		return aTime.After(bTime)
	}
	return aID > bID
}

type userRepository struct {
	s *store
}

func (r *userRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return repository.ErrDuplicate
		}
	}

	user.ID = r.s.nextID()
	r.s.stamp(&user.CreatedAt)
	user.UpdatedAt = user.CreatedAt

	stored := *user
	stored.Roles = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	user, ok := r.s.userWithRoles(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			user, _ := r.s.userWithRoles(id)
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			user, _ := r.s.userWithRoles(id)
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}

	for id, u := range r.s.users {
		if id == user.ID {
			continue
		}
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return repository.ErrDuplicate
		}
	}

	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = r.s.now()

	stored := *user
	stored.Roles = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r *userRepository) AssignRole(_ context.Context, userID int64, roleName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}

	if _, ok := r.s.roles[roleName]; !ok {
		r.s.roles[roleName] = model.Role{ID: r.s.nextID(), Name: roleName}
	}

	if r.s.userRoles[userID] == nil {
		r.s.userRoles[userID] = make(map[string]struct{})
	}
	r.s.userRoles[userID][roleName] = struct{}{}
	return nil
}

func (r *userRepository) RemoveRole(_ context.Context, userID int64, roleName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[userID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.roles[roleName]; !ok {
		return repository.ErrNotFound
	}

	delete(r.s.userRoles[userID], roleName)
	return nil
}

type boardRepository struct {
	s *store
}

func (r *boardRepository) Create(_ context.Context, board *model.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	board.ID = r.s.nextID()
	r.s.stamp(&board.CreatedAt)

	stored := *board
	stored.Owner = nil
	stored.Posts = nil
	stored.Comments = nil
	r.s.boards[board.ID] = stored
	return nil
}

func (r *boardRepository) FindByID(_ context.Context, id int64) (*model.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	board, ok := r.s.board(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &board, nil
}

func (r *boardRepository) list(keep func(model.Board) bool) []model.Board {
	boards := make([]model.Board, 0)
	for id, b := range r.s.boards {
		if keep(b) {
			board, _ := r.s.board(id)
			boards = append(boards, board)
		}
	}
	sort.Slice(boards, func(i, j int) bool {
		return newestFirst(boards[i].CreatedAt, boards[j].CreatedAt, boards[i].ID, boards[j].ID)
	})
	return boards
}

func (r *boardRepository) ListByOwner(_ context.Context, ownerID int64) ([]model.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.list(func(b model.Board) bool { return b.UserID == ownerID }), nil
}

func (r *boardRepository) ListPublic(_ context.Context) ([]model.Board, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.list(func(b model.Board) bool { return b.IsPublic }), nil
}

func (r *boardRepository) Update(_ context.Context, board *model.Board) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.boards[board.ID]
	if !ok {
		return repository.ErrNotFound
	}

	current.Title = board.Title
	current.Description = board.Description
	current.IsPublic = board.IsPublic
	current.CoverImage = board.CoverImage
	current.UpdatedAt = board.UpdatedAt
	r.s.boards[board.ID] = current
	return nil
}

func (r *boardRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.boards[id]; !ok {
		return repository.ErrNotFound
	}

	for cid, c := range r.s.comments {
		if c.BoardID != nil && *c.BoardID == id {
			delete(r.s.comments, cid)
			continue
		}
		if c.PostID != nil {
			if p, ok := r.s.posts[*c.PostID]; ok && p.BoardID == id {
				delete(r.s.comments, cid)
			}
		}
	}

	for pid, p := range r.s.posts {
		if p.BoardID == id {
			delete(r.s.posts, pid)
		}
	}

	delete(r.s.boards, id)
	return nil
}

func (r *boardRepository) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, b := range r.s.boards {
		if b.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

type postRepository struct {
	s *store
}

func (r *postRepository) Create(_ context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post.ID = r.s.nextID()
	r.s.stamp(&post.CreatedAt)

	stored := *post
	stored.Board = nil
	stored.Comments = nil
	r.s.posts[post.ID] = stored
	return nil
}

func (r *postRepository) FindByID(_ context.Context, id int64) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	post, ok := r.s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if board, ok := r.s.board(post.BoardID); ok {
		post.Board = &board
	}
	return &post, nil
}

func (r *postRepository) ListByBoard(_ context.Context, boardID int64) ([]model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	posts := make([]model.Post, 0)
	for _, p := range r.s.posts {
		if p.BoardID == boardID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return newestFirst(posts[i].CreatedAt, posts[j].CreatedAt, posts[i].ID, posts[j].ID)
	})
	return posts, nil
}

func (r *postRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return repository.ErrNotFound
	}

	for cid, c := range r.s.comments {
		if c.PostID != nil && *c.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	delete(r.s.posts, id)
	return nil
}

func (r *postRepository) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, p := range r.s.posts {
		if p.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

type commentRepository struct {
	s *store
}

func (r *commentRepository) Create(_ context.Context, comment *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment.ID = r.s.nextID()
	r.s.stamp(&comment.CreatedAt)

	stored := *comment
	stored.Author = nil
	stored.Board = nil
	stored.Post = nil
	r.s.comments[comment.ID] = stored
	return nil
}

func (r *commentRepository) FindByID(_ context.Context, id int64) (*model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comment, ok := r.s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	comment.Author = r.s.owner(comment.UserID)
	if comment.BoardID != nil {
		if board, ok := r.s.board(*comment.BoardID); ok {
			comment.Board = &board
		}
	}
	return &comment, nil
}

func (r *commentRepository) ListByBoard(_ context.Context, boardID int64) ([]model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	comments := make([]model.Comment, 0)
	for _, c := range r.s.comments {
		if c.BoardID != nil && *c.BoardID == boardID {
			c.Author = r.s.owner(c.UserID)
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return newestFirst(comments[i].CreatedAt, comments[j].CreatedAt, comments[i].ID, comments[j].ID)
	})
	return comments, nil
}

func (r *commentRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *commentRepository) CountByOwner(_ context.Context, ownerID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var count int64
	for _, c := range r.s.comments {
		if c.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

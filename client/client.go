// Package client is a typed HTTP client for the Muru API. Authenticated calls
// take an explicit *Session instead of relying on ambient token state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"muru-backend/internal/handler"
	"muru-backend/internal/service"
)

// refreshMargin 만료 직전 토큰은 만료로 취급
const refreshMargin = 30 * time.Second

// ErrSessionExpired 세션 토큰이 만료되었거나 곧 만료됨. 다시 로그인해야 함
var ErrSessionExpired = errors.New("client: session expired")

// 응답 타입
type (
	User       = handler.UserResponse
	Profile    = handler.ProfileResponse
	Me         = handler.MeResponse
	PublicUser = handler.PublicUserResponse
	Board      = handler.BoardResponse
	Post       = handler.PostResponse
	Comment    = handler.CommentResponse
	Upload     = handler.UploadResponse
)

// 요청 타입
type (
	RegisterInput = service.RegisterInput
	BoardInput    = service.BoardInput
	PostInput     = service.PostInput
	CommentInput  = service.CommentInput
	AccountInput  = service.AccountInput
	PersonalInput = service.PersonalInput
	PasswordInput = service.PasswordInput
)

// Session 로그인 결과. 인증이 필요한 호출마다 명시적으로 전달
type Session struct {
	Token     string
	User      User
	ExpiresAt time.Time
}

// Valid now 기준으로 아직 사용할 수 있는 세션인지
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return now.Add(refreshMargin).Before(s.ExpiresAt)
}

// Client Muru API 클라이언트
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

// Option Client 설정
type Option func(*Client)

// WithHTTPClient 사용할 http.Client 지정
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClock 세션 만료 판단에 쓸 시계 지정
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New baseURL은 API prefix까지 포함 (예: http://localhost:8080/api)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register 회원가입
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.do(ctx, nil, http.MethodPost, "/auth/register", in, nil)
}

// Login 로그인 후 Session 반환. 만료 시각은 토큰의 exp에서 읽음
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var res handler.LoginResponse
	in := service.LoginInput{Email: email, Password: password}
	if err := c.do(ctx, nil, http.MethodPost, "/auth/login", in, &res); err != nil {
		return nil, err
	}

	expiresAt, err := tokenExpiry(res.Token)
	if err != nil {
		return nil, err
	}
	return &Session{Token: res.Token, User: res.User, ExpiresAt: expiresAt}, nil
}

// Profile 내 프로필
func (c *Client) Profile(ctx context.Context, s *Session) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, s, http.MethodGet, "/auth/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me 내 정보 + 활동 수
func (c *Client) Me(ctx context.Context, s *Session) (*Me, error) {
	var out Me
	if err := c.do(ctx, s, http.MethodGet, "/user/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// User 다른 사용자의 공개 프로필
func (c *Client) User(ctx context.Context, id int64) (*PublicUser, error) {
	var out PublicUser
	if err := c.do(ctx, nil, http.MethodGet, fmt.Sprintf("/user/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyBoards 내 보드 목록
func (c *Client) MyBoards(ctx context.Context, s *Session) ([]Board, error) {
	var out []Board
	if err := c.do(ctx, s, http.MethodGet, "/boards", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublicBoards 공개 보드 목록
func (c *Client) PublicBoards(ctx context.Context) ([]Board, error) {
	var out []Board
	if err := c.do(ctx, nil, http.MethodGet, "/boards/public", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Board 보드 상세
func (c *Client) Board(ctx context.Context, s *Session, id int64) (*Board, error) {
	var out Board
	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/boards/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBoard 보드 생성
func (c *Client) CreateBoard(ctx context.Context, s *Session, in BoardInput) (*Board, error) {
	var out Board
	if err := c.do(ctx, s, http.MethodPost, "/boards", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBoard 보드 전체 수정
func (c *Client) UpdateBoard(ctx context.Context, s *Session, id int64, in BoardInput) error {
	return c.do(ctx, s, http.MethodPut, fmt.Sprintf("/boards/%d", id), in, nil)
}

// DeleteBoard 보드 삭제
func (c *Client) DeleteBoard(ctx context.Context, s *Session, id int64) error {
	return c.do(ctx, s, http.MethodDelete, fmt.Sprintf("/boards/%d", id), nil, nil)
}

// CreatePost 게시물 작성
func (c *Client) CreatePost(ctx context.Context, s *Session, in PostInput) (*Post, error) {
	var out Post
	if err := c.do(ctx, s, http.MethodPost, "/posts", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BoardPosts 보드의 게시물 목록
func (c *Client) BoardPosts(ctx context.Context, s *Session, boardID int64) ([]Post, error) {
	var out []Post
	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/posts/board/%d", boardID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeletePost 게시물 삭제
func (c *Client) DeletePost(ctx context.Context, s *Session, id int64) error {
	return c.do(ctx, s, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// CreateComment 댓글 작성
func (c *Client) CreateComment(ctx context.Context, s *Session, in CommentInput) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, s, http.MethodPost, "/comments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BoardComments 보드의 댓글 목록
func (c *Client) BoardComments(ctx context.Context, s *Session, boardID int64) ([]Comment, error) {
	var out []Comment
	if err := c.do(ctx, s, http.MethodGet, fmt.Sprintf("/comments/board/%d", boardID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment 댓글 삭제
func (c *Client) DeleteComment(ctx context.Context, s *Session, id int64) error {
	return c.do(ctx, s, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

// UploadFile 파일 업로드. 반환된 Path를 imagePath나 coverImage로 사용
func (c *Client) UploadFile(ctx context.Context, name string, body io.Reader) (*Upload, error) {
	var out Upload
	if err := c.multipart(ctx, nil, "/file/upload", name, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAvatarFromUpload 이미지를 업로드하고 프로필 이미지로 지정
func (c *Client) SetAvatarFromUpload(ctx context.Context, s *Session, name string, body io.Reader) (string, error) {
	var out handler.AvatarResponse
	if err := c.multipart(ctx, s, "/user/profile-image", name, body, &out); err != nil {
		return "", err
	}
	return out.ProfileImage, nil
}

// SetAvatarFromPath 이미 업로드된 경로를 프로필 이미지로 지정
func (c *Client) SetAvatarFromPath(ctx context.Context, s *Session, path string) (string, error) {
	var out handler.AvatarURLResponse
	in := handler.SetAvatarRequest{Path: path}
	if err := c.do(ctx, s, http.MethodPut, "/user/profile-image", in, &out); err != nil {
		return "", err
	}
	return out.ProfileImageURL, nil
}

// UpdateAccount 사용자명/이메일 변경
func (c *Client) UpdateAccount(ctx context.Context, s *Session, in AccountInput) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, s, http.MethodPut, "/user/update-account", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePersonal 이름 변경
func (c *Client) UpdatePersonal(ctx context.Context, s *Session, in PersonalInput) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, s, http.MethodPut, "/user/update-personal", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword 비밀번호 변경
func (c *Client) ChangePassword(ctx context.Context, s *Session, in PasswordInput) error {
	return c.do(ctx, s, http.MethodPut, "/user/change-password", in, nil)
}

func (c *Client) do(ctx context.Context, s *Session, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, s, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) multipart(ctx context.Context, s *Session, path, name string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("copy form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	req, err := c.newRequest(ctx, s, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) newRequest(ctx context.Context, s *Session, method, path string, body io.Reader) (*http.Request, error) {
	if s != nil && !s.Valid(c.now()) {
		return nil, ErrSessionExpired
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if s != nil {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, out interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return decodeError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// tokenExpiry 서명 검증 없이 exp만 읽음 (검증은 서버 책임)
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

// Package policy decides who may read or change boards, posts and comments.
//
// The rules are pure functions of the caller and the facts of the resource, so
// services load the rows first and ask the policy afterwards. Visibility of a
// board never grants write access to it: only the owner posts, edits or deletes.
package policy

import (
	"muru-backend/internal/apperr"
)

// Action 권한 검사 대상 동작
type Action int

const (
	ReadBoard Action = iota
	ListPublicBoards
	ListOwnBoards
	CreateBoard
	UpdateBoard
	DeleteBoard
	CreatePost
	ReadPosts
	DeletePost
	CreateComment
	ReadComments
	DeleteComment
)

var actionNames = map[Action]string{
	ReadBoard:        "read board",
	ListPublicBoards: "list public boards",
	ListOwnBoards:    "list own boards",
	CreateBoard:      "create board",
	UpdateBoard:      "update board",
	DeleteBoard:      "delete board",
	CreatePost:       "create post",
	ReadPosts:        "read posts",
	DeletePost:       "delete post",
	CreateComment:    "create comment",
	ReadComments:     "read comments",
	DeleteComment:    "delete comment",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown action"
}

// Subject 호출자. 익명이면 UserID는 0
type Subject struct {
	UserID        int64
	Authenticated bool
}

// User 인증된 호출자
func User(id int64) Subject {
	return Subject{UserID: id, Authenticated: true}
}

// Anonymous 익명 호출자
func Anonymous() Subject {
	return Subject{}
}

// Resource 판단에 필요한 리소스 정보
type Resource struct {
	BoardOwnerID int64
	BoardPublic  bool
	// AuthorID 댓글 작성자 (DeleteComment에서만 사용). 게시물 작성자는 판단에 쓰이지 않음
	AuthorID int64
}

type rule struct {
	needsIdentity bool
	allow         func(s Subject, r Resource) bool
}

func always(Subject, Resource) bool { return true }

func ownsBoard(s Subject, r Resource) bool {
	return s.Authenticated && s.UserID == r.BoardOwnerID
}

func canSeeBoard(s Subject, r Resource) bool {
	return r.BoardPublic || ownsBoard(s, r)
}

func authorOrBoardOwner(s Subject, r Resource) bool {
	return s.Authenticated && (s.UserID == r.AuthorID || s.UserID == r.BoardOwnerID)
}

var rules = map[Action]rule{
	ReadBoard:        {allow: canSeeBoard},
	ListPublicBoards: {allow: always},
	ListOwnBoards:    {needsIdentity: true, allow: always},
	CreateBoard:      {needsIdentity: true, allow: always},
	UpdateBoard:      {needsIdentity: true, allow: ownsBoard},
	DeleteBoard:      {needsIdentity: true, allow: ownsBoard},
	CreatePost:       {needsIdentity: true, allow: ownsBoard},
	ReadPosts:        {allow: canSeeBoard},
	DeletePost:       {needsIdentity: true, allow: ownsBoard},
	CreateComment:    {needsIdentity: true, allow: canSeeBoard},
	ReadComments:     {allow: canSeeBoard},
	DeleteComment:    {needsIdentity: true, allow: authorOrBoardOwner},
}

// Authorize nil이면 허용. 신원이 필요한 동작에 익명이면 Unauthenticated, 그 외 거부는 Forbidden
func Authorize(s Subject, action Action, r Resource) error {
	rl, ok := rules[action]
	if !ok {
		return apperr.Forbidden("unknown action")
	}
	if rl.needsIdentity && !s.Authenticated {
		return apperr.Unauthenticated("authentication required to %s", action)
	}
	if !rl.allow(s, r) {
		return apperr.Forbidden("not allowed to %s", action)
	}
	return nil
}

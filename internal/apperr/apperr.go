package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind 에러 분류
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindValidation
	KindTooLarge
	KindUnsupportedType
)

// String 분류 이름
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION"
	case KindTooLarge:
		return "FILE_TOO_LARGE"
	case KindUnsupportedType:
		return "UNSUPPORTED_FILE_TYPE"
	default:
		return "INTERNAL"
	}
}

// Status 분류별 HTTP 상태 코드
func (k Kind) Status() int {
	switch k {
	case KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	case KindTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case KindUnsupportedType:
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusInternalServerError
	}
}

// Error 애플리케이션 에러
type Error struct {
	Kind    Kind
	Message string
	// code가 비어 있으면 Kind 이름을 사용
	code  string
	cause error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Code 클라이언트에 노출되는 안정적인 에러 코드
func (e *Error) Code() string {
	if e.code != "" {
		return e.code
	}
	return e.Kind.String()
}

// Status HTTP 상태 코드
func (e *Error) Status() int {
	return e.Kind.Status()
}

// Is 같은 Kind의 sentinel과 비교 가능
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.code == "" && t.Kind == e.Kind
}

// WithCode 코드 덮어쓰기
func (e *Error) WithCode(code string) *Error {
	cp := *e
	cp.code = code
	return &cp
}

// Kind별 sentinel (errors.Is 비교용)
var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrValidation      = &Error{Kind: KindValidation}
	ErrTooLarge        = &Error{Kind: KindTooLarge}
	ErrUnsupportedType = &Error{Kind: KindUnsupportedType}
	ErrInternal        = &Error{Kind: KindInternal}
)

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return newf(KindUnauthenticated, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func TooLarge(format string, args ...interface{}) *Error {
	return newf(KindTooLarge, format, args...)
}

func UnsupportedType(format string, args ...interface{}) *Error {
	return newf(KindUnsupportedType, format, args...)
}

// Internal 내부 에러 - cause는 로그에만 남고 응답에는 노출되지 않음
func Internal(cause error, message string) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf err의 Kind 조회 (apperr가 아니면 Internal)
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

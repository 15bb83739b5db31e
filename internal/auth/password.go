package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// usernameSymbols 사용자명에 허용되는 특수문자
const usernameSymbols = "-._@+"

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword bcrypt 해시 생성
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 해시와 평문 비교
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidatePassword 비밀번호 강도 검사. 위반 항목을 모두 모아서 반환
func ValidatePassword(password string) []string {
	var problems []string
	var digit, lower, upper, symbol bool

	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, "Passwords must be at least 8 characters.")
	}
	if !digit {
		problems = append(problems, "Passwords must have at least one digit ('0'-'9').")
	}
	if !lower {
		problems = append(problems, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if !upper {
		problems = append(problems, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if !symbol {
		problems = append(problems, "Passwords must have at least one non alphanumeric character.")
	}
	return problems
}

// ValidateUsername 사용자명 문자 검사 (문자, 숫자, -._@+)
func ValidateUsername(username string) bool {
	if strings.TrimSpace(username) == "" {
		return false
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(usernameSymbols, r) {
			continue
		}
		return false
	}
	return true
}

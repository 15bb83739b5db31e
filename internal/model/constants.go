package model

// RoleName 역할 이름
type RoleName string

const (
	RoleAdmin RoleName = "Admin"
	RoleUser  RoleName = "User"
)

// String 메서드
func (r RoleName) String() string {
	return string(r)
}

// 업로드 저장 하위 디렉터리
const (
	ProfileImageDir = "ProfileImages"
)

package user

// Roles known to the platform. Regular users never log in themselves — their
// identity arrives as the userId path segment — but admins authenticate
// against /auth/login before touching /admin endpoints.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// ============================
// 🔷 GORM User Model
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"type:varchar(50);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role         string `gorm:"type:varchar(20);not null;default:'USER'" json:"-"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`
}

// ============================
// 🟡 Create User Request
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=50"`
	Email string `json:"email" binding:"required,email,max=255"`
}

// UserDto is the public projection of a user
type UserDto struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserShortDto is embedded into event DTOs
type UserShortDto struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func ToUserDto(u *User) UserDto {
	return UserDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

func ToUserShortDto(u *User) UserShortDto {
	return UserShortDto{ID: u.ID, Name: u.Name}
}

package models

// Role distinguishes shoppers from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// UserProfile is the identity attached to a session
type UserProfile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"`
}

// IsAdmin reports whether the profile may use the admin surface.
func (u UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserAccount is a stored profile with its password hash
type UserAccount struct {
	UserProfile
	PasswordHash string `json:"-"`
}

// RegisterRequest represents the request to create a shopper account
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	StudentID string `json:"student_id"`
}

// LoginRequest represents the request to sign in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token and profile after sign-in
type LoginResponse struct {
	Token   string      `json:"token"`
	User    UserProfile `json:"user"`
	Message string      `json:"message,omitempty"`
}

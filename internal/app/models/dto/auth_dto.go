package dto

// LoginRequest represents login credentials. Institution users also
// supply the DI code of the institution they manage.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"registrar@school.edu"`
	Password string `json:"password" binding:"required"`
	DICode   *int64 `json:"diCode,omitempty" example:"1426"`
}

// TokenResponse represents the token details returned on login
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn" example:"43200"`
	Role      string `json:"role" enums:"ADMIN,INSTITUTION"`
	DICode    int64  `json:"diCode,omitempty"`
}

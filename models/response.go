package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

type User struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	FullName string `json:"fullName,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

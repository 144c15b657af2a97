package users

// CreateUserPayload represents the create user request body.
type CreateUserPayload struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"required,min=8"`
	IsAdmin  bool    `json:"is_admin"`
}

// UpdateUserPayload represents the update user request body.
type UpdateUserPayload struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}

// ResetPasswordPayload represents the reset password request body.
type ResetPasswordPayload struct {
	CurrentPassword *string `json:"current_password"`
	NewPassword     string  `json:"new_password" validate:"required,min=8"`
}

// ListUsersQuery represents the list users query parameters.
type ListUsersQuery struct {
	Limit  int `query:"limit" json:"limit,omitempty" default:"25" validate:"min=1,max=100"`
	Offset int `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

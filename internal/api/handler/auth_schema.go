package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type recoverPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type personaRequest struct {
	ID     string `json:"id"   validate:"required"`
	Name   string `json:"name" validate:"required"`
	TaxID  string `json:"tax_id"`
	Sector string `json:"sector"`
}

type roleRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

type rolesRequest struct {
	Roles []roleRequest `json:"roles" validate:"required,min=1,dive"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	EntityID string `json:"entity_id,omitempty"`
}

type personaResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	TaxID  string `json:"tax_id,omitempty"`
	Sector string `json:"sector,omitempty"`
}

type roleResponse struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Token         string           `json:"token,omitempty"`
	User          *userResponse    `json:"user,omitempty"`
	Persona       *personaResponse `json:"persona,omitempty"`
	Roles         []roleResponse   `json:"roles,omitempty"`
}

type flowResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

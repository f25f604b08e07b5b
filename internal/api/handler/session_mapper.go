package handler

import "github.com/retailops/session-gateway/internal/core/domain"

func toSessionResponse(session domain.Session) sessionResponse {
	resp := sessionResponse{
		Authenticated: session.IsAuthenticated(),
		Token:         session.Token,
	}
	if session.User != nil {
		resp.User = &userResponse{
			ID:       session.User.ID,
			Email:    session.User.Email,
			Username: session.User.Username,
			EntityID: session.User.EntityID,
		}
	}
	if session.Persona != nil {
		resp.Persona = &personaResponse{
			ID:     session.Persona.ID,
			Name:   session.Persona.Name,
			TaxID:  session.Persona.TaxID,
			Sector: session.Persona.Sector,
		}
	}
	for _, r := range session.Roles {
		resp.Roles = append(resp.Roles, roleResponse{ID: r.ID, Name: r.Name})
	}
	return resp
}

func toFlowResponse(result *domain.AuthResult) flowResponse {
	if result == nil {
		return flowResponse{}
	}
	return flowResponse{
		Success: result.Success,
		Message: result.Message,
		UserID:  result.UserID,
	}
}

func toDomainPersona(req personaRequest) *domain.Persona {
	return &domain.Persona{
		ID:     req.ID,
		Name:   req.Name,
		TaxID:  req.TaxID,
		Sector: req.Sector,
	}
}

func toDomainRoles(req rolesRequest) []domain.Role {
	roles := make([]domain.Role, 0, len(req.Roles))
	for _, r := range req.Roles {
		roles = append(roles, domain.Role{ID: r.ID, Name: r.Name})
	}
	return roles
}

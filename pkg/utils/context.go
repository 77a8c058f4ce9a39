package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	OrgIDKey  contextKey = "organization_id"
	TokenKey  contextKey = "token"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

// GetOrgIDFromContext returns the caller's organization, uuid.Nil when the
// principal has none (platform admins).
func GetOrgIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	orgVal := ctx.Value(OrgIDKey)
	if orgVal == nil {
		return uuid.Nil, false
	}

	orgStr, ok := orgVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	orgID, err := uuid.Parse(orgStr)
	if err != nil {
		return uuid.Nil, false
	}

	return orgID, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string, orgID *uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	if orgID != nil {
		ctx = context.WithValue(ctx, OrgIDKey, orgID.String())
	}
	return ctx
}

func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

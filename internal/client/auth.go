package client

import (
	"context"
	"encoding/json"
)

var authRoutes = struct {
	login, register, logout, refresh, profile, updateProfile, changePassword Route
}{
	login:          post("/auth/login"),
	register:       post("/auth/register"),
	logout:         post("/auth/logout"),
	refresh:        post("/auth/refresh"),
	profile:        get("/auth/profile"),
	updateProfile:  put("/auth/profile"),
	changePassword: put("/auth/change-password"),
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login, register and refresh.
type AuthResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AuthAPI covers login, registration and the caller's own profile.
//
// It does not store the returned token; see the session package.
type AuthAPI struct {
	c *Client
}

// Login authenticates a user. out is typically *AuthResponse.
func (a *AuthAPI) Login(ctx context.Context, email, password string, out any) error {
	return a.c.call(ctx, authRoutes.login, nil, nil, LoginRequest{Email: email, Password: password}, out)
}

// Register creates a user account. data is the registration form.
func (a *AuthAPI) Register(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, authRoutes.register, nil, nil, data, out)
}

func (a *AuthAPI) Logout(ctx context.Context, out any) error {
	return a.c.call(ctx, authRoutes.logout, nil, nil, struct{}{}, out)
}

// Refresh exchanges the current token for a new one.
func (a *AuthAPI) Refresh(ctx context.Context, out any) error {
	return a.c.call(ctx, authRoutes.refresh, nil, nil, struct{}{}, out)
}

func (a *AuthAPI) Profile(ctx context.Context, out any) error {
	return a.c.call(ctx, authRoutes.profile, nil, nil, nil, out)
}

func (a *AuthAPI) UpdateProfile(ctx context.Context, data any, out any) error {
	return a.c.call(ctx, authRoutes.updateProfile, nil, nil, data, out)
}

func (a *AuthAPI) ChangePassword(ctx context.Context, req ChangePasswordRequest, out any) error {
	return a.c.call(ctx, authRoutes.changePassword, nil, nil, req, out)
}

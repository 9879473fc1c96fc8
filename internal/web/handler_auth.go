package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/domain"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	switch {
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrEmailTaken):
		s.respondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to register user", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	s.respondJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.respondError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("failed to log in user", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	s.respondJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// handleLogout is a no-op on the server: tokens are stateless and expire on
// their own. The endpoint exists so clients have a uniform sign-out call.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == nil {
		s.respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := s.auth.User(r.Context(), *userID)
	if err != nil {
		s.logger.Error("failed to load current user", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		s.respondError(w, http.StatusUnauthorized, "account no longer exists")
		return
	}

	s.respondJSON(w, http.StatusOK, user)
}

func (s *Server) handlePasswordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	// The token is returned in the response body; there is no mail delivery
	// here. The response shape is identical for unknown emails.
	token, err := s.auth.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		s.logger.Error("failed to request password reset", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to request reset")
		return
	}

	resp := map[string]string{"status": "ok"}
	if token != "" {
		resp["resetToken"] = token
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !s.decode(w, r, &req) {
		return
	}

	err := s.auth.ResetPassword(r.Context(), req.Token, req.Password)
	switch {
	case errors.Is(err, auth.ErrWeakPassword):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, auth.ErrInvalidResetToken):
		s.respondError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		s.logger.Error("failed to reset password", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to reset password")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

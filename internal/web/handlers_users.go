package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/netinventory/internal/auth"
	"github.com/JonMunkholm/netinventory/internal/core"
)

// maxJSONBody bounds login and user-creation request bodies.
const maxJSONBody = 1 << 20

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.inv.ListUsers(r.Context())
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Internal server error")
		return
	}
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in core.NewUser
	if err := decodeJSON(w, r, &in); err != nil {
		respondFailure(w, r, err, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := s.inv.CreateUser(r.Context(), in)
	if err != nil {
		if core.IsValidation(err) {
			respondError(w, r, err, http.StatusBadRequest)
			return
		}
		respondFailure(w, r, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  *core.User `json:"user"`
}

// handleLogin exchanges email and password for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil || in.Email == "" || in.Password == "" {
		if err == nil {
			err = errors.New("missing email or password")
		}
		respondFailure(w, r, err, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.inv.Authenticate(r.Context(), in.Email, in.Password)
	if errors.Is(err, core.ErrInvalidCredentials) {
		respondError(w, r, err, http.StatusUnauthorized)
		return
	}
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := s.tokens.Issue(auth.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
	})
	if err != nil {
		respondFailure(w, r, err, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	return dec.Decode(v)
}

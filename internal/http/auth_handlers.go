package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"videoadmin-backend-go/internal/models"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	// Development fixture: one shared password for every account.
	if email == "" || req.Password != s.Config.MockPassword {
		WriteError(w, http.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません")
		return
	}
	var user models.User
	found := false
	for _, rec := range s.Store.List("users", nil) {
		candidate, err := decodeRecord[models.User](rec)
		if err != nil {
			continue
		}
		if strings.ToLower(candidate.Email) == email {
			user = candidate
			found = true
			break
		}
	}
	if !found {
		WriteError(w, http.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません")
		return
	}
	idStr := formatID(user.ID)
	_, _ = s.Store.Update("users", idStr, map[string]any{
		"lastLogin": time.Now().UTC().Format(time.RFC3339),
	})
	WriteJSON(w, http.StatusOK, models.LoginResponse{
		Token:    tokenPrefix + idStr,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

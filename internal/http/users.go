package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// User routes beyond the generic CRUD: the dashboard toggles status and
// role through dedicated PATCH endpoints and can trigger a password reset.

type UserStatusRequest struct {
	Status string `json:"status"`
}

type UserRoleRequest struct {
	Role string `json:"role"`
}

func (s *Server) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req UserStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	updated, err := s.Store.Update("users", chi.URLParam(r, "userId"), map[string]any{"status": req.Status})
	if err != nil {
		writeStoreError(w, err, "ユーザーが見つかりません", "ユーザーステータスの更新に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req UserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Role == "" {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	updated, err := s.Store.Update("users", chi.URLParam(r, "userId"), map[string]any{"role": req.Role})
	if err != nil {
		writeStoreError(w, err, "ユーザーが見つかりません", "ユーザーロールの更新に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// ResetUserPassword resets the stored password back to the shared mock
// literal; in this fixture that is all a reset can mean.
func (s *Server) ResetUserPassword(w http.ResponseWriter, r *http.Request) {
	_, err := s.Store.Update("users", chi.URLParam(r, "userId"), map[string]any{"password": s.Config.MockPassword})
	if err != nil {
		writeStoreError(w, err, "ユーザーが見つかりません", "パスワードのリセットに失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

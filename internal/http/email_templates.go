package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Email templates get dedicated handlers registered ahead of the generic
// router so their error messages stay template-specific.

const templatesKey = "email-templates"

func (s *Server) ListEmailTemplates(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.Store.List(templatesKey, queryFilters(r)))
}

func (s *Server) GetEmailTemplate(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Store.Get(templatesKey, chi.URLParam(r, "templateId"))
	if err != nil {
		writeStoreError(w, err, "テンプレートが見つかりません", "メールテンプレートの取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) CreateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	created, err := s.Store.Insert(templatesKey, body)
	if err != nil {
		writeStoreError(w, err, "テンプレートが見つかりません", "メールテンプレートの作成に失敗しました")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

func (s *Server) UpdateEmailTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	updated, err := s.Store.Update(templatesKey, chi.URLParam(r, "templateId"), body)
	if err != nil {
		writeStoreError(w, err, "テンプレートが見つかりません", "メールテンプレートの更新に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteEmailTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(templatesKey, chi.URLParam(r, "templateId")); err != nil {
		writeStoreError(w, err, "テンプレートが見つかりません", "メールテンプレートの削除に失敗しました")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

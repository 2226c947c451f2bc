package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Generic flat-file CRUD, the fallback router every collection without a
// special-cased route goes through (users, videos, categories, tags, ...).
// List supports equality filtering by query parameter via a linear scan.

func (s *Server) ListResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	WriteJSON(w, http.StatusOK, s.Store.List(resource, queryFilters(r)))
}

func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	rec, err := s.Store.Get(resource, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err, "リソースが見つかりません", "リソースの取得に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) CreateResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	created, err := s.Store.Insert(resource, body)
	if err != nil {
		writeStoreError(w, err, "リソースが見つかりません", "リソースの作成に失敗しました")
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// UpdateResource serves both PUT and PATCH; either way the body is merged
// one level deep over the stored record.
func (s *Server) UpdateResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	body, err := decodeBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "リクエストが不正です")
		return
	}
	updated, err := s.Store.Update(resource, chi.URLParam(r, "id"), body)
	if err != nil {
		writeStoreError(w, err, "リソースが見つかりません", "リソースの更新に失敗しました")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")
	if err := s.Store.Delete(resource, chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err, "リソースが見つかりません", "リソースの削除に失敗しました")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

type DocumentRepo struct {
	c *Client
}

func NewDocumentRepo(c *Client) *DocumentRepo { return &DocumentRepo{c: c} }

type documentListData struct {
	Items []*model.Document `json:"items"`
}

func (r *DocumentRepo) List(ctx context.Context, q repository.DocumentQuery) ([]*model.Document, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		query.Set("sortOrder", q.SortOrder)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	var data documentListData
	if err := r.c.do(ctx, http.MethodGet, "/documents", "GET /documents", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}

func (r *DocumentRepo) Get(ctx context.Context, id string) (*model.Document, error) {
	var out model.Document
	if err := r.c.do(ctx, http.MethodGet, "/documents/"+id, "GET /documents/{id}", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DocumentRepo) Upload(ctx context.Context, name, mimeType string, body io.Reader, size int64) (*model.Document, error) {
	var out model.Document
	if err := r.c.upload(ctx, "/documents", "POST /documents", name, mimeType, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/documents/"+id, "DELETE /documents/{id}", nil, nil, nil)
}

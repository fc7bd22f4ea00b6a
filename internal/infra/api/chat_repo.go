package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

var _ repository.ChatRepository = (*ChatRepo)(nil)

type ChatRepo struct {
	c *Client
}

func NewChatRepo(c *Client) *ChatRepo { return &ChatRepo{c: c} }

type chatListData struct {
	Items []*model.ChatSession `json:"items"`
	Total int                  `json:"total"`
}

func (r *ChatRepo) List(ctx context.Context, q repository.ListQuery) (*repository.ChatPage, error) {
	query := url.Values{}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	var data chatListData
	if err := r.c.do(ctx, http.MethodGet, "/chats", "GET /chats", query, nil, &data); err != nil {
		return nil, err
	}
	total := data.Total
	if total < len(data.Items) {
		total = len(data.Items)
	}
	return &repository.ChatPage{Items: data.Items, Total: total}, nil
}

func (r *ChatRepo) Create(ctx context.Context, documentIDs []string, title string) (*model.ChatSession, error) {
	body := map[string]any{"documentIds": documentIDs, "title": title}
	var out model.ChatSession
	if err := r.c.do(ctx, http.MethodPost, "/chats", "POST /chats", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ChatRepo) Get(ctx context.Context, id string) (*model.ChatSession, error) {
	var out model.ChatSession
	if err := r.c.do(ctx, http.MethodGet, "/chats/"+id, "GET /chats/{id}", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ChatRepo) Rename(ctx context.Context, id, title string) (*model.ChatSession, error) {
	var out model.ChatSession
	body := map[string]string{"title": title}
	if err := r.c.do(ctx, http.MethodPatch, "/chats/"+id, "PATCH /chats/{id}", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ChatRepo) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/chats/"+id, "DELETE /chats/{id}", nil, nil, nil)
}

type messageListData struct {
	Items []*model.Message `json:"items"`
}

func (r *ChatRepo) Messages(ctx context.Context, chatID string) ([]*model.Message, error) {
	var data messageListData
	err := r.c.do(ctx, http.MethodGet, "/chats/"+chatID+"/messages", "GET /chats/{id}/messages", nil, nil, &data)
	if err != nil {
		return nil, err
	}
	return data.Items, nil
}

func (r *ChatRepo) SendMessage(ctx context.Context, chatID, content string) (*model.Message, error) {
	var out model.Message
	body := map[string]string{"content": content}
	err := r.c.do(ctx, http.MethodPost, "/chats/"+chatID+"/messages", "POST /chats/{id}/messages", nil, body, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

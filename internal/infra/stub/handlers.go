package stub

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"docchat/internal/domain/ports/repository"
)

func (s *Server) handleListChats(w http.ResponseWriter, r *http.Request) {
	q := repository.ListQuery{Search: r.URL.Query().Get("search")}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	q.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := s.fx.Chats.List(r.Context(), q)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total})
}

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DocumentIDs []string `json:"documentIds"`
		Title       string   `json:"title"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	chat, err := s.fx.Chats.Create(r.Context(), body.DocumentIDs, body.Title)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusCreated, chat)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := s.fx.Chats.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, chat)
}

func (s *Server) handleRenameChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	chat, err := s.fx.Chats.Rename(r.Context(), chi.URLParam(r, "id"), body.Title)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, chat)
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := s.fx.Chats.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.fx.Chats.Messages(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{"items": msgs})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed body")
		return
	}
	reply, err := s.fx.Chats.SendMessage(r.Context(), chi.URLParam(r, "id"), body.Content)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusCreated, reply)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := repository.DocumentQuery{
		Search:    r.URL.Query().Get("search"),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}
	q.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))

	docs, err := s.fx.Docs.List(r.Context(), q)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{"items": docs})
}

const maxUploadMemory = 8 << 20

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed multipart body")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	doc, err := s.fx.Docs.Upload(r.Context(), hdr.Filename, hdr.Header.Get("Content-Type"), file, hdr.Size)
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusCreated, doc)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.fx.Docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.fx.Docs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeData(w, http.StatusOK, nil)
}

package memory

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"docchat/internal/domain"
	"docchat/internal/domain/model"
	"docchat/internal/domain/ports/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

type DocumentRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Document
	now  func() time.Time
}

func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{
		byID: map[string]*model.Document{},
		now:  time.Now,
	}
}

func (r *DocumentRepo) List(ctx context.Context, q repository.DocumentQuery) ([]*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]*model.Document, 0, len(r.byID))
	for _, d := range r.byID {
		if term != "" && !strings.Contains(strings.ToLower(d.Name), term) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}

	desc := strings.EqualFold(q.SortOrder, "desc")
	sort.Slice(out, func(i, j int) bool {
		var less bool
		switch q.SortBy {
		case "size":
			less = out[i].Size < out[j].Size
		case "name":
			less = out[i].Name < out[j].Name
		default:
			less = out[i].UploadedAt.Before(out[j].UploadedAt)
		}
		if desc {
			return !less
		}
		return less
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *DocumentRepo) Get(ctx context.Context, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.byID[id]
	if d == nil {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

// Upload reads and discards the body; fixtures keep metadata only.
// The document comes back "processing" and flips to "completed" on the
// next status read, mimicking the backend indexing lifecycle.
func (r *DocumentRepo) Upload(ctx context.Context, name, mimeType string, body io.Reader, size int64) (*model.Document, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &model.Document{
		ID:         uuid.NewString(),
		Name:       name,
		MimeType:   mimeType,
		Size:       size,
		Status:     model.DocumentProcessing,
		UploadedAt: r.now(),
	}
	r.byID[d.ID] = d
	cp := *d
	// next Get/List observes the finished state
	d.Status = model.DocumentCompleted
	d.PageCount = 1 + int(size/4096)
	return &cp, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byID[id] == nil {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// Seed installs a fixture document as-is.
func (r *DocumentRepo) Seed(d *model.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.byID[d.ID] = &cp
}

package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fathima-sithara/video-service/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryVideoRepo keeps videos and owner summaries in process memory.
// Used for local runs (database.driver: memory) and tests.
type InMemoryVideoRepo struct {
	mu     sync.RWMutex
	videos map[primitive.ObjectID]*models.Video
	users  map[primitive.ObjectID]*models.OwnerSummary
}

func NewInMemoryVideoRepo() *InMemoryVideoRepo {
	return &InMemoryVideoRepo{
		videos: make(map[primitive.ObjectID]*models.Video),
		users:  make(map[primitive.ObjectID]*models.OwnerSummary),
	}
}

func (r *InMemoryVideoRepo) AddUser(u models.OwnerSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = &u
}

func matches(v *models.Video, f models.VideoFilter) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Query)) {
		return false
	}
	if f.HasOwner() && v.Owner != f.Owner {
		return false
	}
	return true
}

func (r *InMemoryVideoRepo) Count(_ context.Context, f models.VideoFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, v := range r.videos {
		if matches(v, f) {
			n++
		}
	}
	return n, nil
}

func compareBy(a, b *models.Video, field string) int {
	switch field {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "duration":
		return cmpFloat(a.Duration, b.Duration)
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return cmpFloat(float64(a.Views), float64(b.Views))
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r *InMemoryVideoRepo) Find(_ context.Context, f models.VideoFilter, o models.ListOptions) ([]*models.Video, error) {
	r.mu.RLock()
	all := make([]*models.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if matches(v, f) {
			cp := *v
			all = append(all, &cp)
		}
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		c := compareBy(all[i], all[j], o.SortBy)
		if c == 0 {
			c = strings.Compare(all[i].ID.Hex(), all[j].ID.Hex())
		}
		if o.SortDesc {
			return c > 0
		}
		return c < 0
	})

	if o.Skip >= int64(len(all)) {
		return []*models.Video{}, nil
	}
	all = all[o.Skip:]
	if o.Limit > 0 && int64(len(all)) > o.Limit {
		all = all[:o.Limit]
	}
	return all, nil
}

func (r *InMemoryVideoRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *InMemoryVideoRepo) FindByIDWithOwner(ctx context.Context, id primitive.ObjectID) (*models.VideoWithOwner, error) {
	v, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &models.VideoWithOwner{Video: *v}
	if u, ok := r.users[v.Owner]; ok {
		cp := *u
		out.Owner = &cp
	}
	return out, nil
}

func (r *InMemoryVideoRepo) Create(_ context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *InMemoryVideoRepo) Save(_ context.Context, v *models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.videos[v.ID]
	if !ok {
		return ErrNotFound
	}
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	cp.Owner = cur.Owner
	cp.CreatedAt = cur.CreatedAt
	cp.Views = cur.Views
	r.videos[v.ID] = &cp
	return nil
}

func (r *InMemoryVideoRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, id)
	return nil
}

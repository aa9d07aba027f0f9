package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
)

type fakeRepo struct {
	cats        map[uint]*Category
	eventCounts map[uint]int64
	nextID      uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{cats: make(map[uint]*Category), eventCounts: make(map[uint]int64), nextID: 1}
}

func (f *fakeRepo) Create(ctx context.Context, c *Category) error {
	for _, existing := range f.cats {
		if existing.Name == c.Name {
			return errors.New(`ERROR: duplicate key value violates unique constraint "idx_categories_name"`)
		}
	}
	c.ID = f.nextID
	f.nextID++
	clone := *c
	f.cats[c.ID] = &clone
	return nil
}

func (f *fakeRepo) Update(ctx context.Context, c *Category) error {
	clone := *c
	f.cats[c.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uint) (*Category, error) {
	c, ok := f.cats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeRepo) List(ctx context.Context, limit, offset int) ([]Category, error) {
	var out []Category
	for _, c := range f.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.cats[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.cats, id)
	return nil
}

func (f *fakeRepo) CountEvents(ctx context.Context, id uint) (int64, error) {
	return f.eventCounts[id], nil
}

type noopAudit struct{}

func (noopAudit) LogAction(ctx context.Context, userID *uint, eventID *uint, action string, details map[string]interface{}, ip string, status string) error {
	return nil
}
func (noopAudit) GetAuditLogs(ctx context.Context, filter auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}
func (noopAudit) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, noopAudit{})

	_, err := svc.CreateCategory(context.Background(), NewCategoryRequest{Name: "concerts"}, nil, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), NewCategoryRequest{Name: "concerts"}, nil, "127.0.0.1")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestDeleteCategoryWithEventsConflicts(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, noopAudit{})

	cat, err := svc.CreateCategory(context.Background(), NewCategoryRequest{Name: "concerts"}, nil, "127.0.0.1")
	require.NoError(t, err)

	repo.eventCounts[cat.ID] = 2
	err = svc.DeleteCategory(context.Background(), cat.ID, nil, "127.0.0.1")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	repo.eventCounts[cat.ID] = 0
	require.NoError(t, svc.DeleteCategory(context.Background(), cat.ID, nil, "127.0.0.1"))
}

func TestGetCategoryNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), noopAudit{})

	_, err := svc.GetCategory(context.Background(), 42)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

package auditlog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
)

type fakeRepo struct {
	entries []AuditLog
	total   int64
}

func (f *fakeRepo) Create(ctx context.Context, entry *AuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeRepo) GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLog, int64, error) {
	return f.entries, f.total, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uint) (*AuditLog, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestGetAuditLogsPagination(t *testing.T) {
	svc := NewService(&fakeRepo{total: 25})

	page, err := svc.GetAuditLogs(context.Background(), AuditLogFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestGetAuditLogsZeroLimit(t *testing.T) {
	svc := NewService(&fakeRepo{total: 25})

	page, err := svc.GetAuditLogs(context.Background(), AuditLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalPages)
}

func TestGetAuditLogByIDNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.GetAuditLogByID(context.Background(), 42)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

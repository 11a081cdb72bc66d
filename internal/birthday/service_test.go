package birthday

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykvlv/birthday-bot/internal/domain"
	"github.com/ykvlv/birthday-bot/internal/store"
)

func newService(t *testing.T) (*Service, *store.SQLiteRepo) {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "bday.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewService(repo), repo
}

func TestAddPersonal_CreatedThenAlreadyExists(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	b, err := svc.AddPersonal(ctx, 1, "Aakashuu", "15-08-2006")
	require.NoError(t, err)
	assert.Equal(t, "15-08-2006", b.Date)

	_, err = svc.AddPersonal(ctx, 1, "Aakashuu", "15-08-2006")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	require.NoError(t, svc.DeletePersonal(ctx, 1, "Aakashuu"))
	_, err = svc.AddPersonal(ctx, 1, "Aakashuu", "15-08-2006")
	assert.NoError(t, err)
}

func TestAddPersonal_ValidationLeavesStoreUntouched(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.AddPersonal(ctx, 1, "Aakashuu", "1-08-2006")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.AddPersonal(ctx, 1, "  ", "01-08-2006")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.AddPersonal(ctx, 1, strings.Repeat("x", maxNameLen+1), "01-08-2006")
	assert.ErrorIs(t, err, ErrInvalidName)

	list, err := repo.ListPersonal(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddGroupSelf_SecondAddRejectedRegardlessOfDate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddGroupSelf(ctx, 7, -100, "13-08-1995")
	require.NoError(t, err)

	_, err = svc.AddGroupSelf(ctx, 7, -100, "14-08-1995")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = svc.AddGroupSelf(ctx, 7, -100, "14/08/1995")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	err := svc.DeletePersonal(ctx, 1, "Ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = svc.DeleteGroupSelf(ctx, 7, -100)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.ErrorIs(t, svc.DeletePersonal(ctx, 1, ""), ErrInvalidName)
}

func TestValidateName(t *testing.T) {
	got, err := ValidateName(" Aakash_Gupta ")
	require.NoError(t, err)
	assert.Equal(t, "Aakash_Gupta", got)

	_, err = ValidateName("Aakash Gupta")
	assert.ErrorIs(t, err, ErrInvalidName)
}

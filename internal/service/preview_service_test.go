package service

import (
	"context"
	"errors"
	"testing"

	"showcase-backend/internal/models"
	"showcase-backend/internal/storage"
	"showcase-backend/internal/themes"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const netflix models.ThemeID = "netflix"

type failingStore struct{ err error }

func (f failingStore) Insert(context.Context, models.PartialDocument, models.ThemeID) (uuid.UUID, error) {
	return uuid.Nil, f.err
}

func (f failingStore) FetchByID(context.Context, uuid.UUID) (*models.SavedPreview, error) {
	return nil, f.err
}

func newTestService(t *testing.T, store storage.PreviewStore) *PreviewService {
	t.Helper()
	registry, err := themes.NewRegistry("", nil)
	require.NoError(t, err)
	return NewPreviewService(store, registry, nil)
}

func TestPreviewService_SaveAndLoad(t *testing.T) {
	store := storage.NewMemoryPreviewStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.Defaults(netflix)
	require.NoError(t, err)
	doc.Hero.Title = "Our Story"
	doc.Shows[0].Visible = new(bool)

	id, err := svc.Save(ctx, doc, netflix)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	loaded, err := svc.Load(ctx, id, netflix)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}

func TestPreviewService_LoadUnknownID(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryPreviewStore())

	_, err := svc.Load(context.Background(), uuid.New(), netflix)
	assert.ErrorIs(t, err, ErrPreviewNotFound)
}

func TestPreviewService_LoadUnderOtherTheme(t *testing.T) {
	store := storage.NewMemoryPreviewStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	id, err := store.Insert(ctx, models.PartialDocument{}, "disney")
	require.NoError(t, err)

	_, err = svc.Load(ctx, id, netflix)
	assert.ErrorIs(t, err, ErrPreviewNotFound)
}

func TestPreviewService_UnknownTheme(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryPreviewStore())

	_, err := svc.Save(context.Background(), models.Document{}, "hulu")
	assert.ErrorIs(t, err, themes.ErrUnknownTheme)

	_, err = svc.Load(context.Background(), uuid.New(), "hulu")
	assert.ErrorIs(t, err, themes.ErrUnknownTheme)
}

func TestPreviewService_PublishChecksThemeFirst(t *testing.T) {
	store := storage.NewMemoryPreviewStore()
	svc := newTestService(t, store)

	_, err := svc.Publish(context.Background(), models.Document{}, "hulu")
	assert.ErrorIs(t, err, themes.ErrUnknownTheme)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.Zero(t, store.Len())
}

func TestPreviewService_PublishRejectsInvalid(t *testing.T) {
	store := storage.NewMemoryPreviewStore()
	svc := newTestService(t, store)

	doc, err := svc.Defaults(netflix)
	require.NoError(t, err)
	doc.Hero.Title = "  "

	_, err = svc.Publish(context.Background(), doc, netflix)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Messages, "Hero title is required")
	assert.Zero(t, store.Len())
}

func TestPreviewService_PublishRejectsUnchanged(t *testing.T) {
	store := storage.NewMemoryPreviewStore()
	svc := newTestService(t, store)

	doc, err := svc.Defaults(netflix)
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), doc, netflix)
	assert.ErrorIs(t, err, ErrNoChanges)
	assert.Zero(t, store.Len())
}

func TestPreviewService_PublishSavesEachTime(t *testing.T) {
	store := storage.NewMemoryPreviewStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.Defaults(netflix)
	require.NoError(t, err)
	doc.Navbar.Logo = "MYFLIX"

	first, err := svc.Publish(ctx, doc, netflix)
	require.NoError(t, err)
	second, err := svc.Publish(ctx, doc, netflix)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, store.Len())
}

func TestPreviewService_StoreFailures(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestService(t, failingStore{err: boom})
	ctx := context.Background()

	doc, err := svc.Defaults(netflix)
	require.NoError(t, err)
	doc.Navbar.Logo = "MYFLIX"

	_, err = svc.Publish(ctx, doc, netflix)
	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save", perr.Op)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Load(ctx, uuid.New(), netflix)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)
}

func TestShareURL(t *testing.T) {
	id := uuid.MustParse("6f1c1f7e-3b8a-4c3e-9d53-0a4f1f6f1b11")
	assert.Equal(t,
		"https://showcase.example/netflix/preview/6f1c1f7e-3b8a-4c3e-9d53-0a4f1f6f1b11",
		ShareURL("https://showcase.example/", netflix, id))
}

package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/framepix/frame_shop/internal/models"
	"github.com/framepix/frame_shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Product{},
		&models.ProductSize{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderLineItem{},
	))

	return &repo.GormRepo{DB: db}
}

// fakeUploader hands out deterministic URLs and records what it was asked
// to upload.
type fakeUploader struct {
	uploads   []string
	reuploads []string
	fail      error
}

func (f *fakeUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.uploads = append(f.uploads, filename)
	return "https://media.test/" + filename, nil
}

func (f *fakeUploader) UploadFromURL(_ context.Context, srcURL string) (string, error) {
	if f.fail != nil {
		return "", f.fail
	}
	f.reuploads = append(f.reuploads, srcURL)
	return fmt.Sprintf("https://media.test/copy/%d", len(f.reuploads)), nil
}

type fakePublisher struct {
	events []map[string]interface{}
}

func (f *fakePublisher) PublishEvent(_ context.Context, _, _ string, event interface{}) error {
	if m, ok := event.(map[string]interface{}); ok {
		f.events = append(f.events, m)
	}
	return nil
}

func seedUser(t *testing.T, r *repo.GormRepo, name, email, role string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, r.DB.Create(u).Error)
	return u
}

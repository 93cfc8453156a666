package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"stayserve/models"
	"stayserve/services/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// memCache is an in-memory Cache for tests
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetJSON(_ context.Context, key string, target interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

// fakeUploader records uploads and destroys; destroys can be told to fail on
// one specific URL
type fakeUploader struct {
	uploaded   []string
	destroyed  []string
	destroyErr map[string]error
	counter    int
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{destroyErr: make(map[string]error)}
}

func (u *fakeUploader) Upload(_ context.Context, _ io.Reader, folder string) (string, error) {
	u.counter++
	url := fmt.Sprintf("https://cdn.test/upload/v1/%s/photo-%d.jpg", folder, u.counter)
	u.uploaded = append(u.uploaded, url)
	return url, nil
}

func (u *fakeUploader) Destroy(_ context.Context, url string) error {
	if err, ok := u.destroyErr[url]; ok {
		return err
	}
	u.destroyed = append(u.destroyed, url)
	return nil
}

var errDestroy = errors.New("remote destroy failed")

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Provider{},
		&models.Service{},
		&models.Room{},
		&models.Booking{},
		&models.OfflinePeriod{},
	))
	return db
}

func testLogger() logger.Logger {
	return logger.NewDefaultLogger(logger.ErrorLevel)
}

func encodeJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"spectra-server/internal/events"
	"spectra-server/internal/model"
	imagerepo "spectra-server/internal/modules/image/repo"
	socialrepo "spectra-server/internal/modules/social/repo"
	"spectra-server/internal/storage"
	"spectra-server/internal/testutils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) last() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return events.Event{}
	}
	return p.events[len(p.events)-1]
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// failingBlobStore 的 Delete 总是失败，用于验证尽力删除。
type failingBlobStore struct {
	storage.BlobStore
}

func (failingBlobStore) Delete(context.Context, string) error {
	return errors.New("object store unavailable")
}

// failingImageStore 的 Create 总是失败，用于验证记录写入失败后的收尾。
type failingImageStore struct {
	imagerepo.ImageStore
}

func (failingImageStore) Create(context.Context, *model.Image) error {
	return errors.New("database is locked: secret-dsn")
}

type testEnv struct {
	db        *gorm.DB
	service   *Service
	blobs     *storage.LocalStore
	publisher *recordingPublisher
}

func setupTestService(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutils.SetupDB(t)
	blobs, err := storage.NewLocalStore(t.TempDir(), "http://localhost:8080/uploads/images")
	if err != nil {
		t.Fatalf("创建本地存储失败: %v", err)
	}
	publisher := &recordingPublisher{}
	svc := New(
		imagerepo.NewImageRepository(gdb),
		socialrepo.NewSocialRepository(gdb),
		blobs,
		publisher,
		zap.NewNop(),
	)
	return &testEnv{db: gdb, service: svc, blobs: blobs, publisher: publisher}
}

// blobCount 返回存储目录中的文件数。
func (e *testEnv) blobCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(e.blobs.Root())
	if err != nil {
		t.Fatalf("读取存储目录失败: %v", err)
	}
	return len(entries)
}

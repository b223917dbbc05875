package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

var errProviderDown = errors.New("provider down")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// flakyProvider wraps a MemoryProvider and injects failures per operation.
type flakyProvider struct {
	*MemoryProvider

	mu            sync.Mutex
	failRegister  bool
	failAdd       bool
	failUpload    bool
	failList      bool
	failRetrieve  map[string]bool
	registerCalls int
	uploads       [][]byte
}

func newFlakyProvider(identity string) *flakyProvider {
	return &flakyProvider{MemoryProvider: NewMemoryProvider(identity), failRetrieve: map[string]bool{}}
}

func (f *flakyProvider) RegisterGroup(ctx context.Context, groupID string) error {
	f.mu.Lock()
	f.registerCalls++
	fail := f.failRegister
	f.mu.Unlock()
	if fail {
		return errProviderDown
	}
	return f.MemoryProvider.RegisterGroup(ctx, groupID)
}

func (f *flakyProvider) AddGroupMember(ctx context.Context, groupID, memberID string) error {
	if f.failAdd {
		return errProviderDown
	}
	return f.MemoryProvider.AddGroupMember(ctx, groupID, memberID)
}

func (f *flakyProvider) ListContentHandles(ctx context.Context, groupID string) ([]ContentHandle, error) {
	if f.failList {
		return nil, errProviderDown
	}
	return f.MemoryProvider.ListContentHandles(ctx, groupID)
}

func (f *flakyProvider) Retrieve(ctx context.Context, groupID, handle string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failRetrieve[handle]
	f.mu.Unlock()
	if fail {
		return nil, errProviderDown
	}
	return f.MemoryProvider.Retrieve(ctx, groupID, handle)
}

func (f *flakyProvider) Upload(ctx context.Context, groupID string, data []byte, filename string) (UploadResult, error) {
	f.mu.Lock()
	fail := f.failUpload
	if !fail {
		f.uploads = append(f.uploads, append([]byte(nil), data...))
	}
	f.mu.Unlock()
	if fail {
		return UploadResult{}, errProviderDown
	}
	return f.MemoryProvider.Upload(ctx, groupID, data, filename)
}

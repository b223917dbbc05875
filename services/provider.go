package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

var (
	ErrGroupNotFound   = errors.New("group not found")
	ErrGroupExists     = errors.New("group already registered")
	ErrContentNotFound = errors.New("content not found")
)

// ContentHandle addresses one uploaded blob inside a group.
type ContentHandle struct {
	Handle    string `json:"ipfs_hash"`
	ContentID string `json:"file_hash"`
}

// UploadResult is what the provider hands back for a committed upload.
type UploadResult struct {
	ContentID     string `json:"cid"`
	TransactionID string `json:"trans_id"`
}

// CapabilityProvider is the storage and access-control backend. Every
// workflow in this package talks to it through this interface only.
type CapabilityProvider interface {
	RegisterGroup(ctx context.Context, groupID string) error
	AddGroupMember(ctx context.Context, groupID, memberID string) error
	RevokeGroupMember(ctx context.Context, groupID, memberID string) error
	IsAuthorized(ctx context.Context, groupID, memberID string) (bool, error)
	ListContentHandles(ctx context.Context, groupID string) ([]ContentHandle, error)
	Retrieve(ctx context.Context, groupID, handle string) ([]byte, error)
	Upload(ctx context.Context, groupID string, data []byte, filename string) (UploadResult, error)
}

// ProviderConfig selects and configures a CapabilityProvider implementation.
type ProviderConfig struct {
	Kind            string // memory, dynamo, remote
	OperatorAccount string
	APIKey          string
	BaseURL         string
	Region          string
	Bucket          string
	Logger          *slog.Logger
}

// NewProvider builds the provider named by cfg.Kind.
func NewProvider(ctx context.Context, cfg ProviderConfig) (CapabilityProvider, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "memory", "mock":
		return NewMemoryProvider(cfg.OperatorAccount), nil
	case "dynamo", "aws":
		provider, err := NewDynamoProvider(ctx, cfg.Region, cfg.Bucket, cfg.OperatorAccount, cfg.Logger)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "remote", "nova":
		return NewRemoteProvider(cfg.BaseURL, cfg.APIKey, cfg.OperatorAccount, cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Kind)
	}
}

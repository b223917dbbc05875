package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"resty.dev/v3"
)

const (
	remoteGroups       = "/api/groups"
	remoteMembers      = "/api/groups/{groupId}/members"
	remoteMember       = "/api/groups/{groupId}/members/{memberId}"
	remoteTransactions = "/api/groups/{groupId}/transactions"
	remoteContent      = "/api/groups/{groupId}/content/{handle}"
	remoteUpload       = "/api/groups/{groupId}/upload"
)

// RemoteProvider talks to a hosted provider over HTTP as the operator account.
type RemoteProvider struct {
	client   *resty.Client
	operator string
	logger   *slog.Logger
}

func NewRemoteProvider(baseURL, apiKey, operator string, logger *slog.Logger) *RemoteProvider {
	if logger == nil {
		logger = slog.Default()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Account-Id", operator)
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &RemoteProvider{
		client:   client,
		operator: operator,
		logger:   logger.With("component", "services.RemoteProvider"),
	}
}

func (p *RemoteProvider) Close() error {
	return p.client.Close()
}

func (p *RemoteProvider) r(ctx context.Context, groupID string) *resty.Request {
	return p.client.R().WithContext(ctx).SetPathParam("groupId", groupID)
}

// statusError maps a non-2xx response onto the provider's sentinel errors.
func statusError(res *resty.Response, notFound error, op, groupID string) error {
	if !res.IsError() {
		return nil
	}
	switch res.StatusCode() {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", notFound, groupID)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrGroupExists, groupID)
	default:
		return fmt.Errorf("%s %s: provider returned %d: %s", op, groupID, res.StatusCode(), res.String())
	}
}

func (p *RemoteProvider) RegisterGroup(ctx context.Context, groupID string) error {
	res, err := p.r(ctx, groupID).
		SetBody(map[string]string{"groupId": groupID}).
		Post(remoteGroups)
	if err != nil {
		return fmt.Errorf("register %s: %w", groupID, err)
	}
	return statusError(res, ErrGroupNotFound, "register", groupID)
}

func (p *RemoteProvider) AddGroupMember(ctx context.Context, groupID, memberID string) error {
	res, err := p.r(ctx, groupID).
		SetBody(map[string]string{"memberId": memberID}).
		Post(remoteMembers)
	if err != nil {
		return fmt.Errorf("add member to %s: %w", groupID, err)
	}
	return statusError(res, ErrGroupNotFound, "add member", groupID)
}

func (p *RemoteProvider) RevokeGroupMember(ctx context.Context, groupID, memberID string) error {
	res, err := p.r(ctx, groupID).
		SetPathParam("memberId", memberID).
		Delete(remoteMember)
	if err != nil {
		return fmt.Errorf("revoke member from %s: %w", groupID, err)
	}
	return statusError(res, ErrGroupNotFound, "revoke member", groupID)
}

func (p *RemoteProvider) IsAuthorized(ctx context.Context, groupID, memberID string) (bool, error) {
	type authorization struct {
		Authorized bool `json:"authorized"`
	}

	res, err := p.r(ctx, groupID).
		SetPathParam("memberId", memberID).
		SetResult(&authorization{}).
		Get(remoteMember)
	if err != nil {
		return false, fmt.Errorf("check member of %s: %w", groupID, err)
	}
	if err := statusError(res, ErrGroupNotFound, "check member", groupID); err != nil {
		return false, err
	}
	return res.Result().(*authorization).Authorized, nil
}

func (p *RemoteProvider) ListContentHandles(ctx context.Context, groupID string) ([]ContentHandle, error) {
	var handles []ContentHandle
	res, err := p.r(ctx, groupID).
		SetResult(&handles).
		Get(remoteTransactions)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", groupID, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err := statusError(res, ErrGroupNotFound, "list", groupID); err != nil {
		return nil, err
	}
	return handles, nil
}

func (p *RemoteProvider) Retrieve(ctx context.Context, groupID, handle string) ([]byte, error) {
	res, err := p.r(ctx, groupID).
		SetPathParam("handle", handle).
		Get(remoteContent)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s from %s: %w", handle, groupID, err)
	}
	if err := statusError(res, ErrContentNotFound, "retrieve", groupID); err != nil {
		return nil, err
	}
	return []byte(res.String()), nil
}

func (p *RemoteProvider) Upload(ctx context.Context, groupID string, data []byte, filename string) (UploadResult, error) {
	res, err := p.r(ctx, groupID).
		SetBody(map[string]any{"data": data, "filename": filename}).
		SetResult(&UploadResult{}).
		Post(remoteUpload)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload to %s: %w", groupID, err)
	}
	if err := statusError(res, ErrGroupNotFound, "upload", groupID); err != nil {
		return UploadResult{}, err
	}

	result := res.Result().(*UploadResult)
	p.logger.Debug("uploaded", "group", groupID, "cid", result.ContentID)
	return *result, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"unmasked_server/models"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DynamoDB tables backing the provider.
const (
	GroupsTable       = "Groups"
	GroupMembersTable = "GroupMembers"
	GroupContentTable = "GroupContent"
)

type groupItem struct {
	GroupID   string `dynamodbav:"groupId"`
	Owner     string `dynamodbav:"owner"`
	CreatedAt string `dynamodbav:"createdAt"`
}

type memberItem struct {
	GroupID  string `dynamodbav:"groupId"`
	MemberID string `dynamodbav:"memberId"`
	AddedAt  string `dynamodbav:"addedAt"`
}

type contentItem struct {
	GroupID   string `dynamodbav:"groupId"`
	ContentID string `dynamodbav:"contentId"` // sort key, time ordered
	Handle    string `dynamodbav:"handle"`    // S3 object key
	Filename  string `dynamodbav:"filename"`
	CreatedAt string `dynamodbav:"createdAt"`
}

// DynamoProvider keeps groups, memberships and content handles in DynamoDB
// and content bytes in S3.
type DynamoProvider struct {
	Dynamo   *DynamoService
	Blobs    *BlobStore
	Operator string
	Logger   *slog.Logger

	now func() time.Time
}

// NewDynamoProvider loads the default AWS config for region.
func NewDynamoProvider(ctx context.Context, region, bucket, operator string, logger *slog.Logger) (*DynamoProvider, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewDynamoProviderWithClients(dynamodb.NewFromConfig(cfg), s3.NewFromConfig(cfg), bucket, operator, logger), nil
}

func NewDynamoProviderWithClients(dynamoClient DynamoAPI, s3Client S3API, bucket, operator string, logger *slog.Logger) *DynamoProvider {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "services.DynamoProvider")
	return &DynamoProvider{
		Dynamo:   &DynamoService{Client: dynamoClient, Logger: logger},
		Blobs:    &BlobStore{Client: s3Client, Bucket: bucket},
		Operator: operator,
		Logger:   logger,
		now:      time.Now,
	}
}

func groupKey(groupID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"groupId": &types.AttributeValueMemberS{Value: groupID},
	}
}

func memberKeyAV(groupID, memberID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"groupId":  &types.AttributeValueMemberS{Value: groupID},
		"memberId": &types.AttributeValueMemberS{Value: memberID},
	}
}

func (p *DynamoProvider) timestamp() string {
	return p.now().UTC().Format(time.RFC3339)
}

func (p *DynamoProvider) groupExists(ctx context.Context, groupID string) (bool, error) {
	_, err := p.Dynamo.GetItem(ctx, GroupsTable, groupKey(groupID))
	if errors.Is(err, errItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *DynamoProvider) RegisterGroup(ctx context.Context, groupID string) error {
	err := p.Dynamo.PutItemIfAbsent(ctx, GroupsTable, "groupId", groupItem{
		GroupID:   groupID,
		Owner:     p.Operator,
		CreatedAt: p.timestamp(),
	})
	if errors.Is(err, errItemExists) {
		return fmt.Errorf("%w: %s", ErrGroupExists, groupID)
	}
	if err != nil {
		return err
	}

	// The registering identity is a member of its own group.
	return p.Dynamo.PutItem(ctx, GroupMembersTable, memberItem{GroupID: groupID, MemberID: p.Operator, AddedAt: p.timestamp()})
}

func (p *DynamoProvider) AddGroupMember(ctx context.Context, groupID, memberID string) error {
	exists, err := p.groupExists(ctx, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return p.Dynamo.PutItem(ctx, GroupMembersTable, memberItem{GroupID: groupID, MemberID: memberID, AddedAt: p.timestamp()})
}

func (p *DynamoProvider) RevokeGroupMember(ctx context.Context, groupID, memberID string) error {
	exists, err := p.groupExists(ctx, groupID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	return p.Dynamo.DeleteItem(ctx, GroupMembersTable, memberKeyAV(groupID, memberID))
}

func (p *DynamoProvider) IsAuthorized(ctx context.Context, groupID, memberID string) (bool, error) {
	exists, err := p.groupExists(ctx, groupID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}

	_, err = p.Dynamo.GetItem(ctx, GroupMembersTable, memberKeyAV(groupID, memberID))
	if errors.Is(err, errItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *DynamoProvider) ListContentHandles(ctx context.Context, groupID string) ([]ContentHandle, error) {
	items, err := p.Dynamo.QueryItemsWithOptions(ctx, GroupContentTable,
		"#groupId = :groupId",
		map[string]types.AttributeValue{":groupId": &types.AttributeValueMemberS{Value: groupID}},
		map[string]string{"#groupId": "groupId"},
		models.IsPoolGroup(groupID),
	)
	if err != nil {
		return nil, err
	}

	var contents []contentItem
	if err := attributevalue.UnmarshalListOfMaps(items, &contents); err != nil {
		return nil, fmt.Errorf("failed to parse content items: %w", err)
	}

	handles := make([]ContentHandle, 0, len(contents))
	for _, c := range contents {
		handles = append(handles, ContentHandle{Handle: c.Handle, ContentID: c.ContentID})
	}
	return handles, nil
}

func objectPrefix(groupID string) string {
	return "groups/" + groupID + "/"
}

func (p *DynamoProvider) Retrieve(ctx context.Context, groupID, handle string) ([]byte, error) {
	if !strings.HasPrefix(handle, objectPrefix(groupID)) {
		return nil, fmt.Errorf("%w: %s in %s", ErrContentNotFound, handle, groupID)
	}
	return p.Blobs.Get(ctx, handle)
}

func (p *DynamoProvider) Upload(ctx context.Context, groupID string, data []byte, filename string) (UploadResult, error) {
	now := p.now().UTC()
	contentID := now.Format("20060102150405.000000000") + "-" + uuid.NewString()
	key := objectPrefix(groupID) + contentID + "-" + filename

	if err := p.Blobs.Put(ctx, key, data, "application/json"); err != nil {
		return UploadResult{}, err
	}

	err := p.Dynamo.PutItem(ctx, GroupContentTable, contentItem{
		GroupID:   groupID,
		ContentID: contentID,
		Handle:    key,
		Filename:  filename,
		CreatedAt: now.Format(time.RFC3339),
	})
	if err != nil {
		return UploadResult{}, err
	}

	p.Logger.Info("✅ Content uploaded", "group", groupID, "content", contentID)
	return UploadResult{ContentID: contentID, TransactionID: contentID}, nil
}

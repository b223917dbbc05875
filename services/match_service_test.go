package services

import (
	"context"
	"encoding/json"
	"testing"

	"unmasked_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMatchesSeedsPerActor(t *testing.T) {
	ctx := context.Background()
	service := NewMatchService(newFlakyProvider("op"), discardLogger())

	matches, err := service.FetchMatches(ctx, "alice.testnet")
	require.NoError(t, err)
	require.Len(t, matches, 5)
	assert.Equal(t, "anon-7f3a2b", matches[0].ID)
	assert.Equal(t, models.StatusPending, matches[0].Status)

	assert.Equal(t, matches, service.Matches("alice.testnet"))
	assert.Empty(t, service.Matches("bob.testnet"))
}

func TestFetchMatchesSkipsBadItemsAndDefaultsStatus(t *testing.T) {
	ctx := context.Background()
	provider := newFlakyProvider("op")
	service := NewMatchService(provider, discardLogger())
	group := models.MatchesGroupID("carol.testnet")

	handles, err := provider.ListContentHandles(ctx, group)
	require.NoError(t, err)
	provider.failRetrieve[handles[0].Handle] = true
	_, err = provider.MemoryProvider.Upload(ctx, group, []byte("{broken"), "m.json")
	require.NoError(t, err)
	_, err = provider.MemoryProvider.Upload(ctx, group, []byte(`{"id":"anon-new","compatibilityScore":70}`), "m.json")
	require.NoError(t, err)

	matches, err := service.FetchMatches(ctx, "carol.testnet")
	require.NoError(t, err)
	require.Len(t, matches, 5)
	last := matches[len(matches)-1]
	assert.Equal(t, "anon-new", last.ID)
	assert.Equal(t, models.StatusPending, last.Status)
}

func TestMatchTransitionsOnlyLeavePending(t *testing.T) {
	ctx := context.Background()
	service := NewMatchService(newFlakyProvider("op"), discardLogger())
	_, err := service.FetchMatches(ctx, "alice.testnet")
	require.NoError(t, err)

	accepted, err := service.Accept("alice.testnet", "anon-7f3a2b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, accepted.Status)

	still, err := service.Reject("alice.testnet", "anon-7f3a2b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, still.Status)

	rejected, err := service.Reject("alice.testnet", "anon-e91c4d")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	again, err := service.Accept("alice.testnet", "anon-e91c4d")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, again.Status)

	_, err = service.Accept("alice.testnet", "anon-missing")
	assert.ErrorIs(t, err, models.ErrMatchNotFound)
}

func TestSubmitPreferences(t *testing.T) {
	ctx := context.Background()
	provider := newFlakyProvider("op")
	service := NewMatchService(provider, discardLogger())
	prefs := models.MatchPreferences{
		Interests:    []string{"defi", "hiking"},
		Values:       []string{"honesty"},
		DealBreakers: "maxis",
		AgeRange:     models.AgeRange{Min: 21, Max: 35},
	}

	require.NoError(t, service.SubmitPreferences(ctx, "alice.testnet", prefs))

	saved, ok := service.Preferences("alice.testnet")
	require.True(t, ok)
	assert.Equal(t, prefs, saved)

	require.Len(t, provider.uploads, 1)
	var uploaded models.MatchPreferences
	require.NoError(t, json.Unmarshal(provider.uploads[0], &uploaded))
	assert.Equal(t, prefs, uploaded)
}

func TestSubmitPreferencesFailure(t *testing.T) {
	provider := newFlakyProvider("op")
	provider.failUpload = true
	provider.failRegister = true
	service := NewMatchService(provider, discardLogger())

	err := service.SubmitPreferences(context.Background(), "alice.testnet", models.MatchPreferences{})
	assert.ErrorIs(t, err, errProviderDown)
	_, ok := service.Preferences("alice.testnet")
	assert.False(t, ok)
}

func TestFetchMatchesKeepsLocalDecisions(t *testing.T) {
	ctx := context.Background()
	service := NewMatchService(newFlakyProvider("op"), discardLogger())
	_, err := service.FetchMatches(ctx, "alice.testnet")
	require.NoError(t, err)

	_, err = service.Accept("alice.testnet", "anon-7f3a2b")
	require.NoError(t, err)
	_, err = service.Reject("alice.testnet", "anon-e91c4d")
	require.NoError(t, err)

	refreshed, err := service.FetchMatches(ctx, "alice.testnet")
	require.NoError(t, err)
	statuses := map[string]string{}
	for _, m := range refreshed {
		statuses[m.ID] = m.Status
	}
	assert.Equal(t, models.StatusAccepted, statuses["anon-7f3a2b"])
	assert.Equal(t, models.StatusRejected, statuses["anon-e91c4d"])
	assert.Equal(t, models.StatusPending, statuses["anon-1a8f5e"])

	after, err := service.Reject("alice.testnet", "anon-7f3a2b")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, after.Status)
}

func TestFetchMatchesFailureKeepsList(t *testing.T) {
	ctx := context.Background()
	provider := newFlakyProvider("op")
	service := NewMatchService(provider, discardLogger())
	_, err := service.FetchMatches(ctx, "alice.testnet")
	require.NoError(t, err)
	_, err = service.Accept("alice.testnet", "anon-7f3a2b")
	require.NoError(t, err)

	provider.failList = true
	_, err = service.FetchMatches(ctx, "alice.testnet")
	assert.ErrorIs(t, err, errProviderDown)

	matches := service.Matches("alice.testnet")
	require.Len(t, matches, 5)
	assert.Equal(t, models.StatusAccepted, matches[0].Status)
}

package services

import (
	"context"
	"testing"

	"unmasked_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// An actor joins a pool, publishes through the composer, another actor reads
// the feed and reacts.
func TestJoinPublishReadReact(t *testing.T) {
	ctx := context.Background()
	provider := NewMemoryProvider("operator.testnet")
	pool := testPool(t, "dating")

	membership := NewMembershipService(provider, discardLogger())
	require.False(t, membership.CheckMembership(ctx, "alice.testnet", pool))
	require.NoError(t, membership.Join(ctx, "alice.testnet", pool))
	require.True(t, membership.CheckMembership(ctx, "alice.testnet", pool))

	authorSide := NewConfessionService(provider, discardLogger())
	composer := NewComposer(authorSide, pool)
	composer.SetText("I reuse my seed phrase as my wifi password")
	posted, err := composer.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, Published, composer.State())

	readerSide := NewConfessionService(provider.WithIdentity("bob.testnet"), discardLogger())
	feed, err := readerSide.Fetch(ctx, pool)
	require.NoError(t, err)
	require.Len(t, feed, 4)
	assert.Equal(t, posted.ID, feed[0].ID)
	assert.Equal(t, posted.Text, feed[0].Text)

	for i := 0; i < 3; i++ {
		_, err := readerSide.React(posted.ID, pool.GroupID, models.ReactionHeart)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, readerSide.Confessions(pool.GroupID)[0].Reactions[models.ReactionHeart])

	// Reactions are local to the reacting feed.
	assert.Equal(t, 0, authorSide.Confessions(pool.GroupID)[0].Reactions[models.ReactionHeart])
}

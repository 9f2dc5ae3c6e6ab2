package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/anon-forum/internal/models"
	"github.com/yukikurage/anon-forum/internal/testutil"
)

func TestMessageRepository_Conversations(t *testing.T) {
	db := testutil.NewDB(t)
	messages := NewMessageRepository(db)
	ctx := context.Background()

	me := testutil.CreateUser(t, db, "me", false)
	ann := testutil.CreateUser(t, db, "ann", false)
	ben := testutil.CreateUser(t, db, "ben", false)

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	send := func(from, to *models.User, minute int) {
		require.NoError(t, messages.Create(ctx, &models.DirectMessage{
			SenderID:   from.ID,
			ReceiverID: to.ID,
			Content:    "m",
			CreatedAt:  base.Add(time.Duration(minute) * time.Minute),
		}))
	}
	send(ann, me, 1)
	send(ann, me, 2)
	send(me, ben, 3)

	conversations, err := messages.Conversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	assert.Equal(t, "ben", conversations[0].Username)
	assert.Zero(t, conversations[0].UnreadCount)
	assert.Equal(t, "ann", conversations[1].Username)
	assert.Equal(t, int64(2), conversations[1].UnreadCount)

	marked, err := messages.MarkRead(ctx, ann.ID, me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	thread, err := messages.Thread(ctx, me.ID, ann.ID, nil)
	require.NoError(t, err)
	assert.Len(t, thread, 2)

	empty, err := messages.Conversations(ctx, ben.ID+100)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitversity/internal/core/application/usecases/commands"
	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/core/domain/model/notification"
	"bitversity/internal/pkg/errs"
)

func storeNotification(t *testing.T, f memoryFixture, recipient kernel.UUID) kernel.UUID {
	t.Helper()
	n, err := notification.NewNotification(kernel.NewUUID(), notification.Snapshot{
		RecipientID: recipient,
		Type:        notification.TypeWorkflow,
		Message:     "Quote requested",
		DedupKey:    "event:" + kernel.NewUUID().String(),
	}, time.Now().UTC())
	require.NoError(t, err)
	created, err := f.factory.Create().NotificationRepository().Add(t.Context(), n)
	require.NoError(t, err)
	require.True(t, created)
	return n.ID()
}

func TestMarkNotificationReadCommandHandler_IsIdempotent(t *testing.T) {
	f := newMemoryFixture(t)
	recipient := kernel.NewUUID()
	id := storeNotification(t, f, recipient)
	h := commands.NewMarkNotificationReadCommandHandler(notificationUoWs{f.factory})

	cmd, err := commands.NewMarkNotificationReadCommand(id, recipient)
	require.NoError(t, err)

	first, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.NotNil(t, first.ReadAt)

	second, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	require.NotNil(t, second.ReadAt)
	assert.True(t, first.ReadAt.Equal(*second.ReadAt))
}

func TestMarkNotificationReadCommandHandler_OtherRecipient(t *testing.T) {
	f := newMemoryFixture(t)
	id := storeNotification(t, f, kernel.NewUUID())
	h := commands.NewMarkNotificationReadCommandHandler(notificationUoWs{f.factory})

	cmd, err := commands.NewMarkNotificationReadCommand(id, kernel.NewUUID())
	require.NoError(t, err)
	_, err = h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	unread := f.store.Notifications()
	require.Len(t, unread, 1)
	assert.Nil(t, unread[0].ReadAt)
}

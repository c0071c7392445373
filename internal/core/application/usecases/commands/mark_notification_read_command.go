package commands

import (
	"errors"

	"bitversity/internal/core/domain/model/kernel"
	"bitversity/internal/pkg/guard"
)

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

// MarkNotificationReadCommand marks one of the actor's notifications as read.
type MarkNotificationReadCommand struct {
	notificationID kernel.UUID
	actorID        kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkNotificationReadCommand(notificationID, actorID kernel.UUID) (MarkNotificationReadCommand, error) {
	if err := errors.Join(notificationID.Validate(), actorID.Validate()); err != nil {
		return MarkNotificationReadCommand{}, err
	}

	return MarkNotificationReadCommand{
		notificationID: notificationID,
		actorID:        actorID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

func (c MarkNotificationReadCommand) NotificationID() kernel.UUID { return c.notificationID }
func (c MarkNotificationReadCommand) ActorID() kernel.UUID        { return c.actorID }

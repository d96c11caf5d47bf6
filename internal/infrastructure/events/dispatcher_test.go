package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pingEvent struct{}

func (pingEvent) EventName() string     { return "ping" }
func (pingEvent) OccurredAt() time.Time { return time.Time{} }

type pongEvent struct{}

func (pongEvent) EventName() string     { return "pong" }
func (pongEvent) OccurredAt() time.Time { return time.Time{} }

func TestDispatcherRoutesByName(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	var named, all []string
	d.Register("ping", func(_ context.Context, e shared.DomainEvent) error {
		named = append(named, e.EventName())
		return nil
	})
	d.Register(AllEvents, func(_ context.Context, e shared.DomainEvent) error {
		all = append(all, e.EventName())
		return nil
	})

	err := d.Publish(context.Background(), pingEvent{}, pongEvent{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"ping"}, named)
	assert.Equal(t, []string{"ping", "pong"}, all)
}

func TestDispatcherRunsAllHandlersOnFailure(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	boom := errors.New("boom")
	calls := 0
	d.Register("ping", func(context.Context, shared.DomainEvent) error { calls++; return boom })
	d.Register("ping", func(context.Context, shared.DomainEvent) error { calls++; return nil })

	err := d.Dispatch(context.Background(), pingEvent{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

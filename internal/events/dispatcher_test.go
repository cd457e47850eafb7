package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventApplicationSubmitted, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventApplicationSubmitted, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
		return nil
	})
	d.Subscribe(EventJobPosted, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventApplicationSubmitted, JobID: 1})
	require.Error(t, err)
	assert.ErrorContains(t, err, "smtp down")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcherWithoutListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventJobClosed}))
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "jobboard.application_submitted", Subject("jobboard", EventApplicationSubmitted))
}

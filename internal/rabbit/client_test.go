package rabbit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/go-playground/assert.v1"

	"expoDesk/internal/dto"
	"expoDesk/internal/model"
)

type recorder struct {
	keys   []string
	bodies [][]byte
}

func (r *recorder) Close() {}

func (r *recorder) Publish(_ context.Context, key string, body []byte) error {
	r.keys = append(r.keys, key)
	r.bodies = append(r.bodies, body)
	return nil
}

func (r *recorder) Consume(func([]byte) error) error { return nil }

func TestPublishStatus(t *testing.T) {
	rec := &recorder{}
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	reg := &model.Registration{
		ID:        "3f2c1a",
		EventType: "trade_expo",
		EntryCode: "TRADE123456AB12",
		Status:    model.StatusCheckedIn,
		UpdatedAt: at,
	}

	assert.Equal(t, PublishStatus(context.Background(), rec, reg), nil)
	assert.Equal(t, rec.keys, []string{"registration.checked_in"})

	var msg dto.RegistrationStatusMessage
	assert.Equal(t, json.Unmarshal(rec.bodies[0], &msg), nil)
	assert.Equal(t, msg.EntryCode, "TRADE123456AB12")
	assert.Equal(t, msg.Status, "checked_in")
	assert.Equal(t, msg.EventType, "trade_expo")
	assert.Equal(t, msg.OccurredAt.Equal(at), true)
}

func TestStatusRoutingKey(t *testing.T) {
	assert.Equal(t, StatusRoutingKey(model.StatusRegistered), "registration.registered")
	assert.Equal(t, StatusRoutingKey(model.StatusCancelled), "registration.cancelled")
}

package validator

import (
	"context"
	"strings"
	"testing"

	"gopkg.in/go-playground/assert.v1"
)

type listQuery struct {
	EventType string `validate:"omitempty,eventtype"`
	Status    string `validate:"omitempty,status"`
	Limit     int    `validate:"gte=0,lte=500"`
}

type codeRequest struct {
	Code string `validate:"required,entrycode"`
}

func TestEntryCode(t *testing.T) {
	assert.Equal(t, EntryCode("GEM123456AB12"), true)
	assert.Equal(t, EntryCode("TRADE0000019Z0Z"), true)
	assert.Equal(t, EntryCode("GEM12345AB12"), false)
	assert.Equal(t, EntryCode("gem123456AB12"), false)
	assert.Equal(t, EntryCode("GEM123456ab12"), false)
	assert.Equal(t, EntryCode(""), false)
}

func TestPresent(t *testing.T) {
	assert.Equal(t, Present("x"), true)
	assert.Equal(t, Present(""), false)
}

func TestValidateStruct(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, Validate(ctx, listQuery{EventType: "trade_expo", Status: "checked_in", Limit: 10}), nil)

	err := Validate(ctx, listQuery{Status: "pending"})
	assert.NotEqual(t, err, nil)
	assert.Equal(t, strings.HasPrefix(err.Error(), ErrInvalidFormat), true)

	err = Validate(ctx, listQuery{Limit: 1000})
	assert.NotEqual(t, err, nil)
	assert.Equal(t, strings.HasPrefix(err.Error(), ErrFieldExceedsMaxVal), true)

	err = Validate(ctx, codeRequest{})
	assert.NotEqual(t, err, nil)
	assert.Equal(t, strings.HasPrefix(err.Error(), ErrFieldRequired), true)
}

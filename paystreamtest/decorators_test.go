package paystreamtest

import (
	"context"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

func TestSuccessfulDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	ctx := context.Background()

	_, _ = d.Check(ctx, noInfo, nil, nil, &h)
	assertHCounts(t, &h, 1, 0)

	_, _ = d.Deliver(ctx, noInfo, nil, nil, &h)
	assertHCounts(t, &h, 1, 1)
}

func TestDecoratorWithError(t *testing.T) {
	d := Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}
	ctx := context.Background()

	// When using an error returning decorator, handler is never called.
	// Otherwise using nil would panic.
	var handler paystream.Handler

	_, err := d.Check(ctx, noInfo, nil, nil, handler)
	if want := errors.ErrUnauthorized; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}

	_, err = d.Deliver(ctx, noInfo, nil, nil, handler)
	if want := errors.ErrNotFound; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}
}

func TestDecorateCallsThrough(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	ctx := context.Background()
	handler := Decorate(&h, &d)

	_, _ = handler.Check(ctx, noInfo, nil, nil)
	_, _ = handler.Deliver(ctx, noInfo, nil, nil)

	assertHCounts(t, &h, 1, 1)
	if got := d.CallCount(); got != 2 {
		t.Errorf("want 2 decorator calls, got %d", got)
	}
}

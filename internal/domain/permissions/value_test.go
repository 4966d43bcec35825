package permissions

import (
	"errors"
	"testing"
)

func TestResolveValue_Defaults(t *testing.T) {
	v, err := resolveValue(TypeStreamView, nil, nil, nil)
	if err != nil {
		t.Fatalf("resolveValue error: %v", err)
	}
	if v.Kind != KindBool || !v.Bool {
		t.Fatalf("expected bool true default, got %#v", v)
	}

	v, err = resolveValue(TypeLogAccessDays, nil, nil, nil)
	if err != nil {
		t.Fatalf("resolveValue error: %v", err)
	}
	if v.Kind != KindDays || v.Days != 0 {
		t.Fatalf("expected days 0 default, got %#v", v)
	}

	v, err = resolveValue(TypeNotificationChannel, nil, nil, nil)
	if err != nil {
		t.Fatalf("resolveValue error: %v", err)
	}
	if v.Kind != KindChannels || len(v.Channels) != 0 {
		t.Fatalf("expected empty channels default, got %#v", v)
	}
}

func TestResolveValue_NegativeDays_Invalid(t *testing.T) {
	n := -1
	_, err := resolveValue(TypeReportAccessDays, nil, &n, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative days, got %v", err)
	}
}

func TestResolveValue_Channels_StrictAndDeduped(t *testing.T) {
	_, err := resolveValue(TypeNotificationChannel, nil, nil, []Channel{"push", "fax"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown channel, got %v", err)
	}

	v, err := resolveValue(TypeNotificationChannel, nil, nil, []Channel{"sms", "push", "sms"})
	if err != nil {
		t.Fatalf("resolveValue error: %v", err)
	}
	// Dedup preservando orden de entrada.
	if len(v.Channels) != 2 || v.Channels[0] != ChannelSMS || v.Channels[1] != ChannelPush {
		t.Fatalf("expected [sms push], got %#v", v.Channels)
	}
}

func TestValue_ValidFor_KindMismatch(t *testing.T) {
	if err := BoolValue(true).ValidFor(TypeLogAccessDays); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected kind mismatch error, got %v", err)
	}
	if err := BoolValue(true).ValidFor(TypeStreamView); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

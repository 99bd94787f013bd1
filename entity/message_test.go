package entity

import (
	"testing"
)

func TestMessageStatusCanAdvance(t *testing.T) {
	tests := []struct {
		from MessageStatus
		to   MessageStatus
		want bool
	}{
		{StatusSent, StatusDelivered, true},
		{StatusSent, StatusRead, true},
		{StatusDelivered, StatusRead, true},
		{StatusDelivered, StatusSent, false},
		{StatusRead, StatusDelivered, false},
		{StatusRead, StatusSent, false},
		{StatusSent, StatusSent, false},
		{StatusRead, StatusRead, false},
		{MessageStatus("Bogus"), StatusRead, false},
		{StatusSent, MessageStatus("Bogus"), false},
	}

	for _, tc := range tests {
		if got := tc.from.CanAdvance(tc.to); got != tc.want {
			t.Errorf("CanAdvance(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMessageStatusValid(t *testing.T) {
	for _, s := range []MessageStatus{StatusSent, StatusDelivered, StatusRead} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if MessageStatus("Pending").Valid() {
		t.Error("unknown status should not be valid")
	}
}

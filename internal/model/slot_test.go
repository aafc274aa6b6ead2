package model

import "testing"

func TestToSlotRoundTrip(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 30} {
			slot, err := ToSlot(hour, minute)
			if err != nil {
				t.Fatalf("ToSlot(%d, %d): %v", hour, minute, err)
			}
			h, m := SlotClock(slot)
			if h != hour || m != minute {
				t.Errorf("SlotClock(ToSlot(%d, %d)) = (%d, %d)", hour, minute, h, m)
			}
		}
	}
}

func TestToSlotRejectsOddMinutes(t *testing.T) {
	for _, minute := range []int{1, 15, 29, 31, 59, -30} {
		if _, err := ToSlot(10, minute); err == nil {
			t.Errorf("ToSlot(10, %d): expected error", minute)
		}
	}
	if _, err := ToSlot(24, 0); err == nil {
		t.Error("ToSlot(24, 0): expected error")
	}
}

func TestSlotLabel(t *testing.T) {
	tests := []struct {
		slot int
		want string
	}{
		{0, "00:00"},
		{1, "00:30"},
		{14, "07:00"},
		{15, "07:30"},
		{46, "23:00"},
	}
	for _, tt := range tests {
		if got := SlotLabel(tt.slot); got != tt.want {
			t.Errorf("SlotLabel(%d) = %q, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestSlotWindows(t *testing.T) {
	const begin, end = 7, 22

	// Start slots span [14, 45]: 7:00 through 22:30.
	if !ValidStartSlot(14, begin, end) || !ValidStartSlot(45, begin, end) {
		t.Error("window bounds should be valid start slots")
	}
	if ValidStartSlot(13, begin, end) || ValidStartSlot(46, begin, end) {
		t.Error("slots outside the window should be invalid starts")
	}

	// End slots span [15, 46]: 7:30 through 23:00.
	if !ValidEndSlot(15, begin, end) || !ValidEndSlot(46, begin, end) {
		t.Error("window bounds should be valid end slots")
	}
	if ValidEndSlot(14, begin, end) || ValidEndSlot(47, begin, end) {
		t.Error("slots outside the window should be invalid ends")
	}
}

package model

import "fmt"

// Time of day is measured in half-hour slots counted from midnight:
// slot = hour*2, plus one for the half past. A booking occupies the
// half-open slot interval [Start, End).

// ToSlot converts a wall-clock time into its half-hour slot.
// Only :00 and :30 are representable.
func ToSlot(hour, minute int) (int, error) {
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour %d", hour)
	}
	if minute != 0 && minute != 30 {
		return 0, fmt.Errorf("invalid minute %d: accepted values are 0 and 30", minute)
	}
	slot := hour * 2
	if minute == 30 {
		slot++
	}
	return slot, nil
}

// SlotClock converts a half-hour slot back into wall-clock hour and minute.
func SlotClock(slot int) (hour, minute int) {
	hour = slot / 2
	if slot%2 != 0 {
		minute = 30
	}
	return hour, minute
}

// SlotLabel formats a slot as "HH:MM" for display.
func SlotLabel(slot int) string {
	h, m := SlotClock(slot)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ValidStartSlot reports whether slot is a legal booking start inside the
// operating window [beginHour, endHour]. The latest start is endHour:30.
func ValidStartSlot(slot, beginHour, endHour int) bool {
	return slot >= beginHour*2 && slot <= endHour*2+1
}

// ValidEndSlot reports whether slot is a legal booking end inside the
// operating window. The earliest end is beginHour:30, the latest endHour+1:00.
func ValidEndSlot(slot, beginHour, endHour int) bool {
	return slot >= beginHour*2+1 && slot <= (endHour+1)*2
}

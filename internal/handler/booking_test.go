package handler

import (
	"testing"

	"github.com/venturehub/mentor-scheduling/internal/model"
)

func TestResolveBookingWindow(t *testing.T) {
	slots := []model.AvailabilitySlot{
		{ID: 1, Day: model.Monday, StartMin: 540, EndMin: 720}, // 09:00-12:00
		{ID: 2, Day: model.Monday, StartMin: 840, EndMin: 900}, // 14:00-15:00
	}

	cases := []struct {
		name        string
		startMin    int
		durationMin int
		wantEnd     int
		wantSlot    uint64
		wantErr     error
	}{
		{"zero duration defaults to slot remainder", 600, 0, 720, 1, nil},
		{"explicit duration inside slot", 600, 30, 630, 1, nil},
		{"duration to the exact slot end", 600, 120, 720, 1, nil},
		{"start at slot open", 540, 60, 600, 1, nil},
		{"second slot resolved", 840, 0, 900, 2, nil},
		{"duration overruns slot end", 700, 60, 0, 0, errWindowTooLong},
		{"spanning the gap between slots", 600, 300, 0, 0, errWindowTooLong},
		{"start before any slot", 500, 30, 0, 0, errOutsideAvailability},
		{"start in the gap", 760, 30, 0, 0, errOutsideAvailability},
		{"start at slot end is exclusive", 720, 30, 0, 0, errOutsideAvailability},
	}
	for _, tc := range cases {
		end, slot, err := resolveBookingWindow(slots, tc.startMin, tc.durationMin)
		if err != tc.wantErr {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.wantErr)
			continue
		}
		if tc.wantErr != nil {
			continue
		}
		if end != tc.wantEnd {
			t.Errorf("%s: end = %d, want %d", tc.name, end, tc.wantEnd)
		}
		if slot == nil || slot.ID != tc.wantSlot {
			t.Errorf("%s: resolved slot %+v, want id %d", tc.name, slot, tc.wantSlot)
		}
	}
}

func TestResolveBookingWindowNoSlots(t *testing.T) {
	if _, _, err := resolveBookingWindow(nil, 600, 30); err != errOutsideAvailability {
		t.Fatalf("err = %v, want outside-availability", err)
	}
}

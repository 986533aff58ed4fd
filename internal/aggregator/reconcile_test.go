package aggregator

import (
	"reflect"
	"testing"
	"time"

	"github.com/intelligrit/room-index/internal/model"
)

func TestReconcile(t *testing.T) {
	day := time.Date(2020, 10, 5, 0, 0, 0, 0, time.UTC)
	avail := model.Availability{
		"2020-10-05": {
			0: {{600, 645}, {900, 945}},
			// leaves 10:00-10:15 free, a break on its own
			1: {{510, 600}, {615, 705}},
		},
	}

	Reconcile(avail, day, day.AddDate(0, 0, 1), 3)

	want := model.Availability{
		"2020-10-05": {
			0: {{510, 600}, {645, 900}, {945, 1365}},
			1: {{705, 1365}},
			2: {{510, 1365}},
		},
		"2020-10-06": {
			0: {{510, 1365}},
			1: {{510, 1365}},
			2: {{510, 1365}},
		},
	}
	if !reflect.DeepEqual(avail, want) {
		t.Errorf("unexpected availability:\n got %v\nwant %v", avail, want)
	}
}

func TestReconcile_BreakMergedWithFreeTimeStays(t *testing.T) {
	day := time.Date(2020, 10, 5, 0, 0, 0, 0, time.UTC)
	avail := model.Availability{
		"2020-10-05": {0: {{510, 600}, {720, 1365}}},
	}

	Reconcile(avail, day, day, 1)

	// 10:00-12:00 contains the 10:00 break but is not exactly a break
	want := []model.Span{{600, 720}}
	if got := avail["2020-10-05"][0]; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestReconcile_FullyBooked(t *testing.T) {
	day := time.Date(2020, 10, 5, 0, 0, 0, 0, time.UTC)
	avail := model.Availability{
		"2020-10-05": {0: {{480, 1400}}},
	}

	Reconcile(avail, day, day, 1)

	got := avail["2020-10-05"][0]
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty, non-nil list, got %#v", got)
	}
}

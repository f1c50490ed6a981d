package scheduler

import (
	"testing"
	"time"
)

func TestParseScheduleTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ScheduleTime
		wantErr bool
	}{
		{name: "morning", input: "06:00", want: ScheduleTime{Hour: 6, Minute: 0}},
		{name: "midnight", input: "00:00", want: ScheduleTime{}},
		{name: "end of day", input: "23:59", want: ScheduleTime{Hour: 23, Minute: 59}},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "not a time", input: "noonish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScheduleTime(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScheduleTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseScheduleTime(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestShouldRun_FiresOncePerMinute(t *testing.T) {
	s := &Scheduler{scheduleTimes: []ScheduleTime{{Hour: 6, Minute: 0}}}

	at := time.Date(2024, 3, 1, 6, 0, 10, 0, time.UTC)
	if !s.shouldRun(at) {
		t.Fatal("shouldRun() = false at a scheduled time")
	}
	if s.shouldRun(at.Add(20 * time.Second)) {
		t.Error("shouldRun() fired twice within the same minute")
	}
	if !s.shouldRun(at.Add(24 * time.Hour)) {
		t.Error("shouldRun() = false at the same time the next day")
	}
}

func TestShouldRun_IgnoresOtherTimes(t *testing.T) {
	s := &Scheduler{scheduleTimes: []ScheduleTime{{Hour: 6, Minute: 0}}}

	if s.shouldRun(time.Date(2024, 3, 1, 6, 1, 0, 0, time.UTC)) {
		t.Error("shouldRun() fired one minute off schedule")
	}
}

package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/syafiqkay/taskdeck/pkg/domain/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSprint_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sprint  model.Sprint
		wantErr bool
	}{
		{
			name: "valid sprint",
			sprint: model.Sprint{
				Name:      "Sprint 1",
				StartDate: day(2025, 1, 1),
				EndDate:   day(2025, 1, 14),
			},
			wantErr: false,
		},
		{
			name: "missing name",
			sprint: model.Sprint{
				StartDate: day(2025, 1, 1),
				EndDate:   day(2025, 1, 14),
			},
			wantErr: true,
		},
		{
			name: "missing dates",
			sprint: model.Sprint{
				Name: "No window",
			},
			wantErr: true,
		},
		{
			name: "end date equal to start date",
			sprint: model.Sprint{
				Name:      "Zero-length",
				StartDate: day(2025, 1, 1),
				EndDate:   day(2025, 1, 1),
			},
			wantErr: true,
		},
		{
			name: "end date before start date",
			sprint: model.Sprint{
				Name:      "Backwards",
				StartDate: day(2025, 1, 14),
				EndDate:   day(2025, 1, 1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sprint.Validate()
			if tt.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestSprint_Contains(t *testing.T) {
	sprint := model.Sprint{
		Name:      "Sprint 1",
		StartDate: day(2025, 1, 1),
		EndDate:   day(2025, 1, 10),
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{
			name: "start date is inside",
			at:   day(2025, 1, 1),
			want: true,
		},
		{
			name: "end date is inside",
			at:   day(2025, 1, 10),
			want: true,
		},
		{
			name: "middle of the window",
			at:   day(2025, 1, 5),
			want: true,
		},
		{
			name: "day before the start",
			at:   day(2024, 12, 31),
			want: false,
		},
		{
			name: "day after the end",
			at:   day(2025, 1, 11),
			want: false,
		},
		{
			name: "late on the end date still counts",
			at:   time.Date(2025, 1, 10, 23, 59, 59, 0, time.UTC),
			want: true,
		},
		{
			name: "early on the start date still counts",
			at:   time.Date(2025, 1, 1, 0, 0, 1, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want {
				gt.B(t, sprint.Contains(tt.at)).True()
			} else {
				gt.B(t, sprint.Contains(tt.at)).False()
			}
		})
	}
}

package model

import (
	"encoding/json"
	"testing"

	"sitecheck/api"
)

func TestProjectStepsPartialResponse(t *testing.T) {
	checkup := &api.Checkup{
		CheckupID: 12,
		URL:       "https://example.com",
		Checks: []api.Check{
			{CheckID: 1, CheckType: "technologies", Status: "completed"},
			{CheckID: 2, CheckType: "scan_ports", Status: "running"},
		},
	}

	steps := ProjectSteps(checkup)
	if len(steps) != 5 {
		t.Fatalf("len(steps) = %d, want 5", len(steps))
	}

	want := map[CheckType]StepStatus{
		CheckTechnologies: StatusComplete,
		CheckCookie:       StatusUpcoming,
		CheckScanPorts:    StatusCurrent,
		CheckLighthouse:   StatusUpcoming,
		CheckNetwork:      StatusUpcoming,
	}
	for _, step := range steps {
		if step.Status != want[step.Tag] {
			t.Errorf("step %s status = %v, want %v", step.Tag, step.Status, want[step.Tag])
		}
	}
}

func TestProjectStepsStatusMapping(t *testing.T) {
	tests := []struct {
		status string
		want   StepStatus
	}{
		{"completed", StatusComplete},
		{"failed", StatusFailed},
		{"created", StatusCurrent},
		{"running", StatusCurrent},
		{"half-done", StatusCurrent}, // outside the contract, shown as running
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := mapCheckStatus(tt.status); got != tt.want {
				t.Errorf("mapCheckStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestProjectStepsDropsUnknownTypes(t *testing.T) {
	checkup := &api.Checkup{
		Checks: []api.Check{
			{CheckID: 1, CheckType: "dns_audit", Status: "completed"},
			{CheckID: 2, CheckType: "cookie", Status: "completed"},
		},
	}

	steps := ProjectSteps(checkup)
	for _, step := range steps {
		if step.Tag == CheckCookie {
			if step.Status != StatusComplete {
				t.Errorf("cookie status = %v, want %v", step.Status, StatusComplete)
			}
			continue
		}
		if step.Status != StatusUpcoming {
			t.Errorf("step %s status = %v, want upcoming", step.Tag, step.Status)
		}
	}
}

func TestProjectStepsFailedException(t *testing.T) {
	tests := []struct {
		name    string
		results json.RawMessage
		want    string
	}{
		{"exception present", json.RawMessage(`{"exception":"connection refused"}`), "connection refused"},
		{"no exception key", json.RawMessage(`{"other":1}`), ""},
		{"nil results", nil, ""},
		{"malformed payload", json.RawMessage(`{not json`), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkup := &api.Checkup{
				Checks: []api.Check{
					{CheckID: 1, CheckType: "network", Status: "failed", Results: tt.results},
				},
			}
			steps := ProjectSteps(checkup)
			for _, step := range steps {
				if step.Tag != CheckNetwork {
					continue
				}
				if step.Status != StatusFailed {
					t.Fatalf("network status = %v, want failed", step.Status)
				}
				if step.Exception != tt.want {
					t.Errorf("exception = %q, want %q", step.Exception, tt.want)
				}
			}
		})
	}
}

func TestProjectStepsChatID(t *testing.T) {
	checkup := &api.Checkup{
		Checks: []api.Check{
			{CheckID: 4, CheckType: "lighthouse", Status: "completed", Chat: &api.Chat{ChatID: 9, CheckID: 4}},
		},
	}
	steps := ProjectSteps(checkup)
	for _, step := range steps {
		if step.Tag == CheckLighthouse {
			if !step.HasChat() {
				t.Fatal("lighthouse step has no chat")
			}
			if step.ChatID != 9 {
				t.Errorf("ChatID = %d, want 9", step.ChatID)
			}
		}
	}
}

func TestAllTerminal(t *testing.T) {
	tests := []struct {
		name   string
		checks []api.Check
		want   bool
	}{
		{"empty list", nil, false},
		{"all completed", []api.Check{
			{Status: "completed"}, {Status: "completed"},
		}, true},
		{"mixed terminal", []api.Check{
			{Status: "completed"}, {Status: "failed"},
		}, true},
		{"one running", []api.Check{
			{Status: "completed"}, {Status: "running"},
		}, false},
		{"one created", []api.Check{
			{Status: "created"},
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllTerminal(tt.checks); got != tt.want {
				t.Errorf("AllTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}

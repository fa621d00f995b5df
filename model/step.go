package model

import (
	"encoding/json"

	"sitecheck/api"
	"sitecheck/config"
)

// CheckType enumerates the audits the backend runs. Each type owns
// exactly one fixed display slot.
type CheckType string

const (
	CheckTechnologies CheckType = "technologies"
	CheckCookie       CheckType = "cookie"
	CheckScanPorts    CheckType = "scan_ports"
	CheckLighthouse   CheckType = "lighthouse"
	CheckNetwork      CheckType = "network"
)

// StepStatus is the display state of one slot.
type StepStatus int

const (
	StatusUpcoming StepStatus = iota
	StatusCurrent
	StatusComplete
	StatusFailed
)

func (s StepStatus) String() string {
	switch s {
	case StatusCurrent:
		return "current"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	default:
		return "upcoming"
	}
}

// Step is the local merge of one fixed slot with whatever check the
// latest checkup response contained. Never persisted; recomputed on
// every successful poll.
type Step struct {
	Name   string
	Tag    CheckType
	Status StepStatus

	CheckID            int64
	ChatID             int64
	Results            json.RawMessage
	ResultsDescription string
	Exception          string
}

// slotOrder fixes the display order of the five known check types.
var slotOrder = []struct {
	tag  CheckType
	name string
}{
	{CheckTechnologies, "Deprecated technologies and CVE"},
	{CheckCookie, "Cookies and GDPR compliance"},
	{CheckScanPorts, "Open ports scanning"},
	{CheckLighthouse, "Lighthouse"},
	{CheckNetwork, "Network"},
}

// InitialSteps returns the five slots, all upcoming.
func InitialSteps() []Step {
	steps := make([]Step, len(slotOrder))
	for i, slot := range slotOrder {
		steps[i] = Step{Name: slot.name, Tag: slot.tag, Status: StatusUpcoming}
	}
	return steps
}

// mapCheckStatus is the total mapping from backend status strings onto
// display states for a check that is present in the response. Statuses
// outside the contract are logged and shown as running rather than
// crashing the projection.
func mapCheckStatus(status string) StepStatus {
	switch status {
	case "completed":
		return StatusComplete
	case "failed":
		return StatusFailed
	case "created", "running":
		return StatusCurrent
	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[step] unrecognized check status %q - treating as current", status)
		}
		return StatusCurrent
	}
}

// ProjectSteps maps a checkup response onto the fixed slot list. Slots
// with no matching check stay upcoming; checks whose type matches no
// slot are dropped (logged, never an error).
func ProjectSteps(checkup *api.Checkup) []Step {
	steps := InitialSteps()
	if checkup == nil {
		return steps
	}

	byType := make(map[CheckType]*api.Check, len(checkup.Checks))
	for i := range checkup.Checks {
		check := &checkup.Checks[i]
		tag := CheckType(check.CheckType)
		if !knownCheckType(tag) {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[step] dropping unknown check type %q", check.CheckType)
			}
			continue
		}
		byType[tag] = check
	}

	for i := range steps {
		check, ok := byType[steps[i].Tag]
		if !ok {
			continue
		}
		steps[i].Status = mapCheckStatus(check.Status)
		steps[i].CheckID = check.CheckID
		steps[i].Results = check.Results
		steps[i].ResultsDescription = check.ResultsDescription
		if check.Chat != nil {
			steps[i].ChatID = check.Chat.ChatID
		}
		if steps[i].Status == StatusFailed {
			steps[i].Exception = extractException(check.Results)
		}
	}

	return steps
}

func knownCheckType(tag CheckType) bool {
	for _, slot := range slotOrder {
		if slot.tag == tag {
			return true
		}
	}
	return false
}

// extractException pulls results.exception from a failed check's payload.
// Absent or malformed payloads yield an empty string, never a failure.
func extractException(results json.RawMessage) string {
	if len(results) == 0 {
		return ""
	}
	var payload struct {
		Exception string `json:"exception"`
	}
	if err := json.Unmarshal(results, &payload); err != nil {
		return ""
	}
	return payload.Exception
}

// AllTerminal reports whether every check in the response has reached a
// final state. An empty check list is not terminal - the backend has not
// materialized the checks yet.
func AllTerminal(checks []api.Check) bool {
	if len(checks) == 0 {
		return false
	}
	for _, check := range checks {
		if check.Status != "completed" && check.Status != "failed" {
			return false
		}
	}
	return true
}

// HasChat reports whether the step's check has an attached chat session.
func (s Step) HasChat() bool {
	return s.CheckID != 0 && s.ChatID != 0
}

package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"sitecheck/api"
	"sitecheck/config"
	"sitecheck/storage"
)

// FetchCheckups loads the sidebar's checkup list, serving the cache
// unless the caller forces a refetch.
func (m *Model) FetchCheckups(force bool) tea.Cmd {
	client := m.API
	if !force {
		if cached, ok := m.Cache.Get(CacheKeyCheckups); ok {
			checkups := cached.([]api.Checkup)
			return func() tea.Msg {
				return CheckupsListMsg{Checkups: checkups, FromCache: true}
			}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		checkups, err := client.ListCheckups(ctx)
		return CheckupsListMsg{Checkups: checkups, Err: err}
	}
}

// StartCheckup submits a URL for auditing. On success the caller must
// invalidate the cached checkups list so the sidebar reflects the new
// run, then begin polling.
func (m *Model) StartCheckup(url string) tea.Cmd {
	client := m.API
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		checkup, err := client.StartCheckup(ctx, url)
		return CheckupStartedMsg{Checkup: checkup, Err: err}
	}
}

// PollCheckup fetches the current checkup state once. The next poll is
// scheduled only after this one's response is handled, so polls never
// overlap no matter how slow the backend answers.
func (m *Model) PollCheckup() tea.Cmd {
	client := m.API
	checkupID := m.CheckupID
	if checkupID == 0 {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		checkup, err := client.GetCheckup(ctx, checkupID)
		return CheckupPolledMsg{CheckupID: checkupID, Checkup: checkup, Err: err}
	}
}

// SchedulePoll arms the next poll after the given delay. The tick
// carries the checkup id so ticks from an abandoned checkup are inert.
func (m *Model) SchedulePoll(delay time.Duration) tea.Cmd {
	checkupID := m.CheckupID
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return PollTickMsg{CheckupID: checkupID}
	})
}

// DownloadReport fetches the checkup's PDF into the user's home
// directory via the secure temp dir, and records it in the report index.
func (m *Model) DownloadReport() tea.Cmd {
	client := m.API
	reports := m.Reports
	checkupID := m.CheckupID
	url := m.URL

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		tmpPath := filepath.Join(config.GetTempDir(), uuid.New().String()+".pdf")
		f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return ReportSavedMsg{Err: fmt.Errorf("failed to create temp file: %w", err)}
		}

		if err := client.ReportPDF(ctx, checkupID, f); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return ReportSavedMsg{Err: err}
		}
		if err := f.Close(); err != nil {
			os.Remove(tmpPath)
			return ReportSavedMsg{Err: err}
		}

		finalPath := filepath.Join(config.GetHomeDir(), fmt.Sprintf("sitecheck-report-%d.pdf", checkupID))
		if err := os.Rename(tmpPath, finalPath); err != nil {
			// Cross-device rename can fail; fall back to a copy.
			data, readErr := os.ReadFile(tmpPath)
			if readErr != nil {
				return ReportSavedMsg{Err: err}
			}
			if writeErr := os.WriteFile(finalPath, data, 0600); writeErr != nil {
				return ReportSavedMsg{Err: writeErr}
			}
			os.Remove(tmpPath)
		}

		if reports != nil {
			record := storage.Report{
				ID:        uuid.New().String(),
				CheckupID: checkupID,
				URL:       url,
				Path:      finalPath,
			}
			if err := reports.Add(record); err != nil && config.DebugLog != nil {
				config.DebugLog.Printf("[report] failed to index report: %v", err)
			}
		}

		return ReportSavedMsg{Path: finalPath}
	}
}

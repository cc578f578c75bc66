package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-tracker/internal/tracker/config"
	"stock-tracker/internal/tracker/dto"
	"stock-tracker/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUpdater records RunUpdate invocations. Safe for concurrent use since
// the scheduler fires from its own goroutines.
type fakeUpdater struct {
	mu       sync.Mutex
	triggers []string
	err      error
}

func (f *fakeUpdater) RunUpdate(ctx context.Context, triggeredBy string) (*dto.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers = append(f.triggers, triggeredBy)
	if f.err != nil {
		return nil, f.err
	}
	return &dto.UpdateResult{Updated: 1}, nil
}

func (f *fakeUpdater) RunBackfill(ctx context.Context, onlyMissing bool, triggeredBy string) (*dto.BackfillResult, error) {
	return &dto.BackfillResult{}, nil
}

func (f *fakeUpdater) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.triggers)
}

func (f *fakeUpdater) lastTrigger() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.triggers) == 0 {
		return ""
	}
	return f.triggers[len(f.triggers)-1]
}

// fakeNotifier captures sent messages.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeNotifier) lastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

func TestSchedulerService_RunsOnStartup(t *testing.T) {
	t.Parallel()

	updater := &fakeUpdater{}
	cfg := &config.Config{}
	cfg.Updater.UpdateIntervalMinutes = 60
	cfg.Updater.RunOnStartup = true

	svc := NewSchedulerService(updater, nil, logger.NewNop(), cfg)
	svc.Start(context.Background())
	defer svc.Stop()

	assert.Eventually(t, func() bool {
		return updater.runCount() >= 1
	}, 2*time.Second, 10*time.Millisecond, "startup run should fire")
	assert.Equal(t, "startup", updater.lastTrigger())
}

func TestSchedulerService_FiresOnSchedule(t *testing.T) {
	t.Parallel()

	updater := &fakeUpdater{}
	// A zero interval rounds up to cron's one second minimum.
	cfg := &config.Config{}
	cfg.Updater.RunOnStartup = false

	svc := NewSchedulerService(updater, nil, logger.NewNop(), cfg)
	svc.Start(context.Background())
	defer svc.Stop()

	assert.Eventually(t, func() bool {
		return updater.runCount() >= 1
	}, 5*time.Second, 50*time.Millisecond, "scheduled run should fire")
	assert.Equal(t, "scheduled", updater.lastTrigger())
}

func TestSchedulerService_NotifiesOnCompletion(t *testing.T) {
	t.Parallel()

	updater := &fakeUpdater{}
	notifier := &fakeNotifier{}
	cfg := &config.Config{}
	cfg.Updater.UpdateIntervalMinutes = 60
	cfg.Updater.RunOnStartup = true

	svc := NewSchedulerService(updater, notifier, logger.NewNop(), cfg)
	svc.Start(context.Background())
	defer svc.Stop()

	require.Eventually(t, func() bool {
		return notifier.lastMessage() != ""
	}, 2*time.Second, 10*time.Millisecond, "completion report should be sent")

	msg := notifier.lastMessage()
	assert.Contains(t, msg, "Price Update Report")
	assert.Contains(t, msg, "startup")
}

func TestSchedulerService_NotifiesOnFailure(t *testing.T) {
	t.Parallel()

	updater := &fakeUpdater{err: errors.New("provider down")}
	notifier := &fakeNotifier{}
	cfg := &config.Config{}
	cfg.Updater.UpdateIntervalMinutes = 60
	cfg.Updater.RunOnStartup = true

	svc := NewSchedulerService(updater, notifier, logger.NewNop(), cfg)
	svc.Start(context.Background())
	defer svc.Stop()

	require.Eventually(t, func() bool {
		return strings.Contains(notifier.lastMessage(), "ERROR ALERT")
	}, 2*time.Second, 10*time.Millisecond, "failure alert should be sent")
	assert.Contains(t, notifier.lastMessage(), "provider down")
}

func TestSchedulerService_StopWithoutStart(t *testing.T) {
	t.Parallel()

	svc := NewSchedulerService(&fakeUpdater{}, nil, logger.NewNop(), &config.Config{})
	svc.Stop()
}

package application

import (
	"sync"

	"linkbridge/internal/models"
)

type nopLogger struct{}

func (nopLogger) Error(format string, v ...interface{}) {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Debug(format string, v ...interface{}) {}

type fakeGameNotifier struct {
	mu     sync.Mutex
	pushes []models.PermissionSyncRequest
	err    error
}

func (f *fakeGameNotifier) SyncPermissions(req *models.PermissionSyncRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.pushes = append(f.pushes, *req)
	return nil
}

func (f *fakeGameNotifier) pushed() []models.PermissionSyncRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.PermissionSyncRequest, len(f.pushes))
	copy(out, f.pushes)
	return out
}

type fakeRoleProvider struct {
	roles map[string][]string
}

func (f *fakeRoleProvider) MemberRoleIDs(discordID string) ([]string, error) {
	return f.roles[discordID], nil
}

type fakeChatNotifier struct {
	mu     sync.Mutex
	linked []models.AccountLink
}

func (f *fakeChatNotifier) NotifyLinked(link *models.AccountLink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linked = append(f.linked, *link)
}

type fakeRegistry struct {
	mu     sync.Mutex
	online map[string]bool
}

func (f *fakeRegistry) IsOnline(steamID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.online[steamID]
}

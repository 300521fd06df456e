package app

import (
	"path/filepath"
	"testing"
	"time"

	"goal-path/internal/config"
	"goal-path/internal/utils"
)

func testConfig(t *testing.T, mode string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Database.Path = filepath.Join(dir, "goal-path.db")
	cfg.Storage.Mode = mode
	cfg.Storage.LocalPath = filepath.Join(dir, "goal-path.json")
	cfg.Timezone = "Europe/Moscow"
	cfg.StaleTime = time.Minute
	return cfg
}

func TestNewSchedulesJobs(t *testing.T) {
	for _, mode := range []string{config.StoreLocal, config.StoreRemote} {
		t.Run(mode, func(t *testing.T) {
			a, err := New(testConfig(t, mode))
			if err != nil {
				t.Fatal(err)
			}
			defer a.Stop()

			if got := len(a.cron.Entries()); got != 4 {
				t.Errorf("cron entries = %d, want 4", got)
			}
			if (a.db != nil) != (mode == config.StoreRemote) {
				t.Errorf("db opened = %v in %s mode", a.db != nil, mode)
			}
			if a.bot != nil {
				t.Error("bot started without token")
			}
		})
	}
}

func TestStartRotatesMotivation(t *testing.T) {
	a, err := New(testConfig(t, config.StoreLocal))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Start(); err != nil {
		t.Fatal(err)
	}
	defer a.Stop()

	if a.services.Motivation.Current().Quote == "" {
		t.Error("no motivation after start")
	}
	if _, rotated, err := a.services.Motivation.RotateIfNeeded(utils.Now()); err != nil || rotated {
		t.Errorf("rotated twice on the same day: rotated=%v err=%v", rotated, err)
	}
}

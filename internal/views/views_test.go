package views

import (
	"strings"
	"testing"
	"time"

	"goal-path/internal/models"
)

func TestGoalCardRendersCountdown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	card := NewGoalCard(&models.Goal{ID: "1", Title: "Run 10k", Deadline: "2025-12-31", Progress: 0}, now)

	if card.Empty || card.Title != "Run 10k" {
		t.Fatalf("card = %+v", card)
	}
	if card.DaysLeft == nil || *card.DaysLeft <= 0 {
		t.Fatalf("days left = %v", card.DaysLeft)
	}
	if card.Deadline != "31 декабря 2025" {
		t.Errorf("deadline = %q", card.Deadline)
	}
	if card.Countdown != "Осталось 213 дней" {
		t.Errorf("countdown = %q", card.Countdown)
	}

	html := card.HTML()
	for _, want := range []string{"Run 10k", "░░░░░░░░░░ 0%", "Осталось 213 дней"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q:\n%s", want, html)
		}
	}
}

func TestGoalCardExpiredAndMalformed(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	expired := NewGoalCard(&models.Goal{Title: "Run 10k", Deadline: "2025-12-31"}, now)
	if expired.Countdown != "Срок истёк" {
		t.Errorf("expired countdown = %q", expired.Countdown)
	}

	broken := NewGoalCard(&models.Goal{Title: "Run 10k", Deadline: "когда-нибудь"}, now)
	if broken.Deadline != "когда-нибудь" || broken.DaysLeft != nil || broken.Countdown != "" {
		t.Errorf("malformed deadline card = %+v", broken)
	}

	if !NewGoalCard(nil, now).Empty {
		t.Error("nil goal should render the empty card")
	}
}

func TestTaskListSplitsCompleted(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Title: "Stretch", Status: models.Completed, Date: "2025-06-01"},
		{ID: "2", Title: "Read", Status: models.InProgress, Date: "2025-06-01"},
	}
	list := NewTaskList("2025-06-01", tasks)

	if len(list.Active) != 1 || list.Active[0].ID != "2" {
		t.Errorf("active = %+v", list.Active)
	}
	if len(list.Completed) != 1 || list.Completed[0].ID != "1" {
		t.Errorf("completed = %+v", list.Completed)
	}
	if !strings.Contains(list.HTML(), "<s>Stretch</s>") {
		t.Errorf("completed task not struck through:\n%s", list.HTML())
	}
	if strings.Contains(list.HTML(), "<s>Read</s>") {
		t.Error("active task struck through")
	}
}

func TestTaskLineEscapesTitle(t *testing.T) {
	line := TaskLine(models.Task{ID: "1", Title: "<b>x</b> & y", Status: models.NotStarted})
	if strings.Contains(line, "<b>x</b>") || !strings.Contains(line, "&amp;") {
		t.Errorf("title not escaped: %s", line)
	}
}

func TestReflectionPrompt(t *testing.T) {
	morning := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	if p := NewReflectionPrompt(morning, false); p.Title != "Планирование дня" || p.Evening {
		t.Errorf("morning prompt = %+v", p)
	}
	if p := NewReflectionPrompt(evening, false); p.Title != "Вечерняя рефлексия" || !p.Evening {
		t.Errorf("evening prompt = %+v", p)
	}
	if p := NewReflectionPrompt(evening, true); p.Visible || p.HTML() != "" {
		t.Errorf("prompt shown after reflection: %+v", p)
	}
}

func TestStatsRenderedVerbatim(t *testing.T) {
	html := StatsHTML(models.CompletionRate{TotalTasks: 3, CompletedTasks: 1, CompletionRate: 33})
	for _, want := range []string{"Всего задач: 3", "Выполнено: 1", "Выполнение: 33%"} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in %s", want, html)
		}
	}
}

func TestProgressBarClamps(t *testing.T) {
	tests := map[int]string{
		0:   "░░░░░░░░░░ 0%",
		35:  "▓▓▓░░░░░░░ 35%",
		100: "▓▓▓▓▓▓▓▓▓▓ 100%",
		150: "▓▓▓▓▓▓▓▓▓▓ 100%",
	}
	for in, want := range tests {
		if got := ProgressBar(in); got != want {
			t.Errorf("ProgressBar(%d) = %q, want %q", in, got, want)
		}
	}
}

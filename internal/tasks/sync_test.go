package tasks_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"goal-path/internal/models"
	"goal-path/internal/tasks"
	"goal-path/internal/testutil"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newSync(t *testing.T) (*tasks.Sync, *testutil.FakeBackend, *testutil.RecordingNotifier, *fakeClock) {
	t.Helper()
	backend := testutil.NewFakeBackend()
	notifier := &testutil.RecordingNotifier{}
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	s := tasks.New(backend, notifier, tasks.Options{Now: clock.Now})
	t.Cleanup(s.Wait)
	return s, backend, notifier, clock
}

func ids(list []models.Task) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestListByDateAndByParent(t *testing.T) {
	s, backend, _, _ := newSync(t)
	ctx := context.Background()

	parent := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})
	sub := backend.Seed(models.NewTask{Title: "Neck", ParentID: parent.ID})
	backend.Seed(models.NewTask{Title: "Tomorrow", Date: "2025-06-02"})

	day, err := s.Scope(tasks.ByDate("2025-06-01")).List(ctx)
	if err != nil {
		t.Fatalf("List by date: %v", err)
	}
	if len(day) != 1 || day[0].ID != parent.ID {
		t.Errorf("date listing = %v, want [%s]", ids(day), parent.ID)
	}

	subs, err := s.Scope(tasks.ByParent(parent.ID)).List(ctx)
	if err != nil {
		t.Fatalf("List by parent: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != sub.ID {
		t.Errorf("parent listing = %v, want [%s]", ids(subs), sub.ID)
	}
}

func TestListServesFreshCacheWithoutBackendCall(t *testing.T) {
	s, backend, _, clock := newSync(t)
	ctx := context.Background()
	backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	filter := models.TaskFilter{Date: "2025-06-01"}

	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}
	clock.Advance(30 * time.Second)
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}
	if got := backend.Calls(filter); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
}

func TestListStaleWhileRevalidate(t *testing.T) {
	s, backend, _, clock := newSync(t)
	ctx := context.Background()
	first := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	filter := models.TaskFilter{Date: "2025-06-01"}
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}

	// written behind the cache's back
	second := backend.Seed(models.NewTask{Title: "Run", Date: "2025-06-01"})
	clock.Advance(tasks.DefaultStaleTime + time.Second)

	stale, err := scope.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || stale[0].ID != first.ID {
		t.Errorf("stale read = %v, want cached [%s]", ids(stale), first.ID)
	}

	s.Wait()
	if got := backend.Calls(filter); got != 2 {
		t.Errorf("backend calls = %d, want 2", got)
	}

	fresh, err := scope.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 2 || fresh[1].ID != second.ID {
		t.Errorf("after revalidation = %v", ids(fresh))
	}
	if got := backend.Calls(filter); got != 2 {
		t.Errorf("fresh read hit backend: calls = %d", got)
	}
}

func TestAddThenListIncludesTaskOnceAndLast(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	ctx := context.Background()
	backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}

	added, err := scope.Add(ctx, models.NewTask{Title: "Run"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.Status != models.NotStarted || added.Date != "2025-06-01" {
		t.Errorf("added = %+v", added)
	}
	if n := notifier.Last(); n.Level != tasks.Success || n.Text != "Задача добавлена" {
		t.Errorf("notification = %+v", n)
	}

	list, err := scope.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, task := range list {
		if task.ID == added.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("new task appears %d times", count)
	}
	if list[len(list)-1].ID != added.ID {
		t.Errorf("new task not last: %v", ids(list))
	}
}

func TestAddSubtaskInvalidatesOnlyParentSelector(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	ctx := context.Background()
	parent := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	day := s.Scope(tasks.ByDate("2025-06-01"))
	subs := s.Scope(tasks.ByParent(parent.ID))
	if _, err := day.List(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := subs.List(ctx); err != nil {
		t.Fatal(err)
	}

	sub, err := subs.Add(ctx, models.NewTask{Title: "Neck"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sub.ParentID != parent.ID {
		t.Errorf("subtask parent = %q", sub.ParentID)
	}
	if n := notifier.Last(); n.Text != "Подзадача добавлена" {
		t.Errorf("notification = %+v", n)
	}

	if _, err := day.List(ctx); err != nil {
		t.Fatal(err)
	}
	list, err := subs.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := backend.Calls(models.TaskFilter{Date: "2025-06-01"}); got != 1 {
		t.Errorf("date selector refetched: calls = %d", got)
	}
	if got := backend.Calls(models.TaskFilter{ParentID: parent.ID}); got != 2 {
		t.Errorf("parent selector calls = %d, want 2", got)
	}
	if len(list) != 1 || list[0].ID != sub.ID {
		t.Errorf("subtasks = %v", ids(list))
	}
}

func TestAddFailureNotifiesAndKeepsCache(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	ctx := context.Background()
	backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}

	backend.InsertErr = testutil.ErrBackendDown
	_, err := scope.Add(ctx, models.NewTask{Title: "Run"})
	if !errors.Is(err, tasks.ErrRemoteOperationFailed) || !errors.Is(err, testutil.ErrBackendDown) {
		t.Fatalf("err = %v", err)
	}
	if n := notifier.Last(); n.Level != tasks.Failure || n.Text != "Не удалось добавить задачу" {
		t.Errorf("notification = %+v", n)
	}

	list, err := scope.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("cache changed after failed add: %v", ids(list))
	}
	if got := backend.Calls(models.TaskFilter{Date: "2025-06-01"}); got != 1 {
		t.Errorf("failed add invalidated cache: calls = %d", got)
	}
}

func TestAddValidatesBeforeRemoteCall(t *testing.T) {
	s, _, notifier, _ := newSync(t)

	_, err := s.Scope(tasks.ByDate("2025-06-01")).Add(context.Background(), models.NewTask{Title: "  "})
	if !errors.Is(err, models.ErrEmptyTitle) {
		t.Errorf("err = %v, want ErrEmptyTitle", err)
	}
	if errors.Is(err, tasks.ErrRemoteOperationFailed) {
		t.Error("validation error reported as remote failure")
	}
	if len(notifier.All()) != 0 {
		t.Errorf("unexpected notifications: %+v", notifier.All())
	}
}

func TestNestedSubtaskRejected(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	parent := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})
	sub := backend.Seed(models.NewTask{Title: "Neck", ParentID: parent.ID})

	_, err := s.Scope(tasks.ByParent(sub.ID)).Add(context.Background(), models.NewTask{Title: "Deeper"})
	if !errors.Is(err, models.ErrNestedSubtask) {
		t.Errorf("err = %v, want ErrNestedSubtask", err)
	}
	if n := notifier.Last(); n.Text != "Не удалось добавить подзадачу" {
		t.Errorf("notification = %+v", n)
	}
}

func TestStretchScenario(t *testing.T) {
	s, _, _, _ := newSync(t)
	ctx := context.Background()
	scope := s.Scope(tasks.ByDate("2025-06-01"))

	task, err := scope.Add(ctx, models.NewTask{Title: "Stretch", Date: "2025-06-01", Status: models.NotStarted})
	if err != nil {
		t.Fatal(err)
	}
	status := models.Completed
	if _, err := scope.Update(ctx, models.TaskPatch{ID: task.ID, Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	list, err := scope.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Status != models.Completed {
		t.Errorf("list after update = %+v", list)
	}
}

func TestToggleTwiceRestoresStatus(t *testing.T) {
	s, backend, _, _ := newSync(t)
	ctx := context.Background()
	task := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})
	scope := s.Scope(tasks.ByDate("2025-06-01"))

	once, err := scope.Toggle(ctx, task)
	if err != nil {
		t.Fatal(err)
	}
	if once.Status != models.Completed {
		t.Errorf("after one toggle = %s", once.Status)
	}
	twice, err := scope.Toggle(ctx, once)
	if err != nil {
		t.Fatal(err)
	}
	if twice.Status != task.Status || twice.Title != task.Title || twice.Date != task.Date {
		t.Errorf("after two toggles = %+v, want %+v", twice, task)
	}
}

func TestPostponeMovesTaskToOtherDate(t *testing.T) {
	s, backend, _, _ := newSync(t)
	ctx := context.Background()
	task := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	today := s.Scope(tasks.ByDate("2025-06-01"))
	if _, err := today.List(ctx); err != nil {
		t.Fatal(err)
	}
	moved, err := today.Postpone(ctx, task.ID, "2025-06-03")
	if err != nil {
		t.Fatalf("Postpone: %v", err)
	}
	if moved.Status != models.Postponed || moved.Date != "2025-06-03" {
		t.Errorf("moved = %+v", moved)
	}

	left, _ := today.List(ctx)
	target, _ := s.Scope(tasks.ByDate("2025-06-03")).List(ctx)
	if len(left) != 0 || len(target) != 1 {
		t.Errorf("today = %v, target = %v", ids(left), ids(target))
	}
}

func TestDeleteRemovesFromAllSelectors(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	ctx := context.Background()
	task := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})
	backend.Seed(models.NewTask{Title: "Neck", ParentID: task.ID})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}
	if err := scope.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if n := notifier.Last(); n.Text != "Задача удалена" {
		t.Errorf("notification = %+v", n)
	}

	for _, sel := range []tasks.Selector{tasks.ByDate("2025-06-01"), tasks.ByParent(task.ID), tasks.ByDate("2025-06-02")} {
		list, err := s.Scope(sel).List(ctx)
		if err != nil {
			t.Fatal(err)
		}
		for _, got := range list {
			if got.ID == task.ID {
				t.Errorf("%s still lists deleted task", sel)
			}
		}
	}
	if list, _ := s.Scope(tasks.ByParent(task.ID)).List(ctx); len(list) != 0 {
		t.Errorf("subtasks of deleted task remain: %v", ids(list))
	}
}

func TestInvalidationBeatsInFlightRevalidation(t *testing.T) {
	s, backend, _, clock := newSync(t)
	ctx := context.Background()
	backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	backend.SetListHook(func() error {
		once.Do(func() {
			close(started)
			<-release
		})
		return nil
	})

	clock.Advance(tasks.DefaultStaleTime)
	if _, err := scope.List(ctx); err != nil {
		t.Fatal(err)
	}
	<-started

	added, err := scope.Add(ctx, models.NewTask{Title: "Run"})
	if err != nil {
		t.Fatal(err)
	}
	close(release)
	s.Wait()

	list, err := scope.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[1].ID != added.ID {
		t.Errorf("pre-mutation data reinstalled: %v", ids(list))
	}
}

func TestListFailureNotifies(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	backend.ListErr = testutil.ErrBackendDown

	_, err := s.Scope(tasks.ByDate("2025-06-01")).List(context.Background())
	if !errors.Is(err, tasks.ErrRemoteOperationFailed) {
		t.Errorf("err = %v", err)
	}
	if n := notifier.Last(); n.Level != tasks.Failure || n.Text != "Не удалось загрузить задачи" {
		t.Errorf("notification = %+v", n)
	}
}

func TestStatsScenario(t *testing.T) {
	s, backend, _, _ := newSync(t)
	backend.Seed(models.NewTask{Title: "A", Date: "2025-06-01", Status: models.Completed})
	backend.Seed(models.NewTask{Title: "B", Date: "2025-06-01"})
	backend.Seed(models.NewTask{Title: "C", Date: "2025-06-01"})

	stats, err := s.Stats(context.Background(), "2025-06-01")
	if err != nil {
		t.Fatal(err)
	}
	want := models.CompletionRate{TotalTasks: 3, CompletedTasks: 1, CompletionRate: 33}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestLocateReturnsOwningScope(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	parent := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})
	sub := backend.Seed(models.NewTask{Title: "Neck", ParentID: parent.ID})

	_, scope, err := s.Locate(context.Background(), sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if scope.Selector() != tasks.ByParent(parent.ID) {
		t.Errorf("selector = %v", scope.Selector())
	}

	if _, _, err := s.Locate(context.Background(), "missing"); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("err = %v", err)
	}
	if n := notifier.Last(); n.Level != tasks.Failure {
		t.Errorf("notification = %+v", n)
	}
}

func TestCancelledCallerDoesNotFailSharedList(t *testing.T) {
	s, backend, notifier, _ := newSync(t)
	task := backend.Seed(models.NewTask{Title: "Stretch", Date: "2025-06-01"})

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	backend.SetListHook(func() error {
		once.Do(func() { close(started) })
		<-release
		return nil
	})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := scope.List(ctxA)
		errA <- err
	}()
	<-started

	type result struct {
		list []models.Task
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		list, err := scope.List(context.Background())
		resB <- result{list, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	err := <-errA
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller err = %v, want context.Canceled", err)
	}
	if errors.Is(err, tasks.ErrRemoteOperationFailed) {
		t.Error("cancellation reported as remote failure")
	}
	close(release)

	b := <-resB
	if b.err != nil {
		t.Fatalf("live caller err = %v", b.err)
	}
	if len(b.list) != 1 || b.list[0].ID != task.ID {
		t.Errorf("live caller list = %v", ids(b.list))
	}
	if got := len(notifier.All()); got != 0 {
		t.Errorf("notifications = %d, want none", got)
	}
}

func TestSharedListFailureNotifiesOnce(t *testing.T) {
	s, backend, notifier, _ := newSync(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	backend.SetListHook(func() error {
		once.Do(func() { close(started) })
		<-release
		return testutil.ErrBackendDown
	})

	scope := s.Scope(tasks.ByDate("2025-06-01"))
	errs := make(chan error, 2)
	go func() {
		_, err := scope.List(context.Background())
		errs <- err
	}()
	<-started
	go func() {
		_, err := scope.List(context.Background())
		errs <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	for i := 0; i < 2; i++ {
		if err := <-errs; !errors.Is(err, tasks.ErrRemoteOperationFailed) {
			t.Errorf("caller %d err = %v", i, err)
		}
	}
	calls := backend.Calls(models.TaskFilter{Date: "2025-06-01"})
	if got := len(notifier.All()); got != calls {
		t.Errorf("notifications = %d for %d backend calls", got, calls)
	}
}

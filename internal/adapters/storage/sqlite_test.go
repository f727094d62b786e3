package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestTaskRepository_SaveAndFind(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task, _ := domain.NewTask("Write report")
	task.SetEstimate(4)
	if err := repo.Save(ctx, task); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	found, err := repo.FindByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Write report" {
		t.Errorf("Title = %q", found.Title)
	}
	if found.Color != domain.DefaultTaskColor {
		t.Errorf("Color = %q", found.Color)
	}
	if found.EstimatedPomodoros == nil || *found.EstimatedPomodoros != 4 {
		t.Errorf("EstimatedPomodoros = %v, want 4", found.EstimatedPomodoros)
	}

	t.Run("missing task", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "nope")
		if !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskRepository_IncrementCompleted(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task, _ := domain.NewTask("Count")
	_ = repo.Save(ctx, task)

	for i := 0; i < 3; i++ {
		if err := repo.IncrementCompleted(ctx, task.ID); err != nil {
			t.Fatalf("IncrementCompleted() error = %v", err)
		}
	}

	found, _ := repo.FindByID(ctx, task.ID)
	if found.CompletedPomodoros != 3 {
		t.Errorf("CompletedPomodoros = %d, want 3", found.CompletedPomodoros)
	}
	if found.Status != domain.StatusInProgress {
		t.Errorf("Status = %v, want in_progress", found.Status)
	}

	if err := repo.IncrementCompleted(ctx, "missing"); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("IncrementCompleted(missing) error = %v", err)
	}
}

func TestTaskRepository_FindAllAndCount(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	a, _ := domain.NewTask("Alpha")
	b, _ := domain.NewTask("Beta")
	c, _ := domain.NewTask("Gamma")
	c.Complete()
	for _, task := range []*domain.Task{a, b, c} {
		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	all, err := repo.FindAll(ctx, nil)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(FindAll) = %d, want 3", len(all))
	}

	completed := domain.StatusCompleted
	done, _ := repo.FindAll(ctx, &completed)
	if len(done) != 1 || done[0].ID != c.ID {
		t.Errorf("FindAll(completed) = %v", done)
	}

	n, err := repo.CountCompleted(ctx)
	if err != nil || n != 1 {
		t.Errorf("CountCompleted() = %d, %v; want 1", n, err)
	}
}

func TestTaskRepository_FindByTitle(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	for _, title := range []string{"Refactor parser", "Review pull request", "Write docs"} {
		task, _ := domain.NewTask(title)
		_ = repo.Save(ctx, task)
	}
	done, _ := domain.NewTask("Refactor lexer")
	done.Complete()
	_ = repo.Save(ctx, done)

	matches, err := repo.FindByTitle(ctx, "refpar")
	if err != nil {
		t.Fatalf("FindByTitle() error = %v", err)
	}
	if len(matches) == 0 || matches[0].Title != "Refactor parser" {
		t.Fatalf("FindByTitle(refpar) = %v", matches)
	}
	for _, m := range matches {
		if m.IsCompleted() {
			t.Errorf("completed task %q should not match", m.Title)
		}
	}
}

func TestTaskRepository_UpdateAndDelete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task, _ := domain.NewTask("Edit me")
	_ = repo.Save(ctx, task)

	task.Title = "Edited"
	_ = task.SetColor("#10B981")
	task.Complete()
	if err := repo.Update(ctx, task); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := repo.FindByID(ctx, task.ID)
	if found.Title != "Edited" || found.Color != "#10B981" || found.CompletedAt == nil {
		t.Errorf("updated task = %+v", found)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTaskNotFound", err)
	}
}

func TestSessionRepository_SaveAndTotals(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Sessions()

	task, _ := domain.NewTask("Linked")
	_ = storage.Tasks().Save(ctx, task)

	now := time.Now()
	old, _ := domain.NewSessionRecord(domain.SessionTypeWork, 25, nil)
	old.CompletedAt = now.AddDate(0, 0, -3)
	linked, _ := domain.NewSessionRecord(domain.SessionTypeWork, 50, &task.ID)
	linked.SetGitContext("main", "abc1234")
	brk, _ := domain.NewSessionRecord(domain.SessionTypeShortBreak, 5, nil)

	for _, rec := range []*domain.SessionRecord{old, linked, brk} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	count, minutes, err := repo.Totals(ctx, domain.SessionTypeWork, time.Time{})
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if count != 2 || minutes != 75 {
		t.Errorf("Totals(all) = %d, %d; want 2, 75", count, minutes)
	}

	count, minutes, _ = repo.Totals(ctx, domain.SessionTypeWork, now.Add(-time.Hour))
	if count != 1 || minutes != 50 {
		t.Errorf("Totals(recent) = %d, %d; want 1, 50", count, minutes)
	}

	recent, err := repo.FindRecent(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("FindRecent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("len(FindRecent) = %d, want 2", len(recent))
	}

	byTask, _ := repo.FindByTask(ctx, task.ID)
	if len(byTask) != 1 || byTask[0].GitBranch != "main" || byTask[0].GitCommit != "abc1234" {
		t.Errorf("FindByTask() = %+v", byTask)
	}
}

func TestSessionRepository_TaskDeleteKeepsHistory(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	task, _ := domain.NewTask("Temporary")
	_ = storage.Tasks().Save(ctx, task)
	rec, _ := domain.NewSessionRecord(domain.SessionTypeWork, 25, &task.ID)
	_ = storage.Sessions().Save(ctx, rec)

	if err := storage.Tasks().Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	recent, _ := storage.Sessions().FindRecent(ctx, time.Now().Add(-time.Hour))
	if len(recent) != 1 || recent[0].TaskID != nil {
		t.Errorf("record after task delete = %+v", recent)
	}
}

func TestGoalRepository_Increment(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Goals()

	missing, err := repo.Find(ctx, "2026-03-01")
	if err != nil || missing != nil {
		t.Errorf("Find(missing) = %v, %v", missing, err)
	}

	var g *domain.DailyGoal
	for i := 0; i < 3; i++ {
		g, err = repo.Increment(ctx, "2026-03-01", 8)
		if err != nil {
			t.Fatalf("Increment() error = %v", err)
		}
	}
	if g.Completed != 3 || g.Target != 8 {
		t.Errorf("goal = %+v, want 3/8", g)
	}

	// Target is fixed when the day is created.
	g, _ = repo.Increment(ctx, "2026-03-01", 4)
	if g.Target != 8 || g.Completed != 4 {
		t.Errorf("goal after target change = %+v", g)
	}

	_, _ = repo.Increment(ctx, "2026-02-28", 8)
	all, _ := repo.FindAll(ctx)
	if len(all) != 2 || all[0].Date != "2026-02-28" {
		t.Errorf("FindAll() = %+v", all)
	}
}

func TestAchievementRepository_Unlock(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Achievements()

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first, err := repo.Unlock(ctx, "first_pomodoro", at)
	if err != nil || !first {
		t.Fatalf("Unlock() = %v, %v; want true", first, err)
	}
	again, err := repo.Unlock(ctx, "first_pomodoro", at.Add(time.Hour))
	if err != nil || again {
		t.Errorf("second Unlock() = %v, %v; want false, nil", again, err)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if got, ok := all["first_pomodoro"]; !ok || !got.Equal(at) {
		t.Errorf("unlocked at = %v, want %v", got, at)
	}
}

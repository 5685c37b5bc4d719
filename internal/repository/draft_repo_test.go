package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mamunbiswass/school-management/internal/admission"
)

func TestMemoryDraftRepo_SaveGetDelete(t *testing.T) {
	repo := NewMemoryDraftRepo(time.Hour)
	ctx := context.Background()

	draft := &admission.Draft{ID: "d-1", State: admission.NewState()}
	draft.State.Form[admission.FieldName] = "Asha"
	if err := repo.Save(ctx, draft); err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}

	draft.State.Form[admission.FieldName] = "changed"
	got, err := repo.Get(ctx, "d-1")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if got.State.Form[admission.FieldName] != "Asha" {
		t.Errorf("保存后外部修改不应影响存储，实际 %s", got.State.Form[admission.FieldName])
	}

	if err := repo.Delete(ctx, "d-1"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, err := repo.Get(ctx, "d-1"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("删除后期望 ErrDraftNotFound，实际: %v", err)
	}
}

func TestMemoryDraftRepo_Expires(t *testing.T) {
	repo := NewMemoryDraftRepo(time.Minute).(*memoryDraftRepo)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	if err := repo.Save(context.Background(), &admission.Draft{ID: "d-2", State: admission.NewState()}); err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := repo.Get(context.Background(), "d-2"); !errors.Is(err, ErrDraftNotFound) {
		t.Errorf("过期草稿期望 ErrDraftNotFound，实际: %v", err)
	}
}

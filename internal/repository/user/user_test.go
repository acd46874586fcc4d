package user

import (
	"context"
	"errors"
	"testing"

	"foodorder/internal/domain"
	"foodorder/internal/repository/pgtest"
)

func TestPostgres_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(ctx, t)
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.User{
		Name:         "Asha",
		Email:        "Asha@Example.com",
		Phone:        "9876543210",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" || created.Email != "asha@example.com" || created.Role != domain.RoleUser {
		t.Fatalf("unexpected user %+v", created)
	}

	byEmail, err := repo.GetByLogin(ctx, "ASHA@example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Fatalf("GetByLogin email: %+v %v", byEmail, err)
	}
	byPhone, err := repo.GetByLogin(ctx, "9876543210")
	if err != nil || byPhone.ID != created.ID {
		t.Fatalf("GetByLogin phone: %+v %v", byPhone, err)
	}
	if _, err := repo.GetByLogin(ctx, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty login, got %v", err)
	}

	if _, err := repo.Create(ctx, domain.User{Name: "Dup", Email: "asha@example.com", PasswordHash: "x"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestPostgres_UpdateDeleteCount(t *testing.T) {
	ctx := context.Background()
	pool := pgtest.Pool(ctx, t)
	repo := NewPostgres(pool, nil)

	u, err := repo.Create(ctx, domain.User{Name: "Ravi", Email: "ravi@example.com", PasswordHash: "old"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	u.Name = "Ravi K"
	u.PasswordHash = ""
	updated, err := repo.Update(ctx, *u)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Ravi K" || updated.PasswordHash != "old" {
		t.Fatalf("unexpected update result %+v", updated)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 0 {
		t.Fatalf("List = %+v, %v", list, err)
	}
}

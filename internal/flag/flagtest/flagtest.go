// Package flagtest holds the behaviour every flag.Store backend must share.
package flagtest

import (
	"aperturelab/internal/flag"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

// RoundTrip writes, overwrites and deletes quizCompleted for fresh learner
// ids, so it can run against a shared Redis or MongoDB.
func RoundTrip(t *testing.T, s flag.Store) {
	t.Helper()
	ctx := context.Background()
	id := "l_" + uuid.New().String()[:8]
	other := "l_" + uuid.New().String()[:8]

	done, err := flag.QuizCompleted(ctx, s, id)
	if err != nil || done {
		t.Fatalf("fresh learner: done=%v err=%v", done, err)
	}

	if err := flag.MarkQuizCompleted(ctx, s, id); err != nil {
		t.Fatalf("MarkQuizCompleted: %v", err)
	}
	v, ok, err := s.Get(ctx, id, flag.QuizCompletedKey)
	if err != nil || !ok || v != "true" {
		t.Errorf("Get: got %q ok=%v err=%v, want \"true\"", v, ok, err)
	}
	if done, _ := flag.QuizCompleted(ctx, s, other); done {
		t.Error("flag leaked to another learner")
	}

	// overwrite keeps a single value
	if err := s.Set(ctx, id, flag.QuizCompletedKey, "false"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if done, _ := flag.QuizCompleted(ctx, s, id); done {
		t.Error("non-true value should read as unset")
	}

	if err := flag.ClearQuizCompleted(ctx, s, id); err != nil {
		t.Fatalf("ClearQuizCompleted: %v", err)
	}
	if _, ok, _ := s.Get(ctx, id, flag.QuizCompletedKey); ok {
		t.Error("flag still present after delete")
	}
	if err := flag.ClearQuizCompleted(ctx, s, id); err != nil {
		t.Errorf("deleting an absent flag: %v", err)
	}
	if err := flag.ClearQuizCompleted(ctx, s, other); err != nil {
		t.Errorf("deleting for an unknown learner: %v", err)
	}
}

// EmptyKeys checks that empty learner ids and keys are refused
func EmptyKeys(t *testing.T, s flag.Store) {
	t.Helper()
	ctx := context.Background()
	if _, _, err := s.Get(ctx, "", flag.QuizCompletedKey); !errors.Is(err, flag.ErrInvalidKey) {
		t.Errorf("Get: got %v, want ErrInvalidKey", err)
	}
	if err := s.Set(ctx, "l_1", "", "x"); !errors.Is(err, flag.ErrInvalidKey) {
		t.Errorf("Set: got %v, want ErrInvalidKey", err)
	}
	if err := s.Delete(ctx, "", flag.QuizCompletedKey); !errors.Is(err, flag.ErrInvalidKey) {
		t.Errorf("Delete: got %v, want ErrInvalidKey", err)
	}
}

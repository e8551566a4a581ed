package cache

import (
	"aperturelab/internal/model"
	"context"
	"testing"
)

func TestMemoryLearnerCache(t *testing.T) {
	testLearnerCache(t, NewMemoryLearnerCache(), "l_1")
}

func testLearnerCache(t *testing.T, c LearnerCache, id string) {
	t.Helper()
	ctx := context.Background()

	got, err := c.GetLesson(ctx, id)
	if err != nil || got != nil {
		t.Fatalf("empty cache: got %v, %v", got, err)
	}

	sel := 2
	in := &model.LessonState{Current: 3, Completed: []int{0, 1, 2}, Selected: &sel, QuizCompleted: true}
	if err := c.SetLesson(ctx, id, in); err != nil {
		t.Fatalf("SetLesson: %v", err)
	}
	in.Completed[0] = 99

	got, err = c.GetLesson(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("GetLesson: %v, %v", got, err)
	}
	if got.Current != 3 || got.Completed[0] != 0 || *got.Selected != 2 {
		t.Errorf("lesson: %+v", got)
	}
	if got.QuizCompleted {
		t.Error("quiz flag must not be cached with the lesson state")
	}

	q := &model.QuizRunState{Flavor: model.FlavorMatch, Current: 1, Attempts: []int{2, 0}}
	if err := c.SetQuiz(ctx, id, q); err != nil {
		t.Fatalf("SetQuiz: %v", err)
	}
	if other, _ := c.GetQuiz(ctx, id, model.FlavorChallenge); other != nil {
		t.Error("flavors should be stored separately")
	}
	gotQ, err := c.GetQuiz(ctx, id, model.FlavorMatch)
	if err != nil || gotQ == nil || gotQ.Current != 1 || gotQ.Attempts[0] != 2 {
		t.Errorf("GetQuiz: %+v, %v", gotQ, err)
	}

	if err := c.DeleteQuiz(ctx, id, model.FlavorMatch); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	if gotQ, _ := c.GetQuiz(ctx, id, model.FlavorMatch); gotQ != nil {
		t.Error("quiz state still present after delete")
	}
}

package lesson

import "aperturelab/internal/model"

// View derives the render-ready form of a state
func (e *Engine) View(s model.LessonState) *model.LessonView {
	st := e.step(s)
	topic := e.topics[st.TopicIndex]

	nav := make([]model.TopicNav, len(e.topics))
	for i, t := range e.topics {
		done := true
		for j := e.topicFirst[i]; j <= e.topicLast[i]; j++ {
			if !s.IsCompleted(j) {
				done = false
				break
			}
		}
		nav[i] = model.TopicNav{
			Index:  i,
			ID:     t.ID,
			Title:  t.Title,
			Active: i == st.TopicIndex,
			Locked: !e.CanAccessTopic(s, i),
			Done:   done,
		}
	}

	completed := make([]int, len(s.Completed))
	copy(completed, s.Completed)

	v := &model.LessonView{
		Step:            st,
		TotalSteps:      len(e.steps),
		Topic:           &topic,
		Topics:          nav,
		Completed:       completed,
		Revealed:        s.Revealed,
		Feedback:        e.Feedback(s),
		CanAdvance:      e.CanAdvance(s),
		CanGoBack:       s.Current > 0,
		CanReveal:       st.Phase == model.PhaseQuickCheck && s.Selected != nil && !s.Revealed,
		IsTerminal:      e.IsTerminal(s),
		NextAction:      model.NextAdvance,
		ProgressPercent: e.ProgressPercent(s),
		AllLessonsDone:  e.AllLessonsDone(s),
		QuizCompleted:   s.QuizCompleted,
	}
	if s.Selected != nil {
		sel := *s.Selected
		v.SelectedOption = &sel
	}
	if v.IsTerminal {
		v.NextAction = model.NextQuiz
		v.QuizURL = e.quizURL
	}
	return v
}

package rest

import (
	"aperturelab/internal/cache"
	"aperturelab/internal/catalog"
	"aperturelab/internal/config"
	"aperturelab/internal/flag"
	"aperturelab/internal/model"
	"aperturelab/internal/repository"
	"aperturelab/internal/service"
	"aperturelab/internal/transport/ws"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	catSvc, err := service.NewCatalogService(cat, "")
	if err != nil {
		t.Fatal(err)
	}
	learnerCache := cache.NewMemoryLearnerCache()
	flags := flag.NewMemory()
	auth := service.NewAuthService("router-test-secret", time.Hour)
	lessons := service.NewLessonService(catSvc, learnerCache, flags, auth, nil)
	quizzes := service.NewQuizService(catSvc, learnerCache, repository.NewMemoryAttemptRepo(), flags, false, nil)
	hub := ws.NewHub(nil)
	t.Cleanup(hub.Close)
	t.Cleanup(quizzes.Close)

	return NewRouter(&Container{
		AuthService:    auth,
		CatalogService: catSvc,
		LessonService:  lessons,
		QuizService:    quizzes,
		WSHub:          hub,
		CORS:           config.CORS{Origins: "https://lab.example"},
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, "POST", "/v1/sessions", "", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/sessions = %d: %s", rec.Code, rec.Body.String())
	}
	var resp model.StartSessionResponse
	decode(t, rec, &resp)
	return resp.Token
}

func TestSessionResume(t *testing.T) {
	h := newTestRouter(t)

	var owner, other model.StartSessionResponse
	decode(t, do(t, h, "POST", "/v1/sessions", "", ""), &owner)
	decode(t, do(t, h, "POST", "/v1/sessions", "", ""), &other)
	body := `{"learnerId":"` + owner.LearnerID + `"}`

	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"foreign id without token", "", body, http.StatusUnauthorized},
		{"foreign id with another learner's token", other.Token, body, http.StatusUnauthorized},
		{"own token in header", owner.Token, body, http.StatusCreated},
		{"own token in body", "", `{"learnerId":"` + owner.LearnerID + `","token":"` + owner.Token + `"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/v1/sessions", tt.token, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusCreated {
				return
			}
			var resp model.StartSessionResponse
			decode(t, rec, &resp)
			if resp.LearnerID != owner.LearnerID || resp.Token == "" {
				t.Errorf("resumed %q, want %q", resp.LearnerID, owner.LearnerID)
			}
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"health", "/health", http.StatusOK, ""},
		{"topics", "/v1/topics", http.StatusOK, ""},
		{"topic", "/v1/topics/iso", http.StatusOK, ""},
		{"missing topic", "/v1/topics/nope", http.StatusNotFound, "topic_not_found"},
		{"ranges", "/v1/settings/ranges", http.StatusOK, ""},
		{"effects", "/v1/effects?iso=400&aperture=2.8&shutterSpeed=60", http.StatusOK, ""},
		{"effects not numeric", "/v1/effects?iso=abc&aperture=2.8&shutterSpeed=60", http.StatusBadRequest, "invalid_setting"},
		{"effects missing param", "/v1/effects?iso=400", http.StatusBadRequest, "invalid_setting"},
		{"snap", "/v1/effects/snap?field=aperture&value=3", http.StatusOK, ""},
		{"docs", "/v1/docs/doc.json", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "GET", tt.path, "", "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if !json.Valid(rec.Body.Bytes()) {
				t.Errorf("body is not JSON: %s", rec.Body.String())
			}
			if tt.code != "" {
				var body map[string]string
				decode(t, rec, &body)
				if body["code"] != tt.code {
					t.Errorf("code = %q, want %q", body["code"], tt.code)
				}
			}
		})
	}
}

func TestEffectsBody(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, "GET", "/v1/effects?iso=1600&aperture=2.8&shutterSpeed=60&context=simulator", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Filter string `json:"filter"`
		Labels struct {
			Noise string `json:"noise"`
		} `json:"labels"`
	}
	decode(t, rec, &body)
	if !strings.HasPrefix(body.Filter, "brightness(") || body.Labels.Noise == "" {
		t.Errorf("unexpected effect body %s", rec.Body.String())
	}
}

func TestLearnerRoutesRequireToken(t *testing.T) {
	h := newTestRouter(t)
	for _, path := range []string{"/v1/lesson", "/v1/quiz/match", "/v1/progress/flag"} {
		if rec := do(t, h, "GET", path, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token = %d", path, rec.Code)
		}
	}
	if rec := do(t, h, "GET", "/v1/lesson", "not-a-jwt", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token = %d", rec.Code)
	}
}

func TestLessonFlow(t *testing.T) {
	h := newTestRouter(t)
	token := startSession(t, h)

	rec := do(t, h, "POST", "/v1/lesson/advance", token, "")
	var view model.LessonView
	decode(t, rec, &view)
	if rec.Code != http.StatusOK || view.Step.Index != 1 {
		t.Fatalf("advance = %d step %d", rec.Code, view.Step.Index)
	}

	rec = do(t, h, "POST", "/v1/lesson/topics/abc/jump", token, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric topic index = %d", rec.Code)
	}

	rec = do(t, h, "POST", "/v1/lesson/quickcheck/select", token, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("select without option = %d", rec.Code)
	}

	// selecting outside a quick-check is a no-op, not an error
	rec = do(t, h, "POST", "/v1/lesson/quickcheck/select", token, `{"option": 0}`)
	decode(t, rec, &view)
	if rec.Code != http.StatusOK || view.SelectedOption != nil {
		t.Errorf("select on practical step = %d %+v", rec.Code, view.SelectedOption)
	}
}

func TestQuizFlow(t *testing.T) {
	h := newTestRouter(t)
	token := startSession(t, h)

	if rec := do(t, h, "GET", "/v1/quiz/speedrun", token, ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown flavor = %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/v1/quiz/match/answers", token, `{"iso": "abc"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric answer = %d", rec.Code)
	}

	rec := do(t, h, "POST", "/v1/quiz/match/answers", token, `{"iso": 1600, "aperture": 2.8, "shutterSpeed": 60}`)
	var view model.QuizView
	decode(t, rec, &view)
	if rec.Code != http.StatusOK || view.Last == nil || !view.Last.Correct || !view.CanContinue {
		t.Fatalf("correct answer = %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, "POST", "/v1/quiz/match/continue", token, "")
	decode(t, rec, &view)
	if view.QuestionIndex != 1 {
		t.Errorf("question after continue = %d", view.QuestionIndex)
	}

	rec = do(t, h, "GET", "/v1/quiz/match/hint", token, "")
	var hint map[string]string
	decode(t, rec, &hint)
	if !strings.Contains(hint["hint"], "aperture") {
		t.Errorf("hint = %q", hint["hint"])
	}

	rec = do(t, h, "GET", "/v1/quiz/match/history?limit=5", token, "")
	var history struct {
		Attempts []model.AttemptRecord `json:"attempts"`
	}
	decode(t, rec, &history)
	if len(history.Attempts) != 1 {
		t.Errorf("history = %d attempts", len(history.Attempts))
	}
	if rec := do(t, h, "GET", "/v1/quiz/match/history?limit=-1", token, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("negative limit = %d", rec.Code)
	}

	rec = do(t, h, "GET", "/v1/progress/flag", token, "")
	var flagBody map[string]bool
	decode(t, rec, &flagBody)
	if flagBody[flag.QuizCompletedKey] {
		t.Error("flag set before the quiz was finished")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, "OPTIONS", "/v1/lesson", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("preflight = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://lab.example" {
		t.Errorf("allow origin = %q", got)
	}
}

package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httphandler "github.com/windfall/lingo_practice/internal/handler/http"
	"github.com/windfall/lingo_practice/internal/logger"
	"github.com/windfall/lingo_practice/internal/repository"
	"github.com/windfall/lingo_practice/internal/server"
	"github.com/windfall/lingo_practice/internal/service"
)

type memoryScriptRepo struct {
	scripts   []*repository.Script
	sentences map[uuid.UUID]*repository.Sentence
	byScript  map[uuid.UUID][]*repository.Sentence

	randomOrder bool
}

func newMemoryScriptRepo() *memoryScriptRepo {
	return &memoryScriptRepo{
		sentences: make(map[uuid.UUID]*repository.Sentence),
		byScript:  make(map[uuid.UUID][]*repository.Sentence),
	}
}

func (r *memoryScriptRepo) Create(ctx context.Context, title string, sentences []repository.NewSentence) (uuid.UUID, error) {
	scriptID := uuid.New()
	r.scripts = append(r.scripts, &repository.Script{ID: scriptID, Title: title, SentencesCount: len(sentences)})
	for i, ns := range sentences {
		sentence := &repository.Sentence{
			ID:           uuid.New(),
			ScriptID:     scriptID,
			OriginalText: ns.OriginalText,
			OrderIndex:   i,
			Difficulty:   "medium",
		}
		if ns.ModelTranslation != "" {
			mt := ns.ModelTranslation
			sentence.ModelTranslation = &mt
		}
		r.sentences[sentence.ID] = sentence
		r.byScript[scriptID] = append(r.byScript[scriptID], sentence)
	}
	return scriptID, nil
}

func (r *memoryScriptRepo) List(ctx context.Context) ([]*repository.Script, error) {
	return r.scripts, nil
}

func (r *memoryScriptRepo) Get(ctx context.Context, id uuid.UUID) (*repository.Script, []*repository.Sentence, error) {
	for _, s := range r.scripts {
		if s.ID == id {
			return s, r.byScript[id], nil
		}
	}
	return nil, nil, stderrors.New("no rows")
}

func (r *memoryScriptRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	for _, s := range r.scripts {
		if s.ID == id {
			s.Title = title
			return nil
		}
	}
	return stderrors.New("no rows")
}

func (r *memoryScriptRepo) ReplaceSentences(ctx context.Context, id uuid.UUID, sentences []repository.NewSentence) error {
	r.byScript[id] = nil
	for i, ns := range sentences {
		sentence := &repository.Sentence{ID: uuid.New(), ScriptID: id, OriginalText: ns.OriginalText, OrderIndex: i}
		r.sentences[sentence.ID] = sentence
		r.byScript[id] = append(r.byScript[id], sentence)
	}
	return nil
}

func (r *memoryScriptRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, s := range r.scripts {
		if s.ID == id {
			r.scripts = append(r.scripts[:i], r.scripts[i+1:]...)
			return nil
		}
	}
	return stderrors.New("no rows")
}

func (r *memoryScriptRepo) ListSentences(ctx context.Context, scriptID uuid.UUID, randomOrder bool) ([]*repository.Sentence, error) {
	r.randomOrder = randomOrder
	return r.byScript[scriptID], nil
}

func (r *memoryScriptRepo) GetSentence(ctx context.Context, id uuid.UUID) (*repository.Sentence, error) {
	sentence, ok := r.sentences[id]
	if !ok {
		return nil, stderrors.New("no rows")
	}
	return sentence, nil
}

func (r *memoryScriptRepo) SetModelTranslation(ctx context.Context, sentenceID uuid.UUID, translation string) error {
	sentence, ok := r.sentences[sentenceID]
	if !ok {
		return stderrors.New("no rows")
	}
	sentence.ModelTranslation = &translation
	return nil
}

func (r *memoryScriptRepo) Search(ctx context.Context, query string, limit int) ([]*repository.SearchHit, error) {
	var hits []*repository.SearchHit
	for _, s := range r.sentences {
		if !strings.Contains(strings.ToLower(s.OriginalText), strings.ToLower(query)) {
			continue
		}
		hits = append(hits, &repository.SearchHit{ID: s.ID, OriginalText: s.OriginalText, OrderIndex: s.OrderIndex})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

type memoryPracticeRepo struct {
	sessions map[uuid.UUID]*repository.PracticeSession
	stats    repository.ProgressStats
}

func newMemoryPracticeRepo() *memoryPracticeRepo {
	return &memoryPracticeRepo{sessions: make(map[uuid.UUID]*repository.PracticeSession)}
}

func (r *memoryPracticeRepo) Create(ctx context.Context, sentenceID uuid.UUID, userTranslation string, translationScore float64) (uuid.UUID, error) {
	id := uuid.New()
	r.sessions[id] = &repository.PracticeSession{
		ID:               id,
		SentenceID:       sentenceID,
		UserTranslation:  userTranslation,
		TranslationScore: translationScore,
	}
	return id, nil
}

func (r *memoryPracticeRepo) Get(ctx context.Context, id uuid.UUID) (*repository.PracticeSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, stderrors.New("no rows")
	}
	return session, nil
}

func (r *memoryPracticeRepo) RecordPronunciation(ctx context.Context, id uuid.UUID, pronunciationText string, score float64) error {
	session, ok := r.sessions[id]
	if !ok {
		return stderrors.New("no rows")
	}
	session.PronunciationText = &pronunciationText
	session.PronunciationScore = &score
	return nil
}

func (r *memoryPracticeRepo) Stats(ctx context.Context) (*repository.ProgressStats, error) {
	stats := r.stats
	stats.TotalPracticeSessions = len(r.sessions)
	return &stats, nil
}

func (r *memoryPracticeRepo) Recent(ctx context.Context, limit int) ([]*repository.RecentSession, error) {
	var recent []*repository.RecentSession
	for _, s := range r.sessions {
		recent = append(recent, &repository.RecentSession{
			ID:               s.ID,
			UserTranslation:  s.UserTranslation,
			TranslationScore: s.TranslationScore,
		})
		if len(recent) == limit {
			break
		}
	}
	return recent, nil
}

type env struct {
	srv       *httptest.Server
	scripts   *memoryScriptRepo
	practices *memoryPracticeRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	log := logger.NewNop()
	scripts := newMemoryScriptRepo()
	practices := newMemoryPracticeRepo()

	scriptService := service.NewScriptService(scripts, &service.StaticTranslator{Translations: map[string]string{
		"Le ciel est bleu.": "The sky is blue.",
	}}, log)
	progressService := service.NewProgressService(practices, nil, 0, log)
	practiceService := service.NewPracticeService(scripts, practices, nil, progressService, log)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		server.Routes(r,
			httphandler.NewScriptHandler(log, scriptService),
			httphandler.NewPracticeHandler(log, practiceService),
			httphandler.NewProgressHandler(log, progressService),
		)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &env{srv: srv, scripts: scripts, practices: practices}
}

func (e *env) post(t *testing.T, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func (e *env) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(e.srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, dest interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func errorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	return body.Error
}

func TestCreateAndListScripts(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/scripts", map[string]string{
		"title":   "Weather",
		"content": "Le ciel est bleu. Il pleut!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created struct {
		ScriptID        string `json:"script_id"`
		SentencesCount  int    `json:"sentences_count"`
		AutoTranslation bool   `json:"auto_translation"`
	}
	decode(t, resp, &created)
	if created.ScriptID == "" || created.SentencesCount != 2 || !created.AutoTranslation {
		t.Fatalf("create response = %+v", created)
	}

	resp = e.get(t, "/api/scripts")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var scripts []struct {
		Title          string `json:"title"`
		SentencesCount int    `json:"sentences_count"`
	}
	decode(t, resp, &scripts)
	if len(scripts) != 1 || scripts[0].Title != "Weather" || scripts[0].SentencesCount != 2 {
		t.Fatalf("list response = %+v", scripts)
	}
}

func TestCreateScriptValidation(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/scripts", map[string]string{"title": " ", "content": "text."})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if msg := errorMessage(t, resp); msg != "Title and content are required" {
		t.Fatalf("error = %q", msg)
	}
}

func TestGetScriptUnknownID(t *testing.T) {
	e := newEnv(t)

	resp := e.get(t, "/api/scripts/not-a-uuid")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if msg := errorMessage(t, resp); msg != "script not found" {
		t.Fatalf("error = %q", msg)
	}
}

func TestSentencesEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/scripts", map[string]string{"title": "Weather", "content": "Le ciel est bleu."})
	var created struct {
		ScriptID string `json:"script_id"`
	}
	decode(t, resp, &created)

	resp = e.get(t, "/api/scripts/"+created.ScriptID+"/sentences?mode=random")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sentences []struct {
		ID               string  `json:"id"`
		OriginalText     string  `json:"original_text"`
		ModelTranslation *string `json:"model_translation"`
	}
	decode(t, resp, &sentences)
	if len(sentences) != 1 || sentences[0].OriginalText != "Le ciel est bleu." {
		t.Fatalf("sentences = %+v", sentences)
	}
	if !e.scripts.randomOrder {
		t.Fatal("mode=random did not request a shuffled order")
	}
	if sentences[0].ModelTranslation == nil || *sentences[0].ModelTranslation != "The sky is blue." {
		t.Fatalf("model translation = %v", sentences[0].ModelTranslation)
	}
}

func TestTranslateAndPronunciationEndpoints(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/scripts", map[string]string{"title": "Weather", "content": "Le ciel est bleu."})
	var created struct {
		ScriptID string `json:"script_id"`
	}
	decode(t, resp, &created)

	resp = e.get(t, "/api/scripts/"+created.ScriptID+"/sentences?mode=sequential")
	var sentences []struct {
		ID string `json:"id"`
	}
	decode(t, resp, &sentences)

	resp = e.post(t, "/api/practice/translate", map[string]string{
		"sentence_id":      sentences[0].ID,
		"user_translation": "The sky is blue.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("translate status = %d", resp.StatusCode)
	}
	var translated struct {
		PracticeID      string  `json:"practice_id"`
		SimilarityScore float64 `json:"similarity_score"`
	}
	decode(t, resp, &translated)
	if translated.SimilarityScore != 1.0 || translated.PracticeID == "" {
		t.Fatalf("translate response = %+v", translated)
	}

	resp = e.post(t, "/api/practice/pronunciation", map[string]string{
		"practice_id":        translated.PracticeID,
		"pronunciation_text": "the sky is blue.",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pronunciation status = %d", resp.StatusCode)
	}
	var pronounced struct {
		PronunciationScore float64  `json:"pronunciation_score"`
		Matched            []string `json:"matched"`
		Extra              []string `json:"extra"`
	}
	decode(t, resp, &pronounced)
	if pronounced.PronunciationScore != 1.0 {
		t.Fatalf("pronunciation response = %+v", pronounced)
	}
	if pronounced.Extra == nil {
		t.Fatal("extra = null, want []")
	}
}

func TestTranslateMissingSentenceID(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/practice/translate", map[string]string{"user_translation": "hello"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if msg := errorMessage(t, resp); msg != "sentence_id is required" {
		t.Fatalf("error = %q", msg)
	}
}

func TestPronunciationMissingFields(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/practice/pronunciation", map[string]string{"practice_id": uuid.NewString()})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if msg := errorMessage(t, resp); msg != "practice_id and pronunciation_text are required" {
		t.Fatalf("error = %q", msg)
	}
}

func TestSetModelTranslationEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/scripts", map[string]string{"title": "Weather", "content": "Il pleut!"})
	var created struct {
		ScriptID string `json:"script_id"`
	}
	decode(t, resp, &created)

	resp = e.get(t, "/api/scripts/"+created.ScriptID+"/sentences?mode=sequential")
	var sentences []struct {
		ID string `json:"id"`
	}
	decode(t, resp, &sentences)

	resp = e.post(t, "/api/sentence/"+sentences[0].ID+"/model_translation", map[string]string{
		"model_translation": "It is raining!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Success          bool   `json:"success"`
		ModelTranslation string `json:"model_translation"`
	}
	decode(t, resp, &body)
	if !body.Success || body.ModelTranslation != "It is raining!" {
		t.Fatalf("response = %+v", body)
	}
}

func TestProgressEndpoint(t *testing.T) {
	e := newEnv(t)
	e.practices.stats = repository.ProgressStats{
		TotalScripts:        1,
		TotalSentences:      3,
		AvgTranslationScore: 0.789,
	}

	resp := e.get(t, "/api/progress")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var report struct {
		TotalScripts        int         `json:"total_scripts"`
		AvgTranslationScore float64     `json:"avg_translation_score"`
		RecentSessions      []recentRow `json:"recent_sessions"`
	}
	decode(t, resp, &report)
	if report.TotalScripts != 1 || report.AvgTranslationScore != 0.79 {
		t.Fatalf("report = %+v", report)
	}
	if report.RecentSessions == nil {
		t.Fatal("recent_sessions = null, want []")
	}
}

type recentRow struct {
	ID string `json:"id"`
}

func TestSearchEndpoint(t *testing.T) {
	e := newEnv(t)

	resp := e.post(t, "/api/scripts", map[string]string{"title": "Weather", "content": "Le ciel est bleu."})
	resp.Body.Close()

	resp = e.get(t, "/api/sentences/search?q=ciel")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var hits []struct {
		OriginalText string `json:"original_text"`
	}
	decode(t, resp, &hits)
	if len(hits) != 1 {
		t.Fatalf("hits = %+v", hits)
	}

	resp = e.get(t, "/api/sentences/search?q=")
	var empty []recentRow
	decode(t, resp, &empty)
	if len(empty) != 0 {
		t.Fatalf("blank query hits = %+v", empty)
	}
}

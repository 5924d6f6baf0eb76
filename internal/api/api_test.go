package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptforge/internal/api/auth"
	"github.com/promptforge/internal/jobqueue"
	"github.com/promptforge/internal/library"
	"github.com/promptforge/internal/llm"
	"github.com/promptforge/internal/prompts"
	"github.com/promptforge/pkg/models"
)

const testSecret = "test-secret"

type fakeEnhancer struct {
	err error
	got models.ComposeRequest
}

func (f *fakeEnhancer) Enhance(ctx context.Context, req models.ComposeRequest) (llm.EnhanceResult, error) {
	f.got = req
	if f.err != nil {
		return llm.EnhanceResult{}, f.err
	}
	return llm.EnhanceResult{Completion: llm.Completion{Output: "model says hi", Attempts: 1}}, nil
}

type fakeQueue struct {
	args []jobqueue.RunPromptArgs
	err  error
}

func (q *fakeQueue) EnqueueRun(ctx context.Context, args jobqueue.RunPromptArgs) error {
	if q.err != nil {
		return q.err
	}
	q.args = append(q.args, args)
	return nil
}

type harness struct {
	t      *testing.T
	server *Server
	store  *library.InMemoryStore
	token  string
}

func newHarness(t *testing.T, mutate func(*Deps)) *harness {
	t.Helper()
	store := library.NewInMemoryStore()
	tokens := auth.NewTokenService(testSecret)
	deps := Deps{
		Library:  library.NewService(store, nil),
		Tokens:   tokens,
		RunModel: "test-model",
		Defaults: SamplingDefaults{NumberOfResponses: 4, DistributionType: "broad_spectrum"},
	}
	if mutate != nil {
		mutate(&deps)
	}
	token, _, err := tokens.IssueToken("owner-1", "owner@example.com")
	require.NoError(t, err)
	return &harness{t: t, server: NewServer(0, deps), store: store, token: token}
}

func (h *harness) do(method, path string, body any, authed bool) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"status": "healthy"}, decode[map[string]string](t, rec))
}

func TestCompose(t *testing.T) {
	h := newHarness(t, nil)
	body := map[string]any{
		"baseConfig": map[string]any{
			"domain":     "Code & Development",
			"framework":  "Chain-of-Thought",
			"basePrompt": "Explain goroutine leaks",
		},
		"vsEnhancement": map[string]any{"enabled": true},
		"advancedEnhancements": map[string]any{
			"roleEnhancement": map[string]any{"enabled": true, "type": "expert", "expertise": "Go"},
		},
	}
	rec := h.do(http.MethodPost, "/api/v1/compose", body, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[models.ComposeResponse](t, rec)
	assert.True(t, resp.Generated.Metadata.VSEnabled)
	assert.Contains(t, resp.Generated.FinalPrompt, "Explain goroutine leaks")
	assert.Contains(t, resp.Generated.FinalPrompt, "<response>")
	assert.Equal(t, prompts.AttachEnhancements(resp.Generated.FinalPrompt, resp.Enhancements), resp.Preview)
}

func TestCompose_RejectsOversizedPrompt(t *testing.T) {
	h := newHarness(t, nil)
	body := map[string]any{"baseConfig": map[string]any{"basePrompt": strings.Repeat("a", prompts.MaxBasePromptLength+1)}}
	rec := h.do(http.MethodPost, "/api/v1/compose", body, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decode[map[string]map[string]string](t, rec)
	assert.Contains(t, errs["errors"], "basePrompt")
}

func TestCompose_AcceptsAboveValidatorLimit(t *testing.T) {
	h := newHarness(t, nil)
	body := map[string]any{"baseConfig": map[string]any{"basePrompt": strings.Repeat("a", prompts.MaxValidatedPromptLength+1)}}
	rec := h.do(http.MethodPost, "/api/v1/compose", body, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSampling(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodPost, "/api/v1/sampling", map[string]any{"distributionType": "balanced_categories", "numberOfResponses": 3}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]string](t, rec)
	assert.Equal(t, prompts.CategoryResponseFormat, out["format"])
	assert.Equal(t, prompts.SamplingInstructions{Instruction: out["instruction"], Format: out["format"]}.Block(), out["block"])

	rec = h.do(http.MethodPost, "/api/v1/sampling", map[string]any{"numberOfResponses": 50}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidate(t *testing.T) {
	h := newHarness(t, nil)
	body := map[string]any{"baseConfig": map[string]any{"framework": "Few-Shot", "basePrompt": "Classify sentiment"}}
	rec := h.do(http.MethodPost, "/api/v1/validate", body, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Errors         map[string]string     `json:"errors"`
		SamplingErrors map[string]string     `json:"sampling_errors"`
		Quality        prompts.QualityReport `json:"quality"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out.Errors, "examples")
	assert.Empty(t, out.SamplingErrors)
	assert.Positive(t, out.Quality.Score)
}

func TestQualityAndVariables(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodPost, "/api/v1/quality", map[string]string{"text": ""}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 65, decode[prompts.QualityReport](t, rec).Score)

	rec = h.do(http.MethodPost, "/api/v1/variables", map[string]string{"text": "Hi {{name}}, see {{topic}} and {{name}}"}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string][]string{"variables": {"name", "topic"}}, decode[map[string][]string](t, rec))
}

func TestEnhancements(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodPost, "/api/v1/enhancements", map[string]any{
		"reasoningScaffold": map[string]any{"enabled": true, "type": "analysis", "showWork": true},
	}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prompts.ShowWorkInstruction+"\n\n"+prompts.AnalysisFramework, decode[map[string]string](t, rec)["enhancements"])
}

func TestEnhance(t *testing.T) {
	t.Run("requires auth", func(t *testing.T) {
		h := newHarness(t, func(d *Deps) { d.Enhancer = &fakeEnhancer{} })
		rec := h.do(http.MethodPost, "/api/v1/enhance", map[string]any{}, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
	t.Run("no connector", func(t *testing.T) {
		h := newHarness(t, nil)
		rec := h.do(http.MethodPost, "/api/v1/enhance", map[string]any{}, true)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
	t.Run("applies sampling defaults", func(t *testing.T) {
		fe := &fakeEnhancer{}
		h := newHarness(t, func(d *Deps) { d.Enhancer = fe })
		body := map[string]any{
			"baseConfig":    map[string]any{"basePrompt": "Name a dog"},
			"vsEnhancement": map[string]any{"enabled": true},
		}
		rec := h.do(http.MethodPost, "/api/v1/enhance", body, true)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 4, fe.got.VSEnhancement.NumberOfResponses)
		assert.Equal(t, "broad_spectrum", fe.got.VSEnhancement.DistributionType)
		assert.Equal(t, "model says hi", decode[map[string]any](t, rec)["output"])
	})
	t.Run("provider failure", func(t *testing.T) {
		h := newHarness(t, func(d *Deps) { d.Enhancer = &fakeEnhancer{err: errors.New("HTTP 401")} })
		rec := h.do(http.MethodPost, "/api/v1/enhance", map[string]any{"baseConfig": map[string]any{"basePrompt": "x"}}, true)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
	t.Run("rate limited", func(t *testing.T) {
		h := newHarness(t, func(d *Deps) {
			d.Enhancer = &fakeEnhancer{}
			d.RateLimit = 0.001
			d.RateBurst = 1
		})
		body := map[string]any{"baseConfig": map[string]any{"basePrompt": "x"}}
		assert.Equal(t, http.StatusOK, h.do(http.MethodPost, "/api/v1/enhance", body, true).Code)
		assert.Equal(t, http.StatusTooManyRequests, h.do(http.MethodPost, "/api/v1/enhance", body, true).Code)
	})
}

func TestPromptLifecycle(t *testing.T) {
	q := &fakeQueue{}
	h := newHarness(t, func(d *Deps) { d.Queue = q })

	save := map[string]any{
		"baseConfig": map[string]any{"framework": "Generative", "basePrompt": "Brainstorm names"},
		"title":      "Names",
		"tags":       []string{"ideas"},
	}
	rec := h.do(http.MethodPost, "/api/v1/prompts", save, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.SavedPrompt](t, rec)
	assert.Equal(t, "Names", created.Title)
	assert.Equal(t, "owner-1", created.OwnerID)

	rec = h.do(http.MethodGet, "/api/v1/prompts?tag=ideas", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[map[string][]models.SavedPrompt](t, rec)
	require.Len(t, list["prompts"], 1)

	rec = h.do(http.MethodGet, "/api/v1/prompts?favorite=maybe", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	save["title"] = "Better names"
	rec = h.do(http.MethodPut, "/api/v1/prompts/"+created.ID, save, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Better names", decode[models.SavedPrompt](t, rec).Title)

	rec = h.do(http.MethodPost, "/api/v1/prompts/"+created.ID+"/runs", nil, true)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	run := decode[models.PromptRun](t, rec)
	assert.Equal(t, models.RunQueued, run.Status)
	assert.Equal(t, "test-model", run.Model)
	require.Len(t, q.args, 1)
	assert.Equal(t, jobqueue.RunPromptArgs{RunID: run.ID, PromptID: created.ID, OwnerID: "owner-1"}, q.args[0])

	rec = h.do(http.MethodGet, "/api/v1/prompts/"+created.ID+"/runs", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[map[string][]models.PromptRun](t, rec)["runs"], 1)

	rec = h.do(http.MethodDelete, "/api/v1/prompts/"+created.ID, nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(http.MethodGet, "/api/v1/prompts/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavePrompt_Validation(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodPost, "/api/v1/prompts", map[string]any{"title": "empty"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[map[string]map[string]string](t, rec)["errors"], "basePrompt")
}

func TestCreateRun_QueueFailure(t *testing.T) {
	h := newHarness(t, func(d *Deps) { d.Queue = &fakeQueue{err: errors.New("db down")} })
	p := &models.SavedPrompt{OwnerID: "owner-1", Title: "t", BasePrompt: "b"}
	require.NoError(t, h.store.Create(context.Background(), p))

	rec := h.do(http.MethodPost, "/api/v1/prompts/"+p.ID+"/runs", nil, true)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	runs, err := h.store.ListRuns(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunFailed, runs[0].Status)
}

func TestLibraryUnavailable(t *testing.T) {
	h := newHarness(t, func(d *Deps) { d.Library = nil })
	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodGet, "/api/v1/prompts", nil, true).Code)

	h = newHarness(t, nil)
	p := &models.SavedPrompt{OwnerID: "owner-1", Title: "t"}
	require.NoError(t, h.store.Create(context.Background(), p))
	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodPost, "/api/v1/prompts/"+p.ID+"/runs", nil, true).Code)
}

func TestImportPrompts(t *testing.T) {
	h := newHarness(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "library.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("title,prompt,tags\nOne,First prompt,a;b\nTwo,,\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/prompts/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+h.token)
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[models.ImportResult](t, rec)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, []string{"a", "b"}, res.Prompts[0].Tags)
}

func TestNewServer_DefaultsComposer(t *testing.T) {
	h := newHarness(t, nil)
	require.NotNil(t, h.server.deps.Composer)

	rec := h.do(http.MethodPost, "/api/v1/compose", map[string]any{"baseConfig": map[string]any{"basePrompt": "Explain DNS"}}, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewServer_UsesInjectedComposer(t *testing.T) {
	fixed := time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC)
	composer := prompts.NewComposer()
	composer.Now = func() time.Time { return fixed }
	h := newHarness(t, func(d *Deps) { d.Composer = composer })
	assert.Same(t, composer, h.server.deps.Composer)

	rec := h.do(http.MethodPost, "/api/v1/compose", map[string]any{"baseConfig": map[string]any{"basePrompt": "Explain DNS"}}, false)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[models.ComposeResponse](t, rec)
	assert.True(t, fixed.Equal(resp.Generated.Metadata.Timestamp))
}

func TestPrompts_MalformedIDIsNotFound(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/v1/prompts/not-a-uuid", nil, true).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/api/v1/prompts/not-a-uuid", nil, true).Code)
}

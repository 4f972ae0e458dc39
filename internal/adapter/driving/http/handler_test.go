package httphandler_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/spamwall/internal/adapter/driven/metrics"
	httphandler "github.com/ericfisherdev/spamwall/internal/adapter/driving/http"
	"github.com/ericfisherdev/spamwall/internal/application"
	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

// --- Mock implementations ---

type mockClassifier struct {
	verdict    model.Verdict
	configured bool
	lastMeta   model.CommentMetadata
	calls      int
}

func (m *mockClassifier) Classify(_ context.Context, _ string, meta model.CommentMetadata) model.Verdict {
	m.calls++
	m.lastMeta = meta
	return m.verdict
}

func (m *mockClassifier) Configured() bool { return m.configured }

type stubCipher struct{ enabled bool }

func (stubCipher) Encrypt(s string) string { return s }
func (stubCipher) Decrypt(s string) string { return s }
func (c stubCipher) Enabled() bool         { return c.enabled }

// --- Helpers ---

func setupMux(classifier *mockClassifier, policy model.UnknownPolicy) http.Handler {
	provider := application.NewClassifierProvider(classifier)
	filters := application.NewFilterRegistry()
	application.NewCommentGate(provider, policy, nil, slog.Default()).Register(filters)

	h := httphandler.NewHandler(filters, provider, stubCipher{enabled: true}, nil, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)
	return httphandler.ApplyMiddleware(mux, slog.Default())
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestModerate(t *testing.T) {
	tests := []struct {
		name     string
		verdict  model.Verdict
		policy   model.UnknownPolicy
		body     string
		wantCode int
		wantJSON string
	}{
		{
			name:     "spam overrides numeric status",
			verdict:  model.VerdictSpam,
			body:     `{"approval_status":1,"comment":{"comment_content":"buy now"}}`,
			wantCode: http.StatusOK,
			wantJSON: `{"approval_status":"spam"}`,
		},
		{
			name:     "ham echoes numeric status",
			verdict:  model.VerdictHam,
			body:     `{"approval_status":1,"comment":{"comment_content":"nice post"}}`,
			wantCode: http.StatusOK,
			wantJSON: `{"approval_status":1}`,
		},
		{
			name:     "ham echoes string status",
			verdict:  model.VerdictHam,
			body:     `{"approval_status":"0","comment":{"comment_content":"nice post"}}`,
			wantCode: http.StatusOK,
			wantJSON: `{"approval_status":"0"}`,
		},
		{
			name:     "unknown under allow keeps status",
			verdict:  model.VerdictUnknown,
			policy:   model.UnknownPolicyAllow,
			body:     `{"approval_status":"1","comment":{"comment_content":"hmm"}}`,
			wantCode: http.StatusOK,
			wantJSON: `{"approval_status":"1"}`,
		},
		{
			name:     "unknown under hold demotes numeric approval",
			verdict:  model.VerdictUnknown,
			policy:   model.UnknownPolicyHold,
			body:     `{"approval_status":1,"comment":{"comment_content":"hmm"}}`,
			wantCode: http.StatusOK,
			wantJSON: `{"approval_status":"0"}`,
		},
		{
			name:     "unknown comment fields are ignored",
			verdict:  model.VerdictHam,
			body:     `{"approval_status":"trash","comment":{"comment_content":"x","comment_post_ID":7,"user_id":0}}`,
			wantCode: http.StatusOK,
			wantJSON: `{"approval_status":"trash"}`,
		},
		{
			name:     "missing approval status",
			body:     `{"comment":{"comment_content":"x"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing comment",
			body:     `{"approval_status":1}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "boolean approval status",
			body:     `{"approval_status":true,"comment":{"comment_content":"x"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "null approval status",
			body:     `{"approval_status":null,"comment":{"comment_content":"x"}}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed JSON",
			body:     `{"approval_status":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "empty body",
			body:     ``,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "trailing data",
			body:     `{"approval_status":1,"comment":{}} {}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := setupMux(&mockClassifier{verdict: tt.verdict}, tt.policy)

			rec := post(t, mux, "/api/v1/comments/moderate", tt.body)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantJSON != "" {
				assert.JSONEq(t, tt.wantJSON, rec.Body.String())
			} else {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp["error"])
			}
		})
	}
}

func TestModerate_ContentTooLong(t *testing.T) {
	classifier := &mockClassifier{verdict: model.VerdictHam}
	mux := setupMux(classifier, model.UnknownPolicyAllow)

	body, err := json.Marshal(map[string]any{
		"approval_status": 1,
		"comment":         map[string]string{"comment_content": strings.Repeat("a", 65526)},
	})
	require.NoError(t, err)

	rec := post(t, mux, "/api/v1/comments/moderate", string(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "comment_content")
	assert.Zero(t, classifier.calls)
}

func TestClassify(t *testing.T) {
	classifier := &mockClassifier{verdict: model.VerdictSpam}
	mux := setupMux(classifier, model.UnknownPolicyAllow)

	rec := post(t, mux, "/api/v1/comments/classify",
		`{"comment":{"comment_content":"win","comment_author":"Bob","comment_author_email":"b@x.test","comment_author_url":"http://x.test"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"verdict":"spam"}`, rec.Body.String())
	assert.Equal(t, model.CommentMetadata{Author: "Bob", Email: "b@x.test", URL: "http://x.test"}, classifier.lastMeta)
}

func TestClassify_MissingComment(t *testing.T) {
	mux := setupMux(&mockClassifier{}, model.UnknownPolicyAllow)

	rec := post(t, mux, "/api/v1/comments/classify", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "comment")
}

func TestHealth(t *testing.T) {
	mux := setupMux(&mockClassifier{configured: true}, model.UnknownPolicyAllow)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Time)
	assert.True(t, resp.EncryptionEnabled)
	assert.True(t, resp.ClassifierConfigured)
}

func TestHealth_NoClassifier(t *testing.T) {
	provider := application.NewClassifierProvider(nil)
	h := httphandler.NewHandler(application.NewFilterRegistry(), provider, stubCipher{}, nil, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp httphandler.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.EncryptionEnabled)
	assert.False(t, resp.ClassifierConfigured)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)
	provider := application.NewClassifierProvider(&mockClassifier{verdict: model.VerdictSpam})
	filters := application.NewFilterRegistry()
	application.NewCommentGate(provider, model.UnknownPolicyAllow, recorder, slog.Default()).Register(filters)

	h := httphandler.NewHandler(filters, provider, stubCipher{}, reg, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, h)

	rec := post(t, mux, "/api/v1/comments/moderate", `{"approval_status":1,"comment":{"comment_content":"x"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spamwall_moderation_decisions_total{overridden="true",verdict="spam"} 1`)
}

func TestRequestID(t *testing.T) {
	mux := setupMux(&mockClassifier{}, model.UnknownPolicyAllow)

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Len(t, rec.Header().Get(httphandler.RequestIDHeader), 36)
	})

	t.Run("propagated when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set(httphandler.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", rec.Header().Get(httphandler.RequestIDHeader))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := httphandler.ApplyMiddleware(mux, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

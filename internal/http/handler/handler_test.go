package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bfhl/internal/ai"
	aiMocks "bfhl/internal/ai/mocks"
	"bfhl/internal/config"
	"bfhl/internal/http/middleware"
	"bfhl/internal/model"
	"bfhl/internal/service"
	serviceMocks "bfhl/internal/service/mocks"
)

const testIdentity = "someone@example.com"

var testLimits = config.LimitsConfig{
	FibonacciMax:   1000,
	ArrayMax:       1000,
	QuestionMax:    1000,
	BodyLimitBytes: 1 << 20,
}

// newTestApp wires the real service behind the same app configuration main uses.
func newTestApp(answerer ai.Answerer) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(testIdentity),
	})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, service.NewBFHLService(answerer, testLimits), testIdentity, zap.NewNop())
	return app
}

func postBFHL(t *testing.T, app *fiber.App, body string) (int, model.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bfhl", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var res model.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return resp.StatusCode, res
}

func TestHealth(t *testing.T) {
	app := newTestApp(new(aiMocks.MockAnswerer))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["is_success"])
	assert.Equal(t, testIdentity, body["official_email"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "message")
}

func TestCompute_Success(t *testing.T) {
	mAI := new(aiMocks.MockAnswerer)
	mAI.On("Answer", mock.Anything, "Answer in one word: What is the capital city of Maharashtra?").
		Return("Mumbai", nil).Once()
	app := newTestApp(mAI)

	tests := []struct {
		name     string
		body     string
		wantData string
	}{
		{name: "fibonacci", body: `{"fibonacci":7}`, wantData: `[0,1,1,2,3,5,8]`},
		{name: "prime", body: `{"prime":[2,4,7,9,11]}`, wantData: `[2,7,11]`},
		{name: "prime empty result", body: `{"prime":[4,6]}`, wantData: `[]`},
		{name: "lcm", body: `{"lcm":[12,18,24]}`, wantData: `72`},
		{name: "hcf", body: `{"hcf":[24,36,60]}`, wantData: `12`},
		{name: "AI", body: `{"AI":"What is the capital city of Maharashtra?"}`, wantData: `"Mumbai"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bfhl", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.JSONEq(t, `true`, string(body["is_success"]))
			assert.JSONEq(t, fmt.Sprintf("%q", testIdentity), string(body["official_email"]))
			assert.JSONEq(t, tt.wantData, string(body["data"]))
			assert.NotContains(t, body, "message")
		})
	}
	mAI.AssertExpectations(t)
}

func TestCompute_Failures(t *testing.T) {
	app := newTestApp(new(aiMocks.MockAnswerer))

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "malformed json", body: `{"fibonacci":}`, wantMessage: "Invalid JSON in request body"},
		{name: "array body", body: `[1,2]`, wantMessage: "Request body must be a JSON object"},
		{name: "null body", body: `null`, wantMessage: "Request body must be a JSON object"},
		{name: "no keys", body: `{}`, wantMessage: "Request must contain exactly one key"},
		{name: "two keys", body: `{"fibonacci":3,"hcf":[2]}`, wantMessage: "Request must contain exactly one key"},
		{name: "proto key", body: `{"__proto__":5}`, wantMessage: "Forbidden key"},
		{name: "unknown key", body: `{"sum":[1,2]}`, wantMessage: "Invalid Key"},
		{name: "bad fibonacci", body: `{"fibonacci":-1}`, wantMessage: "Invalid input: fibonacci must be a positive integer no greater than 1000"},
		{name: "empty hcf", body: `{"hcf":[]}`, wantMessage: "Invalid input: hcf must be a non-empty array of positive integers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := postBFHL(t, app, tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.False(t, res.IsSuccess)
			assert.Equal(t, testIdentity, res.OfficialEmail)
			assert.Equal(t, tt.wantMessage, res.Message)
			assert.Nil(t, res.Data)
		})
	}
}

func TestCompute_AIFailuresAreBadRequest(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		mAI := new(aiMocks.MockAnswerer)
		mAI.On("Answer", mock.Anything, mock.Anything).Return("", ai.ErrNotConfigured).Once()

		status, res := postBFHL(t, newTestApp(mAI), `{"AI":"Who wrote Hamlet?"}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "API Key missing", res.Message)
		mAI.AssertExpectations(t)
	})

	t.Run("upstream", func(t *testing.T) {
		mAI := new(aiMocks.MockAnswerer)
		mAI.On("Answer", mock.Anything, mock.Anything).
			Return("", fmt.Errorf("%w: %s", ai.ErrUpstream, "Rate limit exceeded")).Once()

		status, res := postBFHL(t, newTestApp(mAI), `{"AI":"Who wrote Hamlet?"}`)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "AI Error: Rate limit exceeded", res.Message)
		mAI.AssertExpectations(t)
	})
}

func TestCompute_WithMockService(t *testing.T) {
	mockSvc := new(serviceMocks.MockBFHLService)
	app := fiber.New()
	app.Post("/bfhl", Compute(mockSvc, testIdentity, zap.NewNop()))

	t.Run("passes raw body through", func(t *testing.T) {
		mockSvc.On("Process", mock.Anything, []byte(`{"hcf":[4]}`)).Return(int64(4), nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/bfhl", bytes.NewBufferString(`{"hcf":[4]}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var res model.Response
		json.NewDecoder(resp.Body).Decode(&res)
		assert.True(t, res.IsSuccess)
		assert.Equal(t, float64(4), res.Data)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unclassified error is still a 400", func(t *testing.T) {
		mockSvc.On("Process", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		req := httptest.NewRequest(http.MethodPost, "/bfhl", bytes.NewBufferString(`{"x":1}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := newTestApp(new(aiMocks.MockAnswerer))

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "unknown path", method: http.MethodGet, path: "/non-existent"},
		{name: "get on bfhl", method: http.MethodGet, path: "/bfhl"},
		{name: "post on health", method: http.MethodPost, path: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			var res model.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
			assert.False(t, res.IsSuccess)
			assert.Equal(t, testIdentity, res.OfficialEmail)
			assert.Equal(t, "Route not found", res.Message)
		})
	}
}

func TestCompute_BodyOverLimit(t *testing.T) {
	app := fiber.New(fiber.Config{
		BodyLimit:    64,
		ErrorHandler: ErrorHandler(testIdentity),
	})
	RegisterRoutes(app, service.NewBFHLService(new(aiMocks.MockAnswerer), testLimits), testIdentity, zap.NewNop())

	status, res := postBFHL(t, app, `{"AI":"`+strings.Repeat("x", 1024)+`"}`)

	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, testIdentity, res.OfficialEmail)
	assert.Equal(t, "Request body too large", res.Message)
	assert.Nil(t, res.Data)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(testIdentity)})
	app.Get("/large", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })
	app.Get("/panic-ish", func(c *fiber.Ctx) error { return errors.New("unexpected") })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/large", nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	var res model.Response
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "Request body too large", res.Message)

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/panic-ish", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	res = model.Response{}
	json.NewDecoder(resp.Body).Decode(&res)
	assert.Equal(t, "Internal server error", res.Message)
}

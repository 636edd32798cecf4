package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pastebot/internal/classifier"
	"pastebot/internal/config"
	"pastebot/internal/langdetect"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	catalog, err := langdetect.DefaultCatalog()
	require.NoError(t, err)
	detector := langdetect.NewDetector(catalog)
	decider := classifier.NewDecider(200, detector)

	cfg := &config.Config{
		PasteAPIURL:         "http://localhost:8000/api/pastes/",
		WebsiteURL:          "http://localhost:8000",
		MinMessageLength:    200,
		PasteExpirationDays: 7,
		RateLimitWindow:     60,
		BotToken:            "secret",
	}
	return NewServer(cfg, decider, detector, zap.NewNop())
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestStatus(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "http://localhost:8000/api/pastes/", body["paste_api_url"])
	assert.Equal(t, float64(200), body["min_message_length"])
	assert.Equal(t, true, body["bot_token_configured"])
}

func TestClassify(t *testing.T) {
	s := newTestServer(t)

	snippet := "import os\nimport sys\nimport json\n\n" +
		"def main():\n    print(os.getcwd())\n\n" +
		"def helper(value):\n    return value * 2\n\n" +
		"def other(value):\n    return value + 1\n\n" +
		"def combine(left, right):\n    return left + right\n\n" +
		"if __name__ == '__main__':\n    main()\n"
	require.GreaterOrEqual(t, len([]rune(snippet)), 200)
	payload, err := json.Marshal(map[string]string{"text": snippet})
	require.NoError(t, err)

	w := doRequest(s, http.MethodPost, "/api/classify", string(payload))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Eligible bool   `json:"eligible"`
		Language string `json:"language"`
		Length   int    `json:"length"`
		Lines    int    `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Eligible)
	assert.Equal(t, "python", body.Language)
	assert.Equal(t, len([]rune(snippet)), body.Length)
	assert.Greater(t, body.Lines, 1)
}

func TestClassifyShortText(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/classify", `{"text":"hi"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["eligible"])
}

func TestClassifyMissingText(t *testing.T) {
	s := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/api/classify", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

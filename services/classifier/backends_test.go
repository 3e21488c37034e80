package classifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeModel(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", SanitizeModel(`"models/gemini-2.5-flash"`))
	assert.Equal(t, "gemini-pro", SanitizeModel(" 'gemini-pro' "))
	assert.Equal(t, "gemini-2.5-flash", SanitizeModel(""))
}

func TestGeminiRequestAndAnswer(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"TOX"},{"text":"IC"}]}}]}`)
	}))
	defer srv.Close()

	g := NewGemini("secret", "models/gemini-test").WithBaseURL(srv.URL)
	answer, err := g.Classify(context.Background(), "Bleach", "")
	require.NoError(t, err)
	assert.Equal(t, "TOX IC", answer)

	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", gotPath)
	assert.Equal(t, "secret", gotKey)

	cfg := gotBody["generationConfig"].(map[string]interface{})
	assert.EqualValues(t, 0, cfg["temperature"])
	assert.EqualValues(t, 16, cfg["maxOutputTokens"])

	contents := gotBody["contents"].([]interface{})
	text := contents[0].(map[string]interface{})["parts"].([]interface{})[0].(map[string]interface{})["text"].(string)
	assert.True(t, strings.HasPrefix(text, "Return ONLY one word from this list: INFLAMMABLE, TOXIC, FRAGILE, NORMAL."))
	assert.Contains(t, text, "Product name: Bleach.")
	assert.Contains(t, text, "Product description: N/A.")
}

func TestGeminiErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "broken") {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := NewGemini("k", "broken").WithBaseURL(srv.URL).Classify(context.Background(), "x", "")
	assert.ErrorContains(t, err, "429")

	_, err = NewGemini("k", "empty").WithBaseURL(srv.URL).Classify(context.Background(), "x", "")
	assert.Error(t, err)
}

func TestHTTPBackend(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	reply := `{"label":"inflammable"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		gotBody = nil
		json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, reply)
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL, "token-1")
	answer, err := h.Classify(context.Background(), "Lighter fluid", "")
	require.NoError(t, err)
	assert.Equal(t, "INFLAMMABLE", answer)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "Lighter fluid", gotBody["name"])
	assert.Nil(t, gotBody["description"])

	reply = `{"classification":"normal"}`
	answer, err = h.Classify(context.Background(), "Socks", "")
	require.NoError(t, err)
	assert.Equal(t, "NORMAL", answer)

	reply = `{"result":"radioactive"}`
	_, err = h.Classify(context.Background(), "Uranium", "")
	assert.ErrorContains(t, err, "invalid classification")

	reply = `{}`
	_, err = h.Classify(context.Background(), "Nothing", "")
	assert.Error(t, err)
}

func TestHTTPBackendWithoutKeySendsNoAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"category":"FRAGILE"}`)
	}))
	defer srv.Close()

	answer, err := NewHTTP(srv.URL, "").Classify(context.Background(), "Vase", "glass")
	require.NoError(t, err)
	assert.Equal(t, "FRAGILE", answer)
	assert.Empty(t, gotAuth)
}

func TestOpenAIBackend(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "resp_1",
			"object": "response",
			"status": "completed",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"role": "assistant",
				"status": "completed",
				"content": [{"type": "output_text", "text": "{\"classification\":\"TOXIC\"}", "annotations": []}]
			}]
		}`)
	}))
	defer srv.Close()

	o := NewOpenAI("sk-test", "", option.WithBaseURL(srv.URL+"/"))
	answer, err := o.Classify(context.Background(), "Pesticide", "")
	require.NoError(t, err)
	assert.Equal(t, "TOXIC", answer)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])

	format := gotBody["text"].(map[string]interface{})["format"].(map[string]interface{})
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, true, format["strict"])
}

func TestAnswerSchemaIsClosed(t *testing.T) {
	schema := answerSchema()
	require.NotNil(t, schema)
	assert.Equal(t, false, schema["additionalProperties"])
	props := schema["properties"].(map[string]interface{})
	assert.Contains(t, props, "classification")
}

package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "123456:secret-token"

func botServer(t *testing.T, method string, handler func(body map[string]interface{}) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bot"+testToken+"/"+method, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(body)))
	}))
}

func TestClient_SendMessage(t *testing.T) {
	server := botServer(t, "sendMessage", func(body map[string]interface{}) string {
		assert.Equal(t, float64(42), body["chat_id"])
		assert.Equal(t, "<b>hi</b>", body["text"])
		assert.Equal(t, "HTML", body["parse_mode"])
		assert.Equal(t, map[string]interface{}{"is_disabled": true}, body["link_preview_options"])
		return `{"ok":true,"result":{"message_id":1}}`
	})
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL+"/"))
	require.NoError(t, c.SendMessage(context.Background(), 42, "<b>hi</b>", ParseModeHTML))
}

func TestClient_SendMessage_PlainOmitsParseMode(t *testing.T) {
	server := botServer(t, "sendMessage", func(body map[string]interface{}) string {
		_, ok := body["parse_mode"]
		assert.False(t, ok)
		return `{"ok":true,"result":{}}`
	})
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL))
	require.NoError(t, c.SendMessage(context.Background(), 1, "plain", ParseModeNone))
}

func TestClient_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL))
	err := c.SendMessage(context.Background(), 1, "x", ParseModeNone)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "sendMessage", apiErr.Method)
	assert.Contains(t, apiErr.Description, "chat not found")
}

func TestClient_NonJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL))
	err := c.SendChatAction(context.Background(), 1, ChatActionTyping)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_OversizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":true,"pad":"`))
		_, _ = w.Write([]byte(strings.Repeat("x", maxBodySize)))
		_, _ = w.Write([]byte(`"}`))
	}))
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL))
	err := c.SendChatAction(context.Background(), 1, ChatActionTyping)
	require.Error(t, err)
}

func TestClient_ErrorsDoNotLeakToken(t *testing.T) {
	c := NewClient(testToken, WithAPIURL("http://127.0.0.1:1"), WithTimeout(time.Second))

	err := c.SendMessage(context.Background(), 1, "x", ParseModeNone)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testToken)
}

func TestClient_GetUpdates(t *testing.T) {
	server := botServer(t, "getUpdates", func(body map[string]interface{}) string {
		assert.Equal(t, float64(7), body["offset"])
		assert.Equal(t, float64(1), body["timeout"])
		assert.Equal(t, []interface{}{"message"}, body["allowed_updates"])
		return `{"ok":true,"result":[
			{"update_id":7,"message":{"message_id":3,"chat":{"id":99,"type":"private"},"date":1,"text":"/start"}},
			{"update_id":8}
		]}`
	})
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL))
	updates, err := c.GetUpdates(context.Background(), 7, time.Second)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	assert.Equal(t, int64(7), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, int64(99), updates[0].Message.Chat.ID)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Nil(t, updates[1].Message)
}

func TestClient_SetAndDeleteWebhook(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if strings.HasSuffix(r.URL.Path, "setWebhook") {
			assert.Equal(t, "https://bot.example.com/telegram/webhook", body["url"])
			assert.Equal(t, "s3cret", body["secret_token"])
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}))
	defer server.Close()

	c := NewClient(testToken, WithAPIURL(server.URL))
	require.NoError(t, c.SetWebhook(context.Background(), "https://bot.example.com/telegram/webhook", "s3cret"))
	require.NoError(t, c.DeleteWebhook(context.Background()))
	assert.Equal(t, []string{"setWebhook", "deleteWebhook"}, calls)
}

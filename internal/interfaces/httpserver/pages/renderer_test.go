package pages

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-share/internal/domain/conversation"
)

func testConversation(title *string) *conversation.Conversation {
	return &conversation.Conversation{
		ID:    "conv1",
		Title: title,
		Messages: []conversation.Message{
			{ID: "m0", Role: conversation.MessageRoleSystem, Content: "secret system prompt"},
			{ID: "m1", Role: conversation.MessageRoleUser, Content: "What is **Go**?"},
			{ID: "m2", Role: conversation.MessageRoleAssistant, Content: "A language.<script>alert(1)</script>"},
		},
	}
}

func TestRenderer_ChatPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	title := strings.Repeat("a", 60)
	var buf bytes.Buffer
	require.NoError(t, r.ChatPage(&buf, testConversation(&title), "https://example.com/share/conv1"))

	html := buf.String()
	assert.Contains(t, html, "<title>"+strings.Repeat("a", 50)+"</title>")
	assert.NotContains(t, html, strings.Repeat("a", 51))
	assert.Contains(t, html, "<strong>Go</strong>")
	assert.Contains(t, html, "https://example.com/share/conv1")
	assert.NotContains(t, html, "secret system prompt")
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestRenderer_SharePageDefaultsTitle(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.SharePage(&buf, testConversation(nil)))

	html := buf.String()
	assert.Contains(t, html, "<title>Chat</title>")
	assert.Contains(t, html, "read only")
}

func TestRenderer_EscapesTitle(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	title := "<b>bold</b>"
	var buf bytes.Buffer
	require.NoError(t, r.SharePage(&buf, testConversation(&title)))

	assert.Contains(t, buf.String(), "&lt;b&gt;bold&lt;/b&gt;")
}

func TestRenderer_NotFound(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.NotFound(&buf))
	assert.Contains(t, buf.String(), "404")
}

// Package pages renders conversations as HTML documents.
package pages

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"jan-server/services/chat-share/internal/domain/conversation"
)

//go:embed templates/*.html
var templateFS embed.FS

// MessageView is one rendered message.
type MessageView struct {
	Role string
	HTML template.HTML
}

// PageView is the data passed to the layout template.
type PageView struct {
	Title    string
	ReadOnly bool
	ShareURL string
	Messages []MessageView
}

// Renderer turns conversations into HTML pages. Message content is treated as
// Markdown; raw HTML inside it is not passed through.
type Renderer struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	return &Renderer{
		tmpl:     tmpl,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// ChatPage renders the owner's view of a conversation.
func (r *Renderer) ChatPage(w io.Writer, conv *conversation.Conversation, shareURL string) error {
	return r.render(w, conv, conv.VisibleMessages(), false, shareURL)
}

// SharePage renders the public read-only view of a shared conversation.
func (r *Renderer) SharePage(w io.Writer, conv *conversation.Conversation) error {
	return r.render(w, conv, conv.VisibleMessages(), true, "")
}

func (r *Renderer) render(w io.Writer, conv *conversation.Conversation, messages []conversation.Message, readOnly bool, shareURL string) error {
	view := PageView{
		Title:    conversation.PageTitle(conv.Title),
		ReadOnly: readOnly,
		ShareURL: shareURL,
		Messages: make([]MessageView, 0, len(messages)),
	}
	for _, m := range messages {
		html, err := r.markdownToHTML(m.Content)
		if err != nil {
			return fmt.Errorf("render message %s: %w", m.ID, err)
		}
		view.Messages = append(view.Messages, MessageView{Role: string(m.Role), HTML: html})
	}

	// Buffer so a template error never leaves a half-written page.
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", view); err != nil {
		return fmt.Errorf("execute layout: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) markdownToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	// goldmark omits raw HTML unless html.WithUnsafe is set.
	return template.HTML(buf.String()), nil
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "not_found", nil)
}

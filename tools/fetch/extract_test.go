package fetch

import (
	"reflect"
	"strings"
	"testing"
)

const samplePage = `<!doctype html>
<html lang="id">
<head>
  <title>  Halaman   Contoh </title>
  <meta name="description" content="First description">
  <meta property="og:description" content="Second description">
  <style>body { color: red }</style>
  <script>var hidden = "do not show";</script>
</head>
<body>
  <h1>Selamat   datang</h1>
  <p>Visible
     text</p>
  <a href="/about" title="About us">About</a>
  <a href="https://other.example.test/x?y=1">External</a>
  <a href="#top">Top</a>
  <a>no href</a>
  <noscript><p>Enable JS</p></noscript>
</body>
</html>`

func TestExtract(t *testing.T) {
	ext := Extract(samplePage, "https://docs.example.test/dir/page.html", true)

	if ext.Title != "Halaman   Contoh" {
		t.Errorf("Title = %q", ext.Title)
	}
	if ext.Description != "First description" {
		t.Errorf("Description = %q, want first description to win", ext.Description)
	}
	if ext.Language != "id" {
		t.Errorf("Language = %q", ext.Language)
	}
	if ext.ScriptCount != 1 {
		t.Errorf("ScriptCount = %d", ext.ScriptCount)
	}
	if want := "Selamat datang Visible text About External Top no href Enable JS"; ext.Text != want {
		t.Errorf("Text = %q, want %q", ext.Text, want)
	}
	if strings.Contains(ext.Text, "hidden") || strings.Contains(ext.Text, "color") {
		t.Errorf("script or style leaked into text: %q", ext.Text)
	}

	wantLinks := []Link{
		{URL: "https://docs.example.test/about", Text: "About us"},
		{URL: "https://other.example.test/x?y=1", Text: ""},
		{URL: "https://docs.example.test/dir/page.html#top", Text: ""},
	}
	if !reflect.DeepEqual(ext.Links, wantLinks) {
		t.Errorf("Links = %#v, want %#v", ext.Links, wantLinks)
	}
}

func TestExtractWithoutLinks(t *testing.T) {
	ext := Extract(samplePage, "https://docs.example.test/", false)
	if ext.Links != nil {
		t.Errorf("Links = %v, want nil when not collecting", ext.Links)
	}
}

func TestExtractEmptyLinks(t *testing.T) {
	ext := Extract("<p>nothing here</p>", "https://docs.example.test/", true)
	if ext.Links == nil || len(ext.Links) != 0 {
		t.Errorf("Links = %#v, want empty non-nil slice", ext.Links)
	}
}

func TestExtractContentLanguage(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "meta fallback",
			markup: `<html><head><meta http-equiv="Content-Language" content="en-GB, fr"></head></html>`,
			want:   "en-GB",
		},
		{
			name:   "html lang wins",
			markup: `<html lang="de"><head><meta http-equiv="content-language" content="en"></head></html>`,
			want:   "de",
		},
		{
			name:   "none",
			markup: `<html><body>x</body></html>`,
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.markup, "", false).Language; got != tt.want {
				t.Errorf("Language = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractMalformed(t *testing.T) {
	ext := Extract(`<html><body><p>text <b>bold <script>x=1`, "", false)
	if ext.ScriptCount != 1 {
		t.Errorf("ScriptCount = %d", ext.ScriptCount)
	}
	if ext.Text != "text bold" {
		t.Errorf("Text = %q, want %q", ext.Text, "text bold")
	}
}

func TestExtractScriptCountSelfClosing(t *testing.T) {
	markup := `<script src="a.js"/>var a = 1;</script><script src="b.js"></script><p>after</p>`
	ext := Extract(markup, "", false)
	if ext.ScriptCount != 2 {
		t.Errorf("ScriptCount = %d, want 2", ext.ScriptCount)
	}
	if ext.Text != "after" {
		t.Errorf("Text = %q, want %q", ext.Text, "after")
	}
}

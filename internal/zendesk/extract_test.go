package zendesk

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractArticlePrefersArticleBodyClass(t *testing.T) {
	page := `<html><body>
		<h1>Configure Snowflake</h1>
		<main>wrong container</main>
		<div class="sidebar article-body">
			<p>Step one.</p>
			<p>Step two.</p>
		</div>
	</body></html>`

	title, content, err := ExtractArticle([]byte(page))
	if err != nil {
		t.Fatalf("ExtractArticle: %v", err)
	}
	if title != "Configure Snowflake" {
		t.Errorf("title = %q", title)
	}
	if content != "Step one.\nStep two." {
		t.Errorf("content = %q", content)
	}
}

func TestExtractArticleSelectorPriority(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"article-content class", `<div class="article-content">from class</div>`, "from class"},
		{"article__body class", `<div class="article__body">from bem class</div>`, "from bem class"},
		{"article-body id", `<div id="article-body">from id</div>`, "from id"},
		{"article tag", `<article>from article tag</article>`, "from article tag"},
		{"main tag", `<main>from main tag</main>`, "from main tag"},
	}
	for _, tc := range cases {
		_, content, err := ExtractArticle([]byte("<html><body><h1>t</h1>" + tc.html + "</body></html>"))
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if content != tc.want {
			t.Errorf("%s: content = %q, want %q", tc.name, content, tc.want)
		}
	}
}

func TestExtractArticleStripsChrome(t *testing.T) {
	page := `<html><body><h1>Title</h1>
	<div class="article-body">
		<script>var x = 1;</script>
		<style>.a { color: red }</style>
		<nav>breadcrumbs</nav>
		<header>page header</header>
		<footer>page footer</footer>
		<aside>related links</aside>
		<p>Real content survives.</p>
	</div></body></html>`

	_, content, err := ExtractArticle([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	if content != "Real content survives." {
		t.Errorf("content = %q", content)
	}
}

func TestExtractArticleCollapsesWhitespace(t *testing.T) {
	page := "<html><body><h1>T</h1><div class=\"article-body\"><p>a  b   c</p><p>next\n\n\n\nparagraph</p></div></body></html>"

	_, content, err := ExtractArticle([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(content, "  ") {
		t.Errorf("space runs survived: %q", content)
	}
	if strings.Contains(content, "\n\n\n") {
		t.Errorf("blank line runs survived: %q", content)
	}
}

func TestExtractArticleNoTitleFallback(t *testing.T) {
	title, _, err := ExtractArticle([]byte(`<html><body><article>text</article></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if title != "No Title" {
		t.Errorf("title = %q, want No Title", title)
	}
}

func TestExtractArticleNoBody(t *testing.T) {
	_, _, err := ExtractArticle([]byte(`<html><body><h1>only a heading</h1></body></html>`))
	if !errors.Is(err, ErrNoArticleBody) {
		t.Fatalf("err = %v, want ErrNoArticleBody", err)
	}
}

func TestLinksResolvesRelative(t *testing.T) {
	page := `<html><body>
		<a href="/hc/en-us/articles/123-setup">Setup</a>
		<a href="https://other.example.com/page">External</a>
		<a href="mailto:support@example.com">Mail</a>
		<a href="#fragment">Anchor</a>
	</body></html>`

	links, err := Links([]byte(page), "https://help.example.com/hc/en-us")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"https://help.example.com/hc/en-us/articles/123-setup",
		"https://other.example.com/page",
		"https://help.example.com/hc/en-us#fragment",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("links[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	got, err := Normalize("HTTPS://Help.Example.com:443/hc//en-us/articles/1#step-2")
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://help.example.com/hc/en-us/articles/1" {
		t.Errorf("Normalize = %q", got)
	}
}

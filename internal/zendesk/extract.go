package zendesk

import (
	"bytes"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoArticleBody is returned when none of the known content containers
// exist in the page.
var ErrNoArticleBody = errors.New("zendesk: no article body found")

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	spaceRuns  = regexp.MustCompile(` +`)
)

// Help centers differ in how they mark the article container, so matching
// runs through these in order and takes the first hit.
var contentSelectors = []func(*html.Node) *html.Node{
	func(doc *html.Node) *html.Node { return findClass(doc, "article-body") },
	func(doc *html.Node) *html.Node { return findClass(doc, "article-content") },
	func(doc *html.Node) *html.Node { return findClass(doc, "article__body") },
	func(doc *html.Node) *html.Node { return findID(doc, "article-body") },
	func(doc *html.Node) *html.Node { return findTag(doc, "article") },
	func(doc *html.Node) *html.Node { return findTag(doc, "main") },
}

// Elements whose text is page chrome rather than article content.
var skipTags = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
	"aside":  true,
}

// ExtractArticle pulls the title and the cleaned article text out of a
// help-center page.
func ExtractArticle(page []byte) (title, content string, err error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", "", err
	}

	title = "No Title"
	if h1 := findTag(doc, "h1"); h1 != nil {
		if t := strings.TrimSpace(nodeText(h1)); t != "" {
			title = t
		}
	}

	var body *html.Node
	for _, selector := range contentSelectors {
		if body = selector(doc); body != nil {
			break
		}
	}
	if body == nil {
		return "", "", ErrNoArticleBody
	}

	content = cleanText(body)
	return title, content, nil
}

// Links returns the absolute URL of every anchor on the page, resolved
// against baseURL. Non-HTTP schemes are dropped.
func Links(page []byte, baseURL string) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if resolved := resolveLink(strings.TrimSpace(attr.Val), base); resolved != "" {
					links = append(links, resolved)
				}
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func resolveLink(ref string, base *url.URL) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(u)
	scheme := strings.ToLower(abs.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	return abs.String()
}

// cleanText flattens the container to text: each text fragment is trimmed,
// empties are dropped, fragments join with newlines, and whitespace runs
// collapse.
func cleanText(n *html.Node) string {
	var fragments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				fragments = append(fragments, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	text := strings.Join(fragments, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return text
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findTag(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTag(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func findID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

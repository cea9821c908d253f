package ingest

import (
	"archive/zip"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is one loaded file, flattened to plain text.
type Document struct {
	Source  string
	Type    string
	Content string
}

// Directories and files that hold no knowledge-base content. The
// zendesk_articles dump duplicates the snapshot JSON article by article.
var skipDirs = map[string]bool{
	"zendesk_articles": true,
}

var skipFiles = map[string]bool{
	"README.md": true,
}

// LoadDirectory loads every supported file under dir: .txt, .md, .json,
// .docx and .pdf. Hidden files and directories are skipped; files that
// fail to load are logged and skipped.
func LoadDirectory(dir string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && (skipDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if skipFiles[name] || strings.HasPrefix(name, ".") {
			return nil
		}
		doc, ok, err := loadFile(path)
		if err != nil {
			slog.Warn("failed to load document", "path", path, "error", err)
			return nil
		}
		if ok {
			docs = append(docs, doc)
			slog.Info("document loaded", "source", doc.Source, "type", doc.Type, "chars", len(doc.Content))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func loadFile(path string) (Document, bool, error) {
	name := filepath.Base(path)
	var (
		content string
		docType string
		err     error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		content, err = loadText(path)
		docType = "text"
	case ".md":
		content, err = loadText(path)
		docType = "markdown"
	case ".json":
		content, err = loadJSON(path)
		docType = "json"
		if strings.Contains(strings.ToLower(name), "zendesk") {
			docType = "zendesk"
		}
	case ".docx":
		content, err = loadDocx(path)
		docType = "word"
	case ".pdf":
		content, err = loadPDF(path)
		docType = "pdf"
	default:
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, err
	}
	return Document{Source: name, Type: docType, Content: content}, true, nil
}

func loadText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// loadJSON flattens the two JSON shapes we index: article dumps (a list
// of objects with a title) and chat exports (a list of sender/content
// messages). Anything else is indexed as raw text.
func loadJSON(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var list []map[string]any
	if err := json.Unmarshal(raw, &list); err != nil {
		return string(raw), nil
	}
	if len(list) > 0 {
		if _, ok := list[0]["title"]; ok {
			return flattenArticles(list), nil
		}
	}
	return flattenChat(list), nil
}

func flattenArticles(list []map[string]any) string {
	var b strings.Builder
	for _, article := range list {
		fmt.Fprintf(&b, "ARTICLE: %s\n", stringField(article, "title", "Unknown"))
		if url := stringField(article, "url", ""); url != "" {
			fmt.Fprintf(&b, "SOURCE: %s\n", url)
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", strings.Repeat("=", 80), stringField(article, "content", ""))
	}
	return b.String()
}

func flattenChat(list []map[string]any) string {
	var b strings.Builder
	for _, msg := range list {
		fmt.Fprintf(&b, "%s: %s\n\n", stringField(msg, "sender", "Unknown"), stringField(msg, "content", ""))
	}
	return b.String()
}

func stringField(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

// loadDocx pulls the paragraph text out of a Word document, which is a
// zip archive with the body in word/document.xml.
func loadDocx(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer archive.Close()
	for _, f := range archive.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return docxText(rc)
	}
	return "", fmt.Errorf("ingest: %s: no word/document.xml", filepath.Base(path))
}

// docxText collects run text (<w:t>) and starts a new line at the end of
// every paragraph (</w:p>).
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inRun {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func loadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

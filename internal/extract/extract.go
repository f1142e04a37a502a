// Package extract reduces raw HTML to readable text. It is used when the
// reader proxy runs in raw-proxy mode and hands back the page markup instead
// of rendered text.
package extract

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// LooksLikeHTML is a cheap guard so already-rendered reader output is not
// run through the HTML walker.
func LooksLikeHTML(s string) bool {
	head := strings.ToLower(strings.TrimSpace(s))
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<body")
}

// Text extracts readable text from HTML, preferring <main> or <article> and
// falling back to <body>, skipping script/style/nav/footer boilerplate. On
// parse failure it returns the input unchanged so a record is never emptied
// by the extraction step.
func Text(raw string) string {
	node, err := html.Parse(bytes.NewReader([]byte(raw)))
	if err != nil || node == nil {
		return raw
	}
	root := findFirst(node, "main")
	if root == nil {
		root = findFirst(node, "article")
	}
	if root == nil {
		root = findFirst(node, "body")
	}
	if root == nil {
		return raw
	}
	var b strings.Builder
	collectText(&b, root)
	out := strings.TrimSpace(b.String())
	if out == "" {
		return raw
	}
	return out
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript", "nav", "footer", "aside", "iframe":
			return
		case "br", "hr", "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "tr", "div":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li":
			b.WriteString("\n")
		}
	}
}

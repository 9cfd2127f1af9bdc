package analysis

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// SiteSummary is what we could learn about a team from its public
// website. Open Graph values win over the plain tags when both exist.
type SiteSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Extract walks an HTML document and pulls the title, meta description
// and Open Graph tags. Malformed markup is tolerated; x/net/html repairs
// what it can and we take whatever survives.
func Extract(r io.Reader) (*SiteSummary, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	summary := &SiteSummary{}
	var ogTitle, ogDescription string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if summary.Title == "" && n.FirstChild != nil {
					summary.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, property, content := metaAttrs(n)
				switch {
				case name == "description":
					summary.Description = content
				case property == "og:title":
					ogTitle = content
				case property == "og:description":
					ogDescription = content
				case property == "og:image":
					summary.ImageURL = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if ogTitle != "" {
		summary.Title = ogTitle
	}
	if ogDescription != "" {
		summary.Description = ogDescription
	}
	return summary, nil
}

func metaAttrs(n *html.Node) (name, property, content string) {
	for _, attr := range n.Attr {
		val := strings.TrimSpace(attr.Val)
		switch strings.ToLower(attr.Key) {
		case "name":
			name = strings.ToLower(val)
		case "property":
			property = strings.ToLower(val)
		case "content":
			content = val
		}
	}
	return name, property, content
}

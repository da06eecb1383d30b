package importer

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/nikbrunner/speeddial/internal/model"
)

// RootGroupName holds bookmarks that sit outside any folder.
const RootGroupName = "Imported"

// PathSeparator joins nested folder names into one group name.
const PathSeparator = " / "

// ParseHTMLGroups parses Netscape bookmark HTML into speed dial groups.
// Every folder becomes a group named by its full path; nested folders are
// flattened. Sites carry no ids; they are assigned on import.
func ParseHTMLGroups(r io.Reader) ([]model.Group, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	root := model.Group{Name: RootGroupName, Sites: []model.Site{}}
	var groups []model.Group

	// Track current folder path, each entry indexes into groups
	var stack []int
	pending := -1 // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				name := getTextContent(n)
				if name != "" {
					if len(stack) > 0 {
						name = groups[stack[len(stack)-1]].Name + PathSeparator + name
					}
					groups = append(groups, model.Group{Name: name, Sites: []model.Site{}})
					pending = len(groups) - 1
				}
				return // Don't recurse into H3

			case "a":
				href := strings.TrimSpace(getAttr(n, "href"))
				if href == "" {
					return
				}
				site := model.Site{
					Name: getTextContent(n),
					URL:  href,
				}
				// Browsers embed the favicon as a data URI
				if icon := getAttr(n, "icon"); strings.HasPrefix(icon, "data:image/") {
					site.Thumbnail = icon
				}

				if len(stack) > 0 {
					idx := stack[len(stack)-1]
					groups[idx].Sites = append(groups[idx].Sites, site)
				} else {
					root.Sites = append(root.Sites, site)
				}
				return // Don't recurse into A

			case "dl":
				pushed := false
				if pending >= 0 {
					stack = append(stack, pending)
					pending = -1
					pushed = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushed {
					stack = stack[:len(stack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)

	if len(root.Sites) > 0 {
		groups = append([]model.Group{root}, groups...)
	}
	return groups, nil
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}

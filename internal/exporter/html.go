package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/speeddial/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/speeddial-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("speeddial-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML writes the groups as Netscape bookmark HTML, one folder per group.
func ExportHTML(groups []model.Group) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, group := range groups {
		writeGroup(&b, group)
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

func writeGroup(b *strings.Builder, group model.Group) {
	const prefix = "    "

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(group.Name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)

	for _, site := range group.Sites {
		var icon string
		// Only embedded images survive a re-import
		if strings.HasPrefix(site.Thumbnail, "data:image/") {
			icon = fmt.Sprintf(" ICON=\"%s\"", html.EscapeString(site.Thumbnail))
		}
		fmt.Fprintf(b,
			"%s%s<DT><A HREF=\"%s\"%s>%s</A>\n",
			prefix, prefix,
			html.EscapeString(site.URL),
			icon,
			html.EscapeString(site.Name),
		)
	}

	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

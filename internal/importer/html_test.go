package importer_test

import (
	"strings"
	"testing"

	"github.com/nikbrunner/speeddial/internal/importer"
)

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	groups, err := importer.ParseHTMLGroups(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].Name != importer.RootGroupName {
		t.Errorf("expected root group %q, got %q", importer.RootGroupName, groups[0].Name)
	}
	if len(groups[0].Sites) != 1 {
		t.Fatalf("expected 1 site, got %d", len(groups[0].Sites))
	}

	s := groups[0].Sites[0]
	if s.Name != "Example Site" {
		t.Errorf("expected name 'Example Site', got %q", s.Name)
	}
	if s.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", s.URL)
	}
	if s.ID != "" {
		t.Errorf("expected no id before import, got %q", s.ID)
	}
}

func TestParseHTML_NestedFoldersAreFlattened(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	groups, err := importer.ParseHTMLGroups(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		name  string
		sites []string
	}{
		{name: "Imported", sites: []string{"Google"}},
		{name: "Development", sites: []string{"GitHub"}},
		{name: "Development / React", sites: []string{"React Docs"}},
	}

	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d: %+v", len(want), len(groups), groups)
	}
	for i, w := range want {
		g := groups[i]
		if g.Name != w.name {
			t.Errorf("group %d: expected %q, got %q", i, w.name, g.Name)
		}
		if len(g.Sites) != len(w.sites) {
			t.Errorf("group %q: expected %d sites, got %d", g.Name, len(w.sites), len(g.Sites))
			continue
		}
		for j, name := range w.sites {
			if g.Sites[j].Name != name {
				t.Errorf("group %q site %d: expected %q, got %q", g.Name, j, name, g.Sites[j].Name)
			}
		}
	}
}

func TestParseHTML_EmptyFile(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
</DL><p>`

	groups, err := importer.ParseHTMLGroups(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(groups))
	}
}

func TestParseHTML_Icons(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><A HREF="https://example.com" ICON="data:image/png;base64,AAAA">With Icon</A>
    <DT><A HREF="https://other.com" ICON="https://other.com/favicon.ico">Remote Icon</A>
</DL><p>`

	groups, err := importer.ParseHTMLGroups(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sites := groups[0].Sites
	if len(sites) != 2 {
		t.Fatalf("expected 2 sites, got %d", len(sites))
	}
	if sites[0].Thumbnail != "data:image/png;base64,AAAA" {
		t.Errorf("expected embedded icon, got %q", sites[0].Thumbnail)
	}
	if sites[1].Thumbnail != "" {
		t.Errorf("expected remote icon to be ignored, got %q", sites[1].Thumbnail)
	}
}

func TestParseHTML_MissingHref(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><A ADD_DATE="1234567890">No URL</A>
    <DT><A HREF="https://valid.com" ADD_DATE="1234567890">Valid</A>
</DL><p>`

	groups, err := importer.ParseHTMLGroups(strings.NewReader(html))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should skip bookmark without HREF, keep valid one
	if len(groups) != 1 || len(groups[0].Sites) != 1 {
		t.Fatalf("expected 1 site (skip missing href), got %+v", groups)
	}
	if groups[0].Sites[0].Name != "Valid" {
		t.Errorf("expected 'Valid' site, got %q", groups[0].Sites[0].Name)
	}
}

// Package docs holds the Markdown help pages shipped inside the binary.
package docs

import (
	"bufio"
	"embed"
	"sort"
	"strings"
)

//go:embed content/*.md
var contentFS embed.FS

// Topic is one help page. Title comes from the page's first level-one heading.
type Topic struct {
	Name  string
	Title string
}

// List returns every help page ordered by name.
func List() []Topic {
	dir, err := contentFS.ReadDir("content")
	if err != nil {
		return nil
	}
	out := make([]Topic, 0, len(dir))
	for _, d := range dir {
		name, ok := strings.CutSuffix(d.Name(), ".md")
		if !ok || d.IsDir() || name == "" {
			continue
		}
		body, _ := contentFS.ReadFile("content/" + d.Name())
		out = append(out, Topic{Name: name, Title: titleOf(string(body), name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Topics returns the page names from List.
func Topics() []string {
	list := List()
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Name
	}
	return names
}

// Get returns the Markdown source for a page. Lookup ignores case and treats
// spaces and underscores as dashes, so "File Format" finds file-format.
func Get(name string) (string, bool) {
	name = normalize(name)
	if name == "" {
		return "", false
	}
	b, err := contentFS.ReadFile("content/" + name + ".md")
	if err != nil {
		return "", false
	}
	return string(b), true
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "-", "_", "-").Replace(name)
	name = strings.TrimSuffix(name, ".md")
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return ""
		}
	}
	return name
}

func titleOf(body, fallback string) string {
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		if t, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "# "); ok {
			return strings.TrimSpace(t)
		}
	}
	return fallback
}

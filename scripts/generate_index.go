// Command generate-index builds the release download page. It converts
// README.md to HTML, scans a goreleaser dist directory for archives, and
// writes dist/index.html with the Installation section replaced by a
// download table that links the detected archives.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// archivePattern matches goreleaser output like
// jqx_0.3.0_Linux_x86_64.tar.gz and captures the version.
var archivePattern = regexp.MustCompile(`^jqx_([^_]+(?:-[^_]+)*)_(?:Darwin|Linux|Windows)_(?:arm64|x86_64)\.(?:tar\.gz|zip)$`)

// platforms maps archive name markers to display rows, in page order.
var platforms = []struct {
	marker string
	label  string
}{
	{"Darwin_arm64", "macOS (Apple Silicon)"},
	{"Darwin_x86_64", "macOS (Intel)"},
	{"Linux_arm64", "Linux (ARM64)"},
	{"Linux_x86_64", "Linux (x86_64)"},
	{"Windows_arm64", "Windows (ARM64)"},
	{"Windows_x86_64", "Windows (x86_64)"},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <dist-dir>\n", os.Args[0])
		os.Exit(1)
	}
	distDir := os.Args[1]

	readme, err := os.ReadFile("README.md")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read README.md: %v\n", err)
		os.Exit(1)
	}

	archives, version := scanArchives(distDir)

	body := renderMarkdown(readme)
	body = replaceInstallSection(body, downloadsTable(archives, version))

	out := filepath.Join(distDir, "index.html")
	page := pageHeader + body + pageFooter
	if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "generated %s\n", out)
}

// renderMarkdown converts README markdown to an HTML fragment.
func renderMarkdown(src []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return string(markdown.Render(p.Parse(src), renderer))
}

// scanArchives lists release archives in distDir (flat goreleaser layout)
// and extracts the version from the first matching name.
func scanArchives(distDir string) (names []string, version string) {
	version = "unknown"
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return nil, version
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.Contains(name, "SHA256") {
			continue
		}
		if !strings.HasSuffix(name, ".tar.gz") && !strings.HasSuffix(name, ".zip") {
			continue
		}
		names = append(names, name)
		if m := archivePattern.FindStringSubmatch(name); len(m) >= 2 && version == "unknown" {
			version = m[1]
		}
	}
	return names, version
}

// downloadsTable renders the per-platform download rows. Links are relative:
// index.html sits next to the archives.
func downloadsTable(archives []string, version string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  <div class=\"downloads\">\n    <h2>Downloads</h2>\n    <p class=\"release\">%s</p>\n    <table>\n", version)
	for _, plat := range platforms {
		for _, name := range archives {
			if strings.Contains(name, plat.marker) {
				fmt.Fprintf(&sb, "      <tr><td>%s</td><td><a href=\"%s\">%s</a></td></tr>\n", plat.label, name, name)
				break
			}
		}
	}
	sb.WriteString("    </table>\n  </div>\n")
	return sb.String()
}

// replaceInstallSection swaps the README's Installation section (everything
// up to the next h2) for the download table plus extraction instructions.
// The fragment passes through untouched when no such section exists.
func replaceInstallSection(body, table string) string {
	start := strings.Index(body, `<h2 id="install">`)
	if start == -1 {
		start = strings.Index(body, `<h2 id="installation">`)
	}
	if start == -1 {
		return body
	}
	rest := body[start+len(`<h2 id="install">`):]
	next := strings.Index(rest, `<h2 id="`)
	if next == -1 {
		return body
	}
	end := start + len(`<h2 id="install">`) + next

	section := `<h2 id="installation">Installation</h2>

` + table + `
<p>Extract the archive and put the binary on your PATH:</p>

<pre><code class="language-bash"># macOS / Linux
tar -xzf jqx_*.tar.gz
sudo mv jqx /usr/local/bin/

# Windows: extract the .zip and add jqx.exe to your PATH
</code></pre>

`
	return body[:start] + section + body[end:]
}

const pageHeader = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>jqx - Interactive jq Query Editor</title>
  <style>
    body { font-family: system-ui, -apple-system, sans-serif; max-width: 860px; margin: 40px auto; padding: 0 20px; line-height: 1.55; color: #2d2a26; }
    h1 { color: #b45309; border-bottom: 2px solid #b45309; padding-bottom: 8px; }
    h2 { color: #92400e; margin-top: 28px; }
    h3 { color: #78350f; }
    code { background: #f5f1ea; padding: 2px 5px; border-radius: 3px; font-family: ui-monospace, Menlo, monospace; font-size: 0.9em; }
    pre { background: #292524; color: #e7e5e4; padding: 14px; border-radius: 6px; overflow-x: auto; }
    pre code { background: none; color: inherit; padding: 0; }
    a { color: #b45309; }
    .downloads { background: #fffbeb; border-left: 4px solid #b45309; border-radius: 6px; padding: 18px; margin: 18px 0; }
    .downloads h2 { margin-top: 0; }
    .downloads .release { color: #78350f; font-weight: 600; margin: 4px 0 10px; }
    .downloads table { border-collapse: collapse; width: 100%; }
    .downloads td { padding: 5px 8px; }
    .downloads td:first-child { font-weight: 500; color: #78350f; width: 220px; }
    .downloads a { text-decoration: none; font-family: ui-monospace, Menlo, monospace; font-size: 0.9em; }
    .downloads a:hover { text-decoration: underline; }
  </style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`

// Package components renders the shell as HTML for datastar patches.
//
// Components are plain templ.Component values built with
// templ.ComponentFunc; every dynamic string goes through templ.EscapeString.
package components

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/overlay"
	"github.com/leapstack-labs/cubedash/internal/shell"
	"github.com/leapstack-labs/cubedash/internal/ui/resources"
)

// DatastarScript is the datastar client bundle.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// ShellID is the element id the shell is patched into.
const ShellID = "shell"

// Signals are the datastar signals the page exchanges with the server.
type Signals struct {
	Hash   string `json:"hash"`
	Source string `json:"source"`
	Suffix string `json:"suffix"`
}

// Page renders the full document. The shell itself is patched in once the
// browser has posted its fragment.
func Page(title string, isDev bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(Signals{})
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("<!doctype html>\n<html lang=\"en\"><head>")
		b.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, "<title>%s - cubedash</title>", esc(title))
		fmt.Fprintf(&b, `<link rel="stylesheet" href="%s">`, esc(resources.StaticPath("shell.css")))
		fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, esc(DatastarScript))
		b.WriteString("</head><body>")

		fmt.Fprintf(&b, `<div id="nav" data-signals="%s"`, esc(string(signals)))
		b.WriteString(` data-init="$hash = window.location.hash; @post('/nav/mount')"`)
		b.WriteString(` data-on:hashchange__window="$hash = window.location.hash; @post('/nav/hash')"></div>`)
		b.WriteString(`<div id="updates" data-init="@get('/updates')"></div>`)
		if isDev {
			b.WriteString(`<div id="reload" data-init="@get('/reload')"></div>`)
		}
		fmt.Fprintf(&b, `<main id="%s" class="cubedash-application"><div class="loading">Loading…</div></main>`, ShellID)
		b.WriteString("</body></html>")

		_, err = io.WriteString(w, b.String())
		return err
	})
}

// Shell renders the view derived for one session. bundles holds the
// acquired overlay bundles; their assets are inlined next to the overlay.
func Shell(v shell.View, bundles []overlay.Bundle) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<main id="%s" class="cubedash-application" data-view="%s">`, ShellID, esc(v.Kind.Tag()))

		switch h := v.Header.(type) {
		case shell.CubeHeader:
			writeCubeHeader(&b, h)
		case shell.HomeHeader:
			writeHomeHeader(&b, h)
		}

		switch body := v.Body.(type) {
		case shell.CubeBody:
			writeCubeView(&b, body)
		case shell.HomeBody:
			writeHomeView(&b, body)
		}

		writeBundles(&b, bundles)

		if v.Transition != nil {
			fmt.Fprintf(&b,
				`<div class="side-drawer-container" data-transition="%s" data-enter-timeout="%d" data-leave-timeout="%d">`,
				esc(v.Transition.Name), v.Transition.Enter.Milliseconds(), v.Transition.Leave.Milliseconds())
			if v.Overlay != nil {
				writeSideDrawer(&b, *v.Overlay)
			}
			b.WriteString("</div>")
		} else if v.Overlay != nil {
			writeSideDrawer(&b, *v.Overlay)
		}

		b.WriteString("</main>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeHomeHeader(b *strings.Builder, h shell.HomeHeader) {
	b.WriteString(`<header class="header-bar home-header-bar"><span class="title">cubedash</span>`)
	if h.Version != "" {
		fmt.Fprintf(b, `<span class="version">v%s</span>`, esc(h.Version))
	}
	if !h.HideGitHubIcon {
		writeGitHubIcon(b)
	}
	b.WriteString("</header>")
}

func writeCubeHeader(b *strings.Builder, h shell.CubeHeader) {
	style := ""
	if h.Color != "" {
		style = fmt.Sprintf(` style="background:%s"`, esc(h.Color))
	}
	fmt.Fprintf(b, `<header class="header-bar cube-header-bar"%s>`, style)
	b.WriteString(`<button class="nav-toggle" data-on:click="@post('/nav/drawer/open')">☰</button>`)
	fmt.Fprintf(b, `<span class="title">%s</span>`, esc(h.DataSource.DisplayTitle()))
	if h.ShowLastUpdated {
		b.WriteString(`<span class="last-updated">updated recently</span>`)
	}
	if !h.HideGitHubIcon {
		writeGitHubIcon(b)
	}
	b.WriteString("</header>")
}

func writeGitHubIcon(b *strings.Builder) {
	b.WriteString(`<a class="github-icon" href="https://github.com/leapstack-labs/cubedash">GitHub</a>`)
}

func writeHomeView(b *strings.Builder, body shell.HomeBody) {
	b.WriteString(`<section class="home-view"><ul class="data-sources">`)
	for _, ds := range body.DataSources {
		writeDataSourceItem(b, ds, false)
	}
	b.WriteString("</ul></section>")
}

func writeCubeView(b *strings.Builder, body shell.CubeBody) {
	suffix := body.Suffix()
	fmt.Fprintf(b, `<section class="cube-view" id="cube-view-%s" data-data-source="%s" data-max-filters="%d" data-max-splits="%d">`,
		esc(body.DataSource.Name), esc(body.DataSource.Name), body.MaxFilters, body.MaxSplits)
	fmt.Fprintf(b, `<h2>%s</h2>`, esc(body.DataSource.DisplayTitle()))
	if body.DataSource.Description != "" {
		fmt.Fprintf(b, `<p class="description">%s</p>`, esc(body.DataSource.Description))
	}
	fmt.Fprintf(b, `<p class="hash">%s</p>`, esc(body.Hash))
	fmt.Fprintf(b, `<input class="view-state" value="%s" data-bind:suffix>`, esc(suffix))
	b.WriteString(`<button class="update-hash" data-on:click="@post('/nav/commit')">Update address</button>`)
	b.WriteString("</section>")
}

func writeSideDrawer(b *strings.Builder, o shell.Overlay) {
	b.WriteString(`<aside class="side-drawer">`)
	b.WriteString(`<button class="close" data-on:click="@post('/nav/drawer/close')">×</button>`)
	b.WriteString(`<ul class="data-sources">`)
	for _, ds := range o.DataSources {
		writeDataSourceItem(b, ds, ds.Equal(o.Selected))
	}
	b.WriteString("</ul>")
	if o.HomeLink != "" {
		fmt.Fprintf(b, `<a class="home-link" href="%s">Home</a>`, esc(o.HomeLink))
	}
	b.WriteString("</aside>")
}

func writeDataSourceItem(b *strings.Builder, ds nav.DataSource, selected bool) {
	class := "data-source"
	if selected {
		class += " selected"
	}
	fmt.Fprintf(b, `<li class="%s" data-name="%s" data-on:click="%s">%s</li>`,
		class, esc(ds.Name), esc(selectAction(ds.Name)), esc(ds.DisplayTitle()))
}

// selectAction is the datastar expression posting a selection.
func selectAction(name string) string {
	quoted, _ := json.Marshal(name)
	return fmt.Sprintf("$source = %s; @post('/nav/select')", quoted)
}

func writeBundles(b *strings.Builder, bundles []overlay.Bundle) {
	for _, bundle := range bundles {
		for _, a := range bundle.Assets {
			switch {
			case strings.HasPrefix(a.ContentType, "text/css"):
				fmt.Fprintf(b, `<style data-bundle="%s">%s</style>`, esc(string(bundle.ID)), a.Body)
			case strings.Contains(a.ContentType, "javascript"):
				fmt.Fprintf(b, `<script data-bundle="%s">%s</script>`, esc(string(bundle.ID)), a.Body)
			}
		}
	}
}

// SetHashScript returns the script that writes hash to the address bar.
func SetHashScript(hash string) string {
	// Marshalling a string cannot fail.
	quoted, _ := json.Marshal(hash)
	return fmt.Sprintf("window.location.hash = %s", quoted)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

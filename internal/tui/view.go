package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/shell"
)

// View implements tea.Model.
func (m Model) View() string {
	v := m.ShellView()

	sections := []string{m.renderAddress(), m.renderHeader(v.Header)}

	body := m.renderBody(v.Body)
	if v.Overlay != nil {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderDrawer(*v.Overlay, v.Transition != nil), body)
	}
	sections = append(sections, body)

	if m.status != "" {
		sections = append(sections, StatusStyle.Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderAddress() string {
	if m.mode == modeAddress {
		return AddressStyle.Render(m.address.View())
	}
	hash := m.s.loc.Hash()
	if hash == "" {
		hash = "#"
	}
	return AddressStyle.Render(hash)
}

func (m Model) renderHeader(h shell.Header) string {
	switch h := h.(type) {
	case shell.CubeHeader:
		parts := []string{"☰ " + h.DataSource.DisplayTitle()}
		if h.ShowLastUpdated {
			parts = append(parts, "updated recently")
		}
		if !h.HideGitHubIcon {
			parts = append(parts, "github.com/leapstack-labs/cubedash")
		}
		return headerStyle(h.Color).Width(m.width).Render(strings.Join(parts, "  "))
	case shell.HomeHeader:
		title := "cubedash"
		if h.Version != "" {
			title += " v" + h.Version
		}
		return HeaderStyle.Width(m.width).Render(title)
	}
	return ""
}

func (m Model) renderBody(b shell.Body) string {
	switch b := b.(type) {
	case shell.HomeBody:
		return BodyStyle.Render(m.renderList(b.DataSources, nav.DataSource{}))
	case shell.CubeBody:
		lines := []string{
			lipgloss.NewStyle().Bold(true).Render(b.DataSource.DisplayTitle()),
		}
		if b.DataSource.Description != "" {
			lines = append(lines, MutedStyle.Render(b.DataSource.Description))
		}
		lines = append(lines,
			fmt.Sprintf("max filters %d, max splits %d", b.MaxFilters, b.MaxSplits),
		)
		if m.mode == modeSuffix {
			lines = append(lines, m.suffix.View())
		} else {
			lines = append(lines, MutedStyle.Render("view: "+b.Suffix()))
		}
		return BodyStyle.Render(strings.Join(lines, "\n"))
	}
	return ""
}

func (m Model) renderDrawer(o shell.Overlay, animated bool) string {
	lines := []string{m.renderList(o.DataSources, o.Selected)}
	if o.HomeLink != "" {
		lines = append(lines, "", MutedStyle.Render("home: "+o.HomeLink))
	}
	style := DrawerStyle
	if animated {
		style = AnimatedDrawerStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderList renders data sources with the cursor and the current
// selection marked.
func (m Model) renderList(sources []nav.DataSource, selected nav.DataSource) string {
	lines := make([]string, 0, len(sources))
	for i, ds := range sources {
		mark := " "
		if ds.Equal(selected) {
			mark = "*"
		}
		line := mark + " " + ds.DisplayTitle()
		if i == m.cursor {
			lines = append(lines, SelectedItemStyle.Render("> "+line))
			continue
		}
		lines = append(lines, ItemStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

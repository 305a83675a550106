package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"interruptlog/internal/app"
	"interruptlog/internal/event"
	"interruptlog/internal/lifecycle"
	"interruptlog/internal/popup"
	"interruptlog/internal/stats"
)

const (
	defaultWidth  = 60
	defaultHeight = 20
	pieWidth      = 40
	maxLabelWidth = 24
)

func (m Model) View() string {
	var body string
	switch m.state.View {
	case popup.ViewTracking:
		body = m.trackingView()
	case popup.ViewSettings:
		body = m.settingsView()
	default:
		body = m.mainView()
	}

	if m.status != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", statusStyle.Render(m.status))
	}

	var overlay string
	switch m.activeOverlay {
	case overlayPicker:
		overlay = m.pickerView()
	case overlayConfirm:
		overlay = overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			overlayTitleStyle.Render(m.confirm.Message),
			renderHints(confirmKeys.Yes, confirmKeys.No),
		))
	case overlayNotice:
		overlay = noticeStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			overlayTitleStyle.Render(m.notice),
			hintStyle.Render("press any key"),
		))
	case overlaySaveAs:
		overlay = overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			overlayTitleStyle.Render("Save CSV as"),
			m.saveAs.View(),
			"",
			renderHints(formKeys.Submit, formKeys.Cancel),
		))
	case overlayAddItem:
		overlay = overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			overlayTitleStyle.Render("Add "+kindLabel(m.focusKind)),
			m.addInput.View(),
			"",
			renderHints(formKeys.Submit, formKeys.Cancel),
		))
	}

	w, h := m.size()
	if overlay != "" {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, overlay)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(body)
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m Model) mainView() string {
	sum := m.state.Today(m.app.Env().Now)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Interruption Log"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s   %s %s\n\n",
		labelStyle.Render("Today"), valueStyle.Render(fmt.Sprintf("%d", sum.Count)),
		dimStyle.Render("total"), valueStyle.Render(stats.FormatTotal(sum.TotalSeconds)))

	b.WriteString(pieBar(stats.PieFor(sum), pieWidth))
	b.WriteString("\n\n")

	rows := stats.Legend(sum)
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render(stats.NoRecordsText))
		b.WriteString("\n")
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s %s\n",
			swatch(r.Color, 2),
			lipgloss.NewStyle().Width(maxLabelWidth).Render(app.Truncate(r.Category, maxLabelWidth)),
			dimStyle.Render(fmt.Sprintf("%d (%d%%)", r.Count, r.Percent)))
	}

	b.WriteString("\n")
	b.WriteString(renderHints(mainKeys.Start, mainKeys.Settings, mainKeys.Export, mainKeys.Quit))
	return b.String()
}

func (m Model) trackingView() string {
	cur := m.state.Current
	if cur == nil {
		return ""
	}

	taskType := cur.TaskType
	if taskType == "" {
		taskType = "-"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Tracking " + cur.Category))
	b.WriteString("\n")
	b.WriteString(clockStyle.Render(lifecycle.FormatClock(m.elapsed)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s ‹ %s ›\n", labelStyle.Render("Task type"), valueStyle.Render(taskType))
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Memo"), m.memo.View())
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Started"), dimStyle.Render(cur.Started().Format("15:04:05")))
	b.WriteString(renderHints(trackingKeys.NextType, trackingKeys.Complete, trackingKeys.Discard))
	return b.String()
}

func (m Model) settingsView() string {
	cats := m.listPanel(event.KindCategory, "Categories")
	types := m.listPanel(event.KindTaskType, "Task types")

	hints := renderHints(settingsKeys.Switch, settingsKeys.Add, settingsKeys.Delete, settingsKeys.Grab, settingsKeys.Back)
	if m.grab != nil {
		hints = hintStyle.Render("moving item: select the target and press ") + keyStyle.Render("Space") +
			hintStyle.Render(", ") + keyStyle.Render("Esc") + hintStyle.Render(" to cancel")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("Settings"),
		lipgloss.JoinHorizontal(lipgloss.Top, cats, " ", types),
		"",
		hints,
	)
}

func (m Model) listPanel(kind event.ListKind, title string) string {
	list := m.state.List(kind)
	focused := kind == m.focusKind

	lines := []string{sectionHeaderStyle.Render(title)}
	if len(list) == 0 {
		lines = append(lines, dimStyle.Render("(empty)"))
	}
	for i, item := range list {
		label := app.Truncate(item, maxLabelWidth)
		prefix := "  "
		style := lipgloss.NewStyle()
		if m.grab != nil && m.grab.Kind == kind && m.grab.Index == i {
			prefix = "≡ "
			style = grabbedItemStyle
		}
		if focused && m.cursors[kind] == i {
			if m.grab == nil || m.grab.Kind != kind || m.grab.Index != i {
				prefix = "▸ "
			}
			style = style.Inherit(selectedItemStyle)
		}
		lines = append(lines, style.Render(prefix+label))
	}

	border := unfocusedBorderStyle
	if focused {
		border = focusedBorderStyle
	}
	return border.Width(maxLabelWidth + 4).Render(strings.Join(lines, "\n"))
}

func (m Model) pickerView() string {
	lines := []string{overlayTitleStyle.Render("Select a category")}
	if len(m.state.Categories) == 0 {
		lines = append(lines, dimStyle.Render("No categories. Add some in settings."))
	}
	for i, c := range m.state.Categories {
		line := "  " + c
		if i == m.pickCursor {
			line = selectedItemStyle.Render("▸ " + c)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", renderHints(listKeys.Select, listKeys.Cancel))
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

// pieBar draws the pie as a horizontal bar; each segment gets the cells its
// angle covers.
func pieBar(pie stats.Pie, width int) string {
	var b strings.Builder
	for _, s := range pie.Segments {
		from := int(math.Round(s.Start / 360 * float64(width)))
		to := int(math.Round(s.End / 360 * float64(width)))
		b.WriteString(swatch(s.Color, to-from))
	}
	return b.String()
}

func renderHints(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, k := range bindings {
		h := k.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(h.Key)+" "+hintStyle.Render(h.Desc))
	}
	return strings.Join(parts, hintStyle.Render("  ·  "))
}

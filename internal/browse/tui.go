// Package browse is the terminal UI for looking through stored résumés.
package browse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/resumekit/internal/model"
)

// Lines per résumé item in the list view (title + subtitle + blank separator).
const resumeItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(12)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// kitGeneratedMsg is sent when an async kit generation completes.
type kitGeneratedMsg struct {
	resumeID string
	kit      *model.ApplicationKit
	err      error
}

type browseModel struct {
	allResumes     []model.Resume
	matchedResumes []model.Resume
	leftViewport   viewport.Model
	rightViewport  viewport.Model
	activePane     int // 0=left, 1=right
	leftCursor     int
	rightCursor    int
	width          int
	height         int
	ready          bool

	// Detail view state
	view           viewState
	detail         model.Resume
	detailViewport viewport.Model
	showContent    bool

	// Kit generation state
	generator      model.KitGenerator
	jobDescription string
	kits           map[string]*model.ApplicationKit
	kitLoading     bool
	kitError       string
}

func newBrowseModel(all []model.Resume, filter model.ResumeFilter, generator model.KitGenerator, jobDescription string) browseModel {
	var matched []model.Resume
	for _, r := range all {
		if filter == nil || filter.Match(r) {
			matched = append(matched, r)
		}
	}
	return browseModel{
		allResumes:     all,
		matchedResumes: matched,
		generator:      generator,
		jobDescription: strings.TrimSpace(jobDescription),
		kits:           make(map[string]*model.ApplicationKit),
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case kitGeneratedMsg:
		m.kitLoading = false
		if msg.kit != nil {
			m.kits[msg.resumeID] = msg.kit
		}
		if msg.err != nil {
			m.kitError = fmt.Sprintf("kit generation failed: %v", msg.err)
		} else {
			m.kitError = ""
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "r":
		if m.detail.Content != "" {
			m.showContent = !m.showContent
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	case "g":
		if m.canGenerate() {
			m.kitLoading = true
			m.kitError = ""
			m.detailViewport.SetContent(m.renderDetail())
			return m, m.generateKitCmd(m.detail)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) canGenerate() bool {
	return m.generator != nil && m.jobDescription != "" && !m.kitLoading && m.kits[m.detail.ID] == nil
}

func (m browseModel) generateKitCmd(r model.Resume) tea.Cmd {
	generator, job := m.generator, m.jobDescription
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		kit, err := generator.Generate(ctx, r.Data, job)
		return kitGeneratedMsg{resumeID: r.ID, kit: kit, err: err}
	}
}

func (m *browseModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.allResumes)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.matchedResumes)-1, 0))
	}
}

func (m *browseModel) ensureCursorVisible() {
	var vp *viewport.Model
	var cursor int
	if m.activePane == 0 {
		vp = &m.leftViewport
		cursor = m.leftCursor
	} else {
		vp = &m.rightViewport
		cursor = m.rightCursor
	}

	cursorTop := cursor * resumeItemHeight
	cursorBottom := cursorTop + resumeItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	resumes := m.activeResumes()
	if len(resumes) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = resumes[m.activeCursor()]
	m.kitError = ""
	m.showContent = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.leftViewport.SetContent(renderResumes(m.allResumes, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderResumes(m.matchedResumes, m.rightCursor, m.activePane == 1))
}

func (m browseModel) activeResumes() []model.Resume {
	if m.activePane == 0 {
		return m.allResumes
	}
	return m.matchedResumes
}

func (m browseModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.view == viewDetail {
		return m.viewDetail()
	}

	return m.viewList()
}

func (m browseModel) viewList() string {
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" All Résumés (%d)", len(m.allResumes))
	rightHeader := fmt.Sprintf(" Matching Filters (%d)", len(m.matchedResumes))

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	leftPane := leftBorder.Render(m.leftViewport.View())
	rightPane := rightBorder.Render(m.rightViewport.View())

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	statusText := fmt.Sprintf(" %d total | %d matching    ←/→/Tab switch  ↑/↓ cursor  Enter detail  q quit",
		len(m.allResumes), len(m.matchedResumes))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Résumé: " + m.detail.Name)
	if m.kitLoading {
		title += "  (generating kit...)"
	}

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	hints := []string{}
	if m.detail.Content != "" {
		hints = append(hints, "r raw text")
	}
	if m.canGenerate() {
		hints = append(hints, "g generate kit")
	}
	hints = append(hints, "esc/backspace back", "↑/↓ scroll", "q quit")
	statusBar := statusBarStyle.Width(m.width).Render(" " + strings.Join(hints, "  "))

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	r := m.detail
	d := r.Data
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
		return dividerStyle.Render(label + fill)
	}

	addField("Name", d.PersonalInfo.Name)
	addField("Email", d.PersonalInfo.Email)
	addField("Phone", d.PersonalInfo.Phone)
	addField("Location", d.PersonalInfo.Location)
	addField("ID", r.ID)
	if !r.CreatedAt.IsZero() {
		addField("Added", r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	if len(d.Skills) > 0 {
		b.WriteString("\n" + divider("── Skills ") + "\n\n")
		b.WriteString(bodyStyle.Render(wordWrap(strings.Join(d.Skills, ", "), wrapWidth)) + "\n")
	}

	if len(d.Experience) > 0 {
		b.WriteString("\n" + divider("── Experience ") + "\n\n")
		for _, e := range d.Experience {
			b.WriteString(itemTitleStyle.Render(joinNonEmpty(" @ ", e.Title, e.Company)))
			if e.Duration != "" {
				b.WriteString(itemSubtitleStyle.Render("  " + e.Duration))
			}
			b.WriteByte('\n')
			if e.Description != "" {
				b.WriteString(bodyStyle.Render(indent(wordWrap(e.Description, wrapWidth-2))) + "\n")
			}
		}
	}

	if len(d.Education) > 0 {
		b.WriteString("\n" + divider("── Education ") + "\n\n")
		for _, e := range d.Education {
			b.WriteString(detailValueStyle.Render("  • "+joinNonEmpty(", ", e.Degree, e.School, e.Year)) + "\n")
		}
	}

	if len(d.Projects) > 0 {
		b.WriteString("\n" + divider("── Projects ") + "\n\n")
		for _, p := range d.Projects {
			b.WriteString(itemTitleStyle.Render(p.Name) + "\n")
			if p.Technologies != "" {
				b.WriteString(itemSubtitleStyle.Render(indent(wordWrap(p.Technologies, wrapWidth-2))) + "\n")
			}
			if p.Description != "" {
				b.WriteString(bodyStyle.Render(indent(wordWrap(p.Description, wrapWidth-2))) + "\n")
			}
		}
	}

	if m.kitError != "" {
		b.WriteByte('\n')
		b.WriteString(errorStyle.Render("⚠ "+m.kitError) + "\n")
	}

	if kit := m.kits[r.ID]; kit != nil {
		b.WriteString("\n" + divider("── Application Kit ") + "\n\n")
		renderKit(&b, kit, wrapWidth)
	} else if m.kitLoading {
		b.WriteString("\n" + hintStyle.Render("  generating application kit...") + "\n")
	} else if m.canGenerate() {
		b.WriteString("\n" + hintStyle.Render("  press g to generate an application kit") + "\n")
	}

	if r.Content != "" {
		b.WriteByte('\n')
		if m.showContent {
			b.WriteString(divider("── Extracted Text ") + "\n\n")
			b.WriteString(bodyStyle.Render(r.Content) + "\n")
		} else {
			b.WriteString(hintStyle.Render("  press r to read the extracted text") + "\n")
		}
	}

	return b.String()
}

func renderKit(b *strings.Builder, kit *model.ApplicationKit, width int) {
	for _, s := range kit.Steps {
		mark := "✓"
		if s.Status != "success" {
			mark = "✗ " + s.Error
		}
		b.WriteString(itemSubtitleStyle.Render(fmt.Sprintf("  %s %s", s.Step, mark)) + "\n")
	}
	if kit.Email != "" {
		b.WriteString("\n" + itemTitleStyle.Render("Email") + "\n")
		b.WriteString(bodyStyle.Render(wrapParagraphs(kit.Email, width)) + "\n")
	}
	if kit.CoverLetter != "" {
		b.WriteString("\n" + itemTitleStyle.Render("Cover letter") + "\n")
		b.WriteString(bodyStyle.Render(wrapParagraphs(kit.CoverLetter, width)) + "\n")
	}
	if len(kit.QA) > 0 {
		b.WriteString("\n" + itemTitleStyle.Render("Interview Q&A") + "\n")
		for _, qa := range kit.QA {
			b.WriteString(detailValueStyle.Render("  Q: "+qa.Question) + "\n")
			b.WriteString(bodyStyle.Render(indent(wordWrap(qa.Answer, width-4))) + "\n")
		}
	}
	if len(kit.Topics) > 0 {
		b.WriteString("\n" + itemTitleStyle.Render("Topics to revise") + "\n")
		for _, t := range kit.Topics {
			b.WriteString(detailValueStyle.Render("  • "+t) + "\n")
		}
	}
}

func renderResumes(resumes []model.Resume, cursor int, isActive bool) string {
	if len(resumes) == 0 {
		return "  (no résumés)"
	}

	var b strings.Builder
	for i, r := range resumes {
		isSelected := isActive && i == cursor

		titleSt := itemTitleStyle
		subtitleSt := itemSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(r.Name))
		b.WriteByte('\n')

		location := r.Data.PersonalInfo.Location
		if location == "" {
			location = "n/a"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %d skills · %s",
			location, len(r.Data.Skills), r.CreatedAt.Local().Format("2006-01-02"))))
		b.WriteByte('\n')

		if i < len(resumes)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func indent(text string) string {
	return "  " + strings.ReplaceAll(text, "\n", "\n  ")
}

// wrapParagraphs word-wraps each blank-line separated paragraph.
func wrapParagraphs(text string, width int) string {
	paras := strings.Split(text, "\n\n")
	for i, p := range paras {
		paras[i] = wordWrap(p, width)
	}
	return strings.Join(paras, "\n\n")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RunBrowser launches the split-pane résumé browser. The right pane lists
// résumés accepted by filter (nil accepts all). generator may be nil; when it
// is set and jobDescription is non-empty the 'g' key generates an application
// kit for the résumé being viewed.
func RunBrowser(resumes []model.Resume, filter model.ResumeFilter, generator model.KitGenerator, jobDescription string) error {
	m := newBrowseModel(resumes, filter, generator, jobDescription)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

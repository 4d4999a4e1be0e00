// Package render lays out a formatted resume onto paginated A4 pages.
package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/engine"
	"github.com/spigell/ats-resume/internal/formatter"
	"github.com/spigell/ats-resume/internal/templates"
)

// EmptyStatePlaceholder is printed when the document has no sections.
const EmptyStatePlaceholder = "Start filling in your details to see the preview"

const (
	bulletPrefix = "• "
	bulletIndent = 10.0
	sidebarPad   = 8.0
	ruleHeight   = 8.0
	ruleWidth    = 0.5
	meterHeight  = 8.0
	meterWidth   = 100.0
)

// SinkError wraps a failure of the output writer. It is the only error a
// render surfaces apart from context cancellation.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return fmt.Sprintf("write document: %v", e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }

type Renderer struct {
	logger    *zap.Logger
	newCanvas func() Canvas
}

type Option func(*Renderer)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithCanvas replaces the PDF canvas, e.g. with a recorder in tests.
func WithCanvas(factory func() Canvas) Option {
	return func(r *Renderer) {
		if factory != nil {
			r.newCanvas = factory
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		logger:    zap.NewNop(),
		newCanvas: func() Canvas { return NewPDFCanvas() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes doc as a PDF to w with default options.
func Render(ctx context.Context, doc engine.FormattedDocument, w io.Writer) error {
	return New().Render(ctx, doc, w)
}

// Render lays out doc and writes the result to w. A section that fails to
// draw is left blank and the rest of the document is still produced.
func (r *Renderer) Render(ctx context.Context, doc engine.FormattedDocument, w io.Writer) error {
	canvas := r.newCanvas()
	if info, ok := canvas.(documentInfo); ok {
		info.SetDocumentInfo(documentTitle(doc), creator)
	}

	s := newSession(canvas, doc, r.logger)
	end, err := s.draw(ctx, doc)
	if err != nil {
		return err
	}

	r.logger.Debug("document laid out",
		zap.String("template", doc.TemplateID),
		zap.Int("pages", end.Page),
	)

	if lossy, ok := canvas.(droppedReporter); ok {
		if n, samples := lossy.Dropped(); n > 0 {
			r.logger.Warn("characters not supported by the pdf fonts were replaced",
				zap.Int("dropped", n),
				zap.String("examples", string(samples)),
			)
		}
	}

	if err := canvas.Output(w); err != nil {
		return &SinkError{Err: err}
	}
	return nil
}

func documentTitle(doc engine.FormattedDocument) string {
	for _, sec := range doc.Ordered() {
		if contact, ok := sec.(*formatter.ContactSection); ok && contact != nil {
			return contact.Name + " - Resume"
		}
	}
	return "Resume"
}

type align int

const (
	alignLeft align = iota
	alignCenter
)

// session holds the drawing surface and resolved style for one render.
type session struct {
	canvas Canvas
	frame  Frame
	style  style
	logger *zap.Logger

	// mark is the furthest cursor reached; a failed section resumes from it.
	mark Cursor
}

func newSession(canvas Canvas, doc engine.FormattedDocument, logger *zap.Logger) *session {
	w, h := canvas.PageSize()
	return &session{
		canvas: canvas,
		frame:  newFrame(w, h),
		style:  newStyle(doc),
		logger: logger,
	}
}

func (s *session) draw(ctx context.Context, doc engine.FormattedDocument) (Cursor, error) {
	c := s.newPage(Cursor{})

	if doc.IsEmpty() {
		return s.paragraph(c, s.style.main, EmptyStatePlaceholder, s.style.bodyFont(), s.style.main.muted, 0, alignCenter), nil
	}

	if doc.Layout != templates.TwoColumn {
		return s.column(ctx, c, s.style.main, doc.Sections)
	}

	c, err := s.column(ctx, c, s.style.sidebar, doc.Sidebar)
	if err != nil {
		return c, err
	}
	if len(doc.Sidebar) > 0 && len(doc.Main) > 0 {
		c = s.gap(c, s.style.main, s.style.sectionGap)
	}
	return s.column(ctx, c, s.style.main, doc.Main)
}

func (s *session) column(ctx context.Context, c Cursor, p palette, sections []formatter.Section) (Cursor, error) {
	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return c, err
		}
		c = s.section(c, p, sec)
		if i < len(sections)-1 {
			c = s.gap(c, p, s.style.sectionGap)
		}
	}
	return c, nil
}

func (s *session) section(c Cursor, p palette, sec formatter.Section) (next Cursor) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("section render failed, leaving it blank",
				zap.String("section", fmt.Sprintf("%T", sec)),
				zap.Any("panic", r),
			)
			next = s.mark
		}
	}()

	switch v := sec.(type) {
	case *formatter.ContactSection:
		return s.contact(c, p, v)
	case *formatter.SummarySection:
		c = s.title(c, p, v.Title)
		c = s.paragraph(c, p, v.Content, s.style.bodyFont(), p.text, 0, alignLeft)
	case *formatter.SkillsSection:
		c = s.title(c, p, v.Title)
		c = s.skills(c, p, v)
	case *formatter.EducationSection:
		c = s.title(c, p, v.Title)
		c = s.education(c, p, v)
	case *formatter.ExperienceSection:
		c = s.title(c, p, v.Title)
		c = s.experience(c, p, v)
	case *formatter.ProjectsSection:
		c = s.title(c, p, v.Title)
		c = s.projects(c, p, v)
	case *formatter.CertificatesSection:
		c = s.title(c, p, v.Title)
		c = s.certificates(c, p, v)
	case *formatter.LanguagesSection:
		c = s.title(c, p, v.Title)
		c = s.languages(c, p, v)
	case *formatter.CustomSection:
		c = s.title(c, p, v.Title)
		c = s.paragraph(c, p, v.Content, s.style.bodyFont(), p.text, 0, alignLeft)
	default:
		return c
	}

	if s.style.features.SectionBorder {
		c = s.rule(c, p)
	}
	return c
}

func (s *session) contact(c Cursor, p palette, v *formatter.ContactSection) Cursor {
	layout := v.Layout
	if layout == "" {
		layout = s.style.features.ContactLayout
	}
	a := alignLeft
	if layout == templates.ContactCentered {
		a = alignCenter
	}

	c = s.paragraph(c, p, v.Name, s.style.nameFont(), p.title, 0, a)
	if v.JobTitle != "" {
		jobFont := s.style.bodyFont()
		jobFont.size++
		c = s.paragraph(c, p, v.JobTitle, jobFont, p.muted, 0, a)
	}

	if layout == templates.ContactSidebar {
		for _, item := range v.Items {
			c = s.paragraph(c, p, item, s.style.bodyFont(), p.text, 0, a)
		}
	} else if v.Line != "" {
		c = s.paragraph(c, p, v.Line, s.style.bodyFont(), p.text, 0, a)
	}

	if s.style.features.HeaderBorder || s.style.features.SectionBorder {
		c = s.rule(c, p)
	}
	return c
}

func (s *session) skills(c Cursor, p palette, v *formatter.SkillsSection) Cursor {
	if v.Categorized() {
		for _, category := range v.Categories {
			line := humanize(category.Name) + ": " + strings.Join(category.Skills, ", ")
			c = s.paragraph(c, p, line, s.style.bodyFont(), p.text, 0, alignLeft)
		}
		return c
	}

	labels := make([]string, 0, len(v.Skills))
	for _, skill := range v.Skills {
		label := skill.Name
		if v.ShowLevel && skill.Level != "" {
			label += " (" + skill.Level + ")"
		}
		labels = append(labels, label)
	}
	return s.paragraph(c, p, strings.Join(labels, ", "), s.style.bodyFont(), p.text, 0, alignLeft)
}

func (s *session) education(c Cursor, p palette, v *formatter.EducationSection) Cursor {
	for i, e := range v.Entries {
		if i > 0 {
			c = s.gap(c, p, s.style.entryGap)
		}
		c = s.paragraph(c, p, firstOf(e.Degree, e.Institution), s.style.boldFont(), p.text, 0, alignLeft)
		if e.Degree != "" {
			c = s.paragraph(c, p, joinPresent(" | ", e.Institution, e.Year), s.style.bodyFont(), p.muted, 0, alignLeft)
		} else {
			c = s.paragraph(c, p, e.Year, s.style.bodyFont(), p.muted, 0, alignLeft)
		}
		if e.GPA != "" {
			c = s.paragraph(c, p, "GPA: "+e.GPA, s.style.bodyFont(), p.text, 0, alignLeft)
		}
		if len(e.Coursework) > 0 {
			c = s.paragraph(c, p, "Coursework: "+strings.Join(e.Coursework, ", "), s.style.bodyFont(), p.text, 0, alignLeft)
		}
	}
	return c
}

func (s *session) experience(c Cursor, p palette, v *formatter.ExperienceSection) Cursor {
	for i, e := range v.Entries {
		if i > 0 {
			c = s.gap(c, p, s.style.entryGap)
		}
		c = s.paragraph(c, p, joinPresent(" - ", e.Title, e.Company), s.style.boldFont(), p.text, 0, alignLeft)
		c = s.paragraph(c, p, e.Duration, s.style.bodyFont(), p.muted, 0, alignLeft)
		c = s.bullets(c, p, e.Bullets)
	}
	return c
}

func (s *session) projects(c Cursor, p palette, v *formatter.ProjectsSection) Cursor {
	for i, e := range v.Entries {
		if i > 0 {
			c = s.gap(c, p, s.style.entryGap)
		}
		c = s.paragraph(c, p, joinPresent(" | ", e.Name, e.Role), s.style.boldFont(), p.text, 0, alignLeft)
		if len(e.Technologies) > 0 {
			c = s.paragraph(c, p, "Technologies: "+strings.Join(e.Technologies, ", "), s.style.bodyFont(), p.text, 0, alignLeft)
		}
		c = s.paragraph(c, p, e.Duration, s.style.bodyFont(), p.muted, 0, alignLeft)
		c = s.bullets(c, p, e.Responsibilities)
		c = s.bullets(c, p, e.Achievements)
		c = s.paragraph(c, p, e.Link, s.style.bodyFont(), p.muted, 0, alignLeft)
	}
	return c
}

func (s *session) certificates(c Cursor, p palette, v *formatter.CertificatesSection) Cursor {
	for i, e := range v.Entries {
		if i > 0 {
			c = s.gap(c, p, s.style.entryGap)
		}
		c = s.paragraph(c, p, e.Name, s.style.boldFont(), p.text, 0, alignLeft)
		c = s.paragraph(c, p, joinPresent(" | ", e.Issuer, e.Date), s.style.bodyFont(), p.muted, 0, alignLeft)
		if e.CredentialID != "" {
			c = s.paragraph(c, p, "Credential ID: "+e.CredentialID, s.style.bodyFont(), p.muted, 0, alignLeft)
		}
	}
	return c
}

func (s *session) languages(c Cursor, p palette, v *formatter.LanguagesSection) Cursor {
	for _, l := range v.Entries {
		c = s.paragraph(c, p, joinPresent(" - ", l.Name, string(l.Proficiency)), s.style.bodyFont(), p.text, 0, alignLeft)
		if v.Progress {
			c = s.meter(c, p, l.Proficiency.Percent())
		}
	}
	return c
}

// title draws a section heading, moving to a new page first when the heading
// and one body line would not fit together.
func (s *session) title(c Cursor, p palette, text string) Cursor {
	f := s.style.titleFont()
	c = s.ensure(c, s.style.lineHeight(f)+s.style.lineHeight(s.style.bodyFont()))
	c = s.paragraph(c, p, s.style.sectionTitle(text), f, p.title, 0, alignLeft)
	return s.gap(c, p, 2)
}

// paragraph draws text wrapped to the frame. Each input line starts a new
// line; blank input lines are skipped.
func (s *session) paragraph(c Cursor, p palette, text string, f font, color RGB, indent float64, a align) Cursor {
	if strings.TrimSpace(text) == "" {
		return c
	}
	s.canvas.SetFont(f.family, f.bold, f.size)
	width := s.frame.Width() - indent

	for _, raw := range strings.Split(text, "\n") {
		for _, line := range Wrap(raw, width, s.canvas.TextWidth) {
			x := s.frame.Left + indent
			if a == alignCenter {
				x = s.frame.Left + (s.frame.Width()-s.canvas.TextWidth(line))/2
			}
			c = s.line(c, p, line, f, x, color)
		}
	}
	return c
}

// bullets draws each item prefixed with a bullet glyph, indented, with
// wrapped lines hanging under the item text.
func (s *session) bullets(c Cursor, p palette, items []string) Cursor {
	f := s.style.bodyFont()
	s.canvas.SetFont(f.family, f.bold, f.size)
	prefix := s.canvas.TextWidth(bulletPrefix)
	width := s.frame.Width() - bulletIndent - prefix

	for _, item := range items {
		for i, line := range Wrap(item, width, s.canvas.TextWidth) {
			x := s.frame.Left + bulletIndent
			if i == 0 {
				line = bulletPrefix + line
			} else {
				x += prefix
			}
			c = s.line(c, p, line, f, x, p.text)
		}
	}
	return c
}

func (s *session) line(c Cursor, p palette, text string, f font, x float64, color RGB) Cursor {
	h := s.style.lineHeight(f)
	c = s.ensure(c, h)
	s.shade(c, p, h)

	s.canvas.SetFont(f.family, f.bold, f.size)
	s.canvas.SetTextColor(color)
	s.canvas.Text(x, c.Y+f.size, text)

	return s.advance(c, h)
}

func (s *session) rule(c Cursor, p palette) Cursor {
	c = s.ensure(c, ruleHeight)
	s.shade(c, p, ruleHeight)
	y := c.Y + ruleHeight/2
	s.canvas.Line(s.frame.Left, y, s.frame.Right, y, ruleWidth, p.rule)
	return s.advance(c, ruleHeight)
}

// meter draws a proficiency bar filled to percent.
func (s *session) meter(c Cursor, p palette, percent int) Cursor {
	c = s.ensure(c, meterHeight)
	s.shade(c, p, meterHeight)

	w := math.Min(meterWidth, s.frame.Width())
	s.canvas.FillRect(s.frame.Left, c.Y+2, w, 4, p.track)
	if percent > 0 {
		s.canvas.FillRect(s.frame.Left, c.Y+2, w*float64(percent)/100, 4, p.accent)
	}
	return s.advance(c, meterHeight)
}

// gap adds vertical space. A gap that would cross the bottom margin starts a
// new page instead.
func (s *session) gap(c Cursor, p palette, h float64) Cursor {
	if !s.frame.Fits(c, h) {
		return s.newPage(c)
	}
	s.shade(c, p, h)
	return s.advance(c, h)
}

func (s *session) shade(c Cursor, p palette, h float64) {
	if p.fill == nil {
		return
	}
	s.canvas.FillRect(s.frame.Left-sidebarPad, c.Y, s.frame.Width()+2*sidebarPad, h, *p.fill)
}

func (s *session) ensure(c Cursor, h float64) Cursor {
	if c.Page == 0 || !s.frame.Fits(c, h) {
		return s.newPage(c)
	}
	return c
}

func (s *session) newPage(c Cursor) Cursor {
	s.canvas.AddPage()
	return s.advance(Cursor{Page: c.Page + 1, Y: s.frame.Top}, 0)
}

func (s *session) advance(c Cursor, h float64) Cursor {
	c.Y += h
	s.mark = c
	return c
}

func humanize(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func joinPresent(sep string, parts ...string) string {
	present := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			present = append(present, part)
		}
	}
	return strings.Join(present, sep)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

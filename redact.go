// Package redact is the orchestration layer tying the redaction pipeline
// together: tokenizing a content stream, decoding its glyphs, correlating
// them against externally supplied letters, rewriting the stream to drop
// what was selected, and recursing into Form XObjects (spec.md 2, 6). It
// mirrors the shape of the teacher's ir.Pipeline -- a configured struct
// built once by a constructor, one orchestrating entry point wrapped in a
// single tracer span, and errors wrapped with the phase that produced them --
// generalized from "parse a whole document" to "redact one page's
// content stream."
package redact

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/inkfold/redactpdf/internal/contentstream"
	"github.com/inkfold/redactpdf/internal/correlate"
	"github.com/inkfold/redactpdf/internal/coords"
	"github.com/inkfold/redactpdf/internal/fonts"
	"github.com/inkfold/redactpdf/internal/glyph"
	"github.com/inkfold/redactpdf/internal/redacterr"
	"github.com/inkfold/redactpdf/internal/rewrite"
	"github.com/inkfold/redactpdf/internal/sanitize"
	"github.com/inkfold/redactpdf/internal/scan"
	"github.com/inkfold/redactpdf/internal/xobject"
	"github.com/inkfold/redactpdf/observability"
)

// Re-exported vocabulary: these are the library's own geometry and
// matching types, not a container format's IR, so the public surface
// names them directly instead of re-declaring identical structs.
type (
	Rect                 = coords.Rect
	Letter               = correlate.Letter
	GlyphRemovalStrategy = correlate.Strategy
	MarkerColor          = rewrite.MarkerColor
	FontDict             = fonts.Dict
	Annotation           = sanitize.Annotation
	BaseAnnotation       = sanitize.BaseAnnotation
	Rectangle            = sanitize.Rectangle
	DocumentInfo         = sanitize.DocumentInfo
	XMPMetadata          = sanitize.XMPMetadata
	Form                 = xobject.Form
	FormResolver         = xobject.Resolver
)

const (
	CenterPoint    = correlate.CenterPoint
	AnyOverlap     = correlate.AnyOverlap
	FullyContained = correlate.FullyContained
)

// DefaultMaxXObjectDepth bounds acyclic Form XObject recursion chains.
// internal/xobject's visited set already catches cycles; this guards
// against a pathologically long but acyclic nesting chain instead.
const DefaultMaxXObjectDepth = 16

// PageGeometry carries the page attributes the Correlator needs to map
// externally supplied visual-space letters and redaction areas into
// content-stream space (spec.md 4.2).
type PageGeometry struct {
	MediaWidth  float64
	MediaHeight float64
	Rotate      int // raw /Rotate value, any multiple of 90
}

func (g PageGeometry) rotation() coords.Rotation { return coords.NormalizeRotation(g.Rotate) }

// PageInput is everything RedactPage needs about one page's content: its
// already-decompressed content-stream bytes, the font resources in
// scope, its geometry, and (optionally) a resolver for the Form XObjects
// it invokes. Decrypting, resolving indirect references, and stream
// decompression remain an external collaborator's job -- spec.md 6's
// "Page container" interface.
type PageInput struct {
	Content   []byte
	Resources map[string]*FontDict
	Geometry  PageGeometry
	Forms     FormResolver // nil disables Form XObject recursion entirely
}

// AnnotationSanitizer drops page annotations that can no longer stand
// next to redacted content (spec.md 1, "ancillary sources"). A caller
// implements this against its own container model; internal/sanitize
// ships the trivial rect-intersection adapter.
type AnnotationSanitizer interface {
	SanitizeAnnotations(annotations []Annotation, areas []Rect) ([]Annotation, int)
}

// MetadataSanitizer blanks document-level Info/XMP fields a redaction
// pass must not leave behind.
type MetadataSanitizer interface {
	SanitizeInfo(info *DocumentInfo) *DocumentInfo
	SanitizeMetadata(meta *XMPMetadata) *XMPMetadata
}

// Config parameterizes a Redactor (spec.md 6).
type Config struct {
	DrawVisualMarker     bool
	MarkerColor          MarkerColor
	GlyphRemovalStrategy GlyphRemovalStrategy

	// CaseSensitiveSearch is carried only as a passthrough field for a
	// caller-supplied search/matching collaborator upstream of this
	// library (spec.md 9): this package never performs text search
	// itself, since letters and areas always arrive already matched.
	CaseSensitiveSearch bool

	RecurseFormXObjects bool
	MaxXObjectDepth     int // 0 means DefaultMaxXObjectDepth

	Scan scan.Config

	Logger observability.Logger
	Tracer observability.Tracer

	Annotations AnnotationSanitizer
	Metadata    MetadataSanitizer
}

// Result is RedactPage's output: the replacement content-stream bytes,
// how much was actually removed, and any non-fatal warnings raised along
// the way (spec.md 7).
type Result struct {
	Content           []byte
	Changed           bool
	GlyphsRemoved     int
	OperationsRemoved int
	Warnings          []string
}

// Redactor drives the full pipeline -- tokenize, decode glyphs, correlate
// against letters, rewrite, recurse into Form XObjects -- for one page at
// a time.
type Redactor struct {
	cfg Config
}

func NewRedactor(cfg Config) *Redactor {
	if cfg.MaxXObjectDepth <= 0 {
		cfg.MaxXObjectDepth = DefaultMaxXObjectDepth
	}
	return &Redactor{cfg: cfg}
}

func (r *Redactor) logger() observability.Logger {
	if r.cfg.Logger != nil {
		return r.cfg.Logger
	}
	return observability.NopLogger{}
}

func (r *Redactor) tracer() observability.Tracer {
	if r.cfg.Tracer != nil {
		return r.cfg.Tracer
	}
	return observability.NopTracer()
}

// SanitizeAnnotations drops annotations that overlap a redacted area. The
// configured AnnotationSanitizer overrides this when set; otherwise it
// falls back to the package's own overlap rule.
func (r *Redactor) SanitizeAnnotations(annotations []Annotation, areas []Rect) ([]Annotation, int) {
	if r.cfg.Annotations != nil {
		return r.cfg.Annotations.SanitizeAnnotations(annotations, areas)
	}
	return sanitize.Annotations(annotations, areas)
}

// SanitizeInfo blanks document Info dictionary fields that can leak the
// same facts a redacted page hides. The configured MetadataSanitizer
// overrides this when set; otherwise it falls back to the package's own
// blanking rule.
func (r *Redactor) SanitizeInfo(info *DocumentInfo) *DocumentInfo {
	if r.cfg.Metadata != nil {
		return r.cfg.Metadata.SanitizeInfo(info)
	}
	return sanitize.Info(info)
}

// SanitizeMetadata clears XMP metadata bytes for the same reason
// SanitizeInfo blanks the Info dictionary. The configured MetadataSanitizer
// overrides this when set; otherwise it falls back to the package's own
// clearing rule.
func (r *Redactor) SanitizeMetadata(meta *XMPMetadata) *XMPMetadata {
	if r.cfg.Metadata != nil {
		return r.cfg.Metadata.SanitizeMetadata(meta)
	}
	return sanitize.Metadata(meta)
}

// correlateFrame bundles the inputs Correlate needs to map areas from
// whatever space they arrived in into content-stream space. At the page
// root, areas are in visual (post-rotation) space and rot is the page's
// own /Rotate. For a recursed Form XObject, areas have already been
// mapped into page-root content space by the caller (see redactFunc), so
// rot is forced to Rotate0 -- an identity transform -- rather than
// re-deriving a form-local rotation that does not exist in the PDF model.
type correlateFrame struct {
	areas          []coords.Rect
	rot            coords.Rotation
	mediaW, mediaH float64
}

// redactSession accumulates state across one RedactPage call and every
// Form XObject it recurses into: the driver and letters are shared
// unchanged at every nesting level, while glyphsRemoved/opsRemoved/depth
// are mutated as the recursion unwinds.
type redactSession struct {
	r       *Redactor
	letters []Letter
	driver  *xobject.Driver

	depth         int
	glyphsRemoved int
	opsRemoved    int

	// Phase timings and counts accumulated across every redactStream call
	// in this page's recursion tree, reported once as MetricTokenizeTime/
	// MetricOperationCount/MetricGlyphCount/MetricCorrelateTime/
	// MetricRewriteTime/MetricXObjectDepth at the end of RedactPage.
	tokenizeTime   time.Duration
	correlateTime  time.Duration
	rewriteTime    time.Duration
	operationCount int
	glyphCount     int
	maxDepth       int
}

// redactFunc is the callback internal/xobject.Driver invokes to recurse
// into a Form XObject's own content stream. It re-enters redactStream
// with the compounded CTM seeded as the starting graphics state and the
// page's own letters reused unchanged, since letters are always supplied
// in page-visual space regardless of which content stream produced the
// glyph they correlate against.
func (sess *redactSession) redactFunc(ctx context.Context, content []byte, resources map[string]*fonts.Dict, ctm coords.Matrix, areas []coords.Rect) ([]byte, []string, error) {
	if sess.depth+1 > sess.r.cfg.MaxXObjectDepth {
		return content, []string{"form xobject nesting exceeds the configured depth limit, left unmodified"}, nil
	}
	sess.depth++
	if sess.depth > sess.maxDepth {
		sess.maxDepth = sess.depth
	}
	out, warnings, err := sess.redactStream(ctx, content, resources, ctm, correlateFrame{areas: areas, rot: coords.Rotate0})
	sess.depth--
	return out, warnings, err
}

// RedactPage is the single core entry point (spec.md 6): it removes
// every glyph letters/areas correlation selects from page.Content and
// returns the replacement bytes. ctx supplies the cancellation
// check-point of spec.md 5, consulted once per operation processed; a
// cancelled context aborts with no partial output.
func (r *Redactor) RedactPage(ctx context.Context, page PageInput, letters []Letter, areas []Rect) (Result, error) {
	ctx, span := r.tracer().StartSpan(ctx, "redact.page")
	var err error
	defer func() {
		if err != nil {
			span.SetError(err)
		}
		span.Finish()
	}()

	sess := &redactSession{r: r, letters: letters}
	if r.cfg.RecurseFormXObjects && page.Forms != nil {
		sess.driver = xobject.NewDriver(page.Forms, sess.redactFunc)
	}

	frame := correlateFrame{
		areas:  areas,
		rot:    page.Geometry.rotation(),
		mediaW: page.Geometry.MediaWidth,
		mediaH: page.Geometry.MediaHeight,
	}
	out, warnings, rerr := sess.redactStream(ctx, page.Content, page.Resources, coords.Identity(), frame)
	err = rerr
	if err != nil {
		return Result{}, err
	}

	changed := sess.glyphsRemoved > 0 || sess.opsRemoved > 0 || (r.cfg.DrawVisualMarker && len(areas) > 0)
	span.SetTag("glyphs_removed", sess.glyphsRemoved)
	span.SetTag("operations_removed", sess.opsRemoved)
	r.logger().Info("redact.page completed",
		observability.Int(observability.MetricGlyphsRemoved, sess.glyphsRemoved),
		observability.Int("operations_removed", sess.opsRemoved),
		observability.Int("warnings", len(warnings)),
		observability.Int(observability.MetricOperationCount, sess.operationCount),
		observability.Int(observability.MetricGlyphCount, sess.glyphCount),
		observability.Int(observability.MetricXObjectDepth, sess.maxDepth),
		observability.Int64(observability.MetricTokenizeTime, sess.tokenizeTime.Nanoseconds()),
		observability.Int64(observability.MetricCorrelateTime, sess.correlateTime.Nanoseconds()),
		observability.Int64(observability.MetricRewriteTime, sess.rewriteTime.Nanoseconds()))

	return Result{
		Content:           out,
		Changed:           changed,
		GlyphsRemoved:     sess.glyphsRemoved,
		OperationsRemoved: sess.opsRemoved,
		Warnings:          warnings,
	}, nil
}

// redactStream runs the pipeline -- parse, decode, correlate, rewrite,
// recurse -- over one content stream, whether it is the page's own or a
// recursed Form XObject's. depth 0 is always the page root; only the
// root draws visual markers, since a marker rectangle is written as
// absolute content-space coordinates and only the page's own stream
// executes directly in that coordinate space -- a Form XObject's content
// runs under its own CTM, so a marker drawn there would need its own
// inverse-CTM wrapping this package does not attempt.
func (sess *redactSession) redactStream(ctx context.Context, content []byte, resources map[string]*fonts.Dict, ctm coords.Matrix, frame correlateFrame) ([]byte, []string, error) {
	tokenizeStart := time.Now()
	ops, err := contentstream.Parse(content, sess.r.cfg.Scan)
	sess.tokenizeTime += time.Since(tokenizeStart)
	if err != nil {
		return nil, nil, redacterr.New(redacterr.MalformedStream, "contentstream", -1, err)
	}
	sess.operationCount += len(ops)

	type opState struct {
		glyphs       []glyph.Glyph
		startMatrix  coords.Matrix
		ctmAtOp      coords.Matrix
		inActualText bool
	}
	perOp := make([]opState, len(ops))

	registry := fonts.NewRegistry()
	walker := contentstream.NewWalker()
	walker.GS.CTM = ctm

	var correlateOps []correlate.Operation
	var markStack []bool // per open BDC/BMC: whether its scope is an ActualText range
	for i, op := range ops {
		if cerr := ctx.Err(); cerr != nil {
			return nil, nil, redacterr.New(redacterr.Cancelled, "redact", i, cerr)
		}
		if serr := walker.Step(op); serr != nil {
			return nil, nil, redacterr.New(redacterr.MalformedStream, "contentstream", i, serr)
		}
		perOp[i].ctmAtOp = walker.GS.CTM

		switch op.Kind {
		case contentstream.OpBeginMarkedDict:
			markStack = append(markStack, hasActualText(op))
		case contentstream.OpBeginMarked:
			markStack = append(markStack, false)
		case contentstream.OpEndMarked:
			if len(markStack) > 0 {
				markStack = markStack[:len(markStack)-1]
			}
		}
		perOp[i].inActualText = inActualTextScope(markStack)

		if !op.IsShowText() {
			continue
		}
		perOp[i].startMatrix = walker.TS.TextMatrix
		glyphs, total, derr := glyph.Decode(op, walker, registry, resources)
		if derr != nil {
			return nil, nil, redacterr.New(redacterr.MalformedStream, "glyph", i, derr)
		}
		perOp[i].glyphs = glyphs
		sess.glyphCount += len(glyphs)
		walker.Advance(total)
		if len(glyphs) > 0 {
			correlateOps = append(correlateOps, correlate.Operation{ID: i, Glyphs: glyphs})
		}
	}

	correlateStart := time.Now()
	plan := correlate.Correlate(correlateOps, sess.letters, frame.areas, correlate.Config{
		Strategy:    sess.r.cfg.GlyphRemovalStrategy,
		Rotation:    frame.rot,
		MediaWidth:  frame.mediaW,
		MediaHeight: frame.mediaH,
	})
	sess.correlateTime += time.Since(correlateStart)

	toContent := coords.VisualToContent(frame.rot, frame.mediaW, frame.mediaH)
	contentAreas := make([]coords.Rect, len(frame.areas))
	for i, a := range frame.areas {
		contentAreas[i] = coords.TransformRect(toContent, a).Normalize()
	}

	var out bytes.Buffer
	warnings := append([]string(nil), plan.Warnings...)

	rewriteStart := time.Now()
	defer func() { sess.rewriteTime += time.Since(rewriteStart) }()

	for i, op := range ops {
		if op.Kind == contentstream.OpInvokeXObject && sess.driver != nil {
			if name, ok := xobjectName(op); ok {
				replacement, w, recursed, rerr := sess.driver.Recurse(ctx, name, perOp[i].ctmAtOp, contentAreas)
				warnings = append(warnings, w...)
				if rerr != nil {
					return nil, warnings, rerr
				}
				if recursed {
					out.Write(replacement)
					out.WriteByte('\n')
					continue
				}
			}
		}

		if op.Kind == contentstream.OpInlineImage && inlineImageOverlaps(perOp[i].ctmAtOp, contentAreas) {
			warnings = append(warnings, redacterr.New(redacterr.UnsupportedFeature, "redact", i, errInlineImageOverlap).Error())
		}

		glyphs := perOp[i].glyphs
		if len(glyphs) == 0 {
			out.Write(content[op.Pos:op.End])
			out.WriteByte('\n')
			continue
		}
		marked := plan.Glyphs[i]
		if plan.WholeOps[i] {
			marked = allMarked(len(glyphs))
		}
		if len(marked) == 0 {
			out.Write(content[op.Pos:op.End])
			out.WriteByte('\n')
			continue
		}
		if perOp[i].inActualText {
			warnings = append(warnings, redacterr.New(redacterr.UnsupportedFeature, "redact", i, errActualTextRange).Error())
			out.Write(content[op.Pos:op.End])
			out.WriteByte('\n')
			continue
		}
		if font := glyphFont(glyphs); font != nil && font.Subtype == "Type3" {
			warnings = append(warnings, redacterr.New(redacterr.UnsupportedFeature, "redact", i, errType3Font).Error())
			out.Write(content[op.Pos:op.End])
			out.WriteByte('\n')
			continue
		}
		sess.glyphsRemoved += len(marked)
		replacement := rewrite.Op(op, glyphs, marked, perOp[i].startMatrix)
		if replacement == nil {
			sess.opsRemoved++
			continue
		}
		out.Write(replacement)
	}

	if sess.r.cfg.DrawVisualMarker && sess.depth == 0 {
		for _, r := range contentAreas {
			out.Write(rewrite.Marker(r, sess.r.cfg.MarkerColor))
		}
	}

	return out.Bytes(), warnings, nil
}

func xobjectName(op contentstream.Operation) (string, bool) {
	if len(op.Operands) == 0 || op.Operands[0].Kind != contentstream.OperandName {
		return "", false
	}
	return op.Operands[0].Name, true
}

func allMarked(n int) map[int]bool {
	m := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		m[i] = true
	}
	return m
}

var (
	// errActualTextRange and errType3Font back the UnsupportedFeature
	// warnings the operation's removal is skipped in favor of, per
	// spec.md 7: glyphs inside an ActualText range or belonging to a
	// Type 3 font are left in place rather than removed.
	errActualTextRange    = errors.New("glyph falls inside an ActualText marked-content range; operation left unchanged")
	errType3Font          = errors.New("glyph belongs to a Type 3 font; operation left unchanged")
	errInlineImageOverlap = errors.New("inline image overlaps a redaction area; inline-image content is not redacted")
)

// hasActualText reports whether a BDC operation's inline properties dict
// (its second operand, when given directly rather than by a /Properties
// resource name this package has no resource scope to resolve) carries an
// /ActualText entry -- the marked-content construct spec.md 7 names as an
// UnsupportedFeature trigger, since the accessible text it declares can
// still describe removed glyphs even after their marks are gone.
func hasActualText(op contentstream.Operation) bool {
	if len(op.Operands) < 2 || op.Operands[1].Kind != contentstream.OperandDict {
		return false
	}
	_, ok := op.Operands[1].Dict["ActualText"]
	return ok
}

// inActualTextScope reports whether any currently open BDC/BMC scope is an
// ActualText range; nested non-ActualText marked content inside one still
// counts, since the outer ActualText still describes everything within it.
func inActualTextScope(stack []bool) bool {
	for _, v := range stack {
		if v {
			return true
		}
	}
	return false
}

// glyphFont returns the font the show-text operation's first decoded
// glyph resolved against. Every glyph in one show-text operation shares
// the font selected by the most recent Tf, so the first glyph speaks for
// the whole operation.
func glyphFont(glyphs []glyph.Glyph) *fonts.Font {
	if len(glyphs) == 0 {
		return nil
	}
	return glyphs[0].Font
}

// inlineImageOverlaps reports whether the unit square an inline image
// paints into, mapped through the CTM in effect at the BI operator,
// overlaps any redaction area already expressed in content-stream space.
func inlineImageOverlaps(ctm coords.Matrix, contentAreas []coords.Rect) bool {
	imgRect := coords.TransformRect(ctm, coords.Rect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}).Normalize()
	for _, area := range contentAreas {
		if imgRect.Intersects(area) {
			return true
		}
	}
	return false
}

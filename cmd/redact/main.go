// Command redact is a thin demonstration CLI over the redact package: it
// runs one content stream through RedactPage given externally supplied
// letters and redaction areas as JSON, the way a caller embedding this
// library as a dependency would drive it. It does not parse PDF files
// itself -- resolving objects, decrypting, and decompressing streams is
// the "Page container" collaborator's job the library deliberately
// leaves external.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	redact "github.com/inkfold/redactpdf"
)

type options struct {
	contentPath string
	lettersPath string
	areasPath   string
	fontsPath   string
	outPath     string
	width       float64
	height      float64
	rotate      int
	strategy    string
	marker      bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "redact: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "redact: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/redact [flags] <content-stream-file>\n")
		flag.PrintDefaults()
	}
	flag.StringVar(&opts.lettersPath, "letters", "", "JSON file of extracted letters (required)")
	flag.StringVar(&opts.areasPath, "areas", "", "JSON file of redaction rectangles (required)")
	flag.StringVar(&opts.fontsPath, "fonts", "", "JSON file mapping resource name to a simple font dictionary")
	flag.StringVar(&opts.outPath, "out", "", "Output path for the redacted content stream (default stdout)")
	flag.Float64Var(&opts.width, "width", 612, "Page media width")
	flag.Float64Var(&opts.height, "height", 792, "Page media height")
	flag.IntVar(&opts.rotate, "rotate", 0, "Page /Rotate value")
	flag.StringVar(&opts.strategy, "strategy", "center", "Glyph removal strategy: center, overlap, or contained")
	flag.BoolVar(&opts.marker, "marker", false, "Draw a black visual marker over each redaction area")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing content-stream path")
	}
	opts.contentPath = flag.Arg(0)
	if opts.lettersPath == "" || opts.areasPath == "" {
		flag.Usage()
		return options{}, fmt.Errorf("-letters and -areas are required")
	}
	return opts, nil
}

func run(opts options) error {
	content, err := os.ReadFile(opts.contentPath)
	if err != nil {
		return fmt.Errorf("read content stream: %w", err)
	}
	letters, err := readLetters(opts.lettersPath)
	if err != nil {
		return fmt.Errorf("read letters: %w", err)
	}
	areas, err := readAreas(opts.areasPath)
	if err != nil {
		return fmt.Errorf("read areas: %w", err)
	}
	resources, err := readFonts(opts.fontsPath)
	if err != nil {
		return fmt.Errorf("read fonts: %w", err)
	}
	strategy, err := parseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	r := redact.NewRedactor(redact.Config{
		GlyphRemovalStrategy: strategy,
		DrawVisualMarker:     opts.marker,
		MarkerColor:          redact.MarkerColor{R: 0, G: 0, B: 0},
	})
	page := redact.PageInput{
		Content:   content,
		Resources: resources,
		Geometry: redact.PageGeometry{
			MediaWidth:  opts.width,
			MediaHeight: opts.height,
			Rotate:      opts.rotate,
		},
	}

	res, err := r.RedactPage(context.Background(), page, letters, areas)
	if err != nil {
		return fmt.Errorf("redact page: %w", err)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "redact: warning: %s\n", w)
	}
	fmt.Fprintf(os.Stderr, "redact: removed %d glyphs across %d operations (changed=%v)\n", res.GlyphsRemoved, res.OperationsRemoved, res.Changed)

	if opts.outPath == "" {
		_, err := os.Stdout.Write(res.Content)
		return err
	}
	return os.WriteFile(opts.outPath, res.Content, 0o644)
}

func parseStrategy(s string) (redact.GlyphRemovalStrategy, error) {
	switch s {
	case "", "center":
		return redact.CenterPoint, nil
	case "overlap":
		return redact.AnyOverlap, nil
	case "contained":
		return redact.FullyContained, nil
	default:
		return 0, fmt.Errorf("unknown -strategy %q", s)
	}
}

// letterJSON is the JSON input form of redact.Letter: its visual-space
// BBox flattened into minX/minY/maxX/maxY, the way the rest of this CLI's
// inputs spell rectangles.
type letterJSON struct {
	Unicode string  `json:"unicode"`
	MinX    float64 `json:"minX"`
	MinY    float64 `json:"minY"`
	MaxX    float64 `json:"maxX"`
	MaxY    float64 `json:"maxY"`
}

func readLetters(path string) ([]redact.Letter, error) {
	var raw []letterJSON
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	letters := make([]redact.Letter, len(raw))
	for i, l := range raw {
		letters[i] = redact.Letter{
			Unicode: l.Unicode,
			BBox:    redact.Rect{MinX: l.MinX, MinY: l.MinY, MaxX: l.MaxX, MaxY: l.MaxY},
		}
	}
	return letters, nil
}

type rectJSON struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func readAreas(path string) ([]redact.Rect, error) {
	var raw []rectJSON
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	areas := make([]redact.Rect, len(raw))
	for i, r := range raw {
		areas[i] = redact.Rect{MinX: r.MinX, MinY: r.MinY, MaxX: r.MaxX, MaxY: r.MaxY}
	}
	return areas, nil
}

// fontJSON covers only the simple-font fields a demonstration CLI needs;
// composite (Type0/CID) fonts require a richer resource description this
// command does not attempt to accept on the command line.
type fontJSON struct {
	Subtype      string    `json:"subtype"`
	BaseFont     string    `json:"baseFont"`
	BaseEncoding string    `json:"baseEncoding"`
	FirstChar    int       `json:"firstChar"`
	Widths       []float64 `json:"widths"`
	MissingWidth float64   `json:"missingWidth"`
}

func readFonts(path string) (map[string]*redact.FontDict, error) {
	if path == "" {
		return map[string]*redact.FontDict{}, nil
	}
	var raw map[string]fontJSON
	if err := readJSON(path, &raw); err != nil {
		return nil, err
	}
	out := make(map[string]*redact.FontDict, len(raw))
	for name, f := range raw {
		out[name] = &redact.FontDict{
			Subtype:      f.Subtype,
			BaseFont:     f.BaseFont,
			BaseEncoding: f.BaseEncoding,
			FirstChar:    f.FirstChar,
			Widths:       f.Widths,
			MissingWidth: f.MissingWidth,
		}
	}
	return out, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ostraca/stela/binding"
	"github.com/ostraca/stela/generate"
	"github.com/ostraca/stela/layout"
	"github.com/ostraca/stela/raster"
	"github.com/ostraca/stela/renderer"
	canvasrenderer "github.com/ostraca/stela/renderer/canvas"
	"github.com/ostraca/stela/script"
)

func main() {
	outDir := flag.String("outdir", ".", "output directory")
	scriptPath := flag.String("script", "", "job script path; replaces text arguments")
	dataJSON := flag.String("data", "", "JSON data bound to ${path} placeholders in texts")
	outName := flag.String("out", "", "output file name (single text only)")
	debugPath := flag.String("debug", "", "layout debug JSON path")

	fontSrc := flag.String("ff", "embed:goregular", "font file path or embed:<name>")
	fontStyle := flag.String("fst", "", "font style, eg. bold or italic")
	fontSize := flag.String("fs", "32pt", "font size <PIXELS | Npx | Npt>")
	fill := flag.String("fg", "0xE6E2E1", "text color")
	stroke := flag.String("st", "", "text stroke color; empty disables the stroke")
	strokeWidth := flag.String("stw", "0", "text stroke width")
	align := flag.String("align", "center", "multi-line alignment <left | center | right>")
	spacing := flag.String("spacing", "4px", "extra spacing between lines")

	background := flag.String("bg", "transparent", "background color or transparent")
	shadowColor := flag.String("sh", "", "shadow color; empty disables the shadow")
	shadowOffset := flag.String("sho", "0,0", "shadow offset <X,Y>, negative moves the text instead")
	shadowBlur := flag.Float64("shb", -1, "shadow box blur radius; 0 or less disables it")
	shadowBlend := flag.Bool("shblend", true, "recolor the rendered text instead of re-rendering it")
	shadowMethod := flag.String("shmethod", "grayscale+", "shadow blend method <grayscale+ | grayscale | luminance>")

	baseline := flag.String("baseline", "none", "baseline alignment <none | broad | perfect>")
	padding := flag.String("pad", "", "symmetric padding <X,Y>; overrides -padx and -pady")
	padX := flag.String("padx", "0,0", "left and right padding <L,R>")
	padY := flag.String("pady", "0,0", "top and bottom padding <T,B>")
	minSize := flag.String("size", "", "minimum canvas size <W,H>")
	ratio := flag.String("aspect", "", "canvas aspect ratio <N | N/D>")
	flag.Parse()

	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			log.Fatalf("parse -data JSON: %v", err)
		}
	}

	var jobs []script.Job
	if *scriptPath != "" {
		var err error
		if jobs, err = scriptJobs(*scriptPath); err != nil {
			log.Fatalf("load script %s: %v", *scriptPath, err)
		}
	} else {
		texts := flag.Args()
		if len(texts) == 0 {
			log.Fatal("nothing to do: pass text arguments or -script")
		}
		if *outName != "" && len(texts) > 1 {
			log.Fatal("-out needs exactly one text argument")
		}
		req, err := flagRequest(flagValues{
			font: *fontSrc, fontStyle: *fontStyle, fontSize: *fontSize,
			fill: *fill, stroke: *stroke, strokeWidth: *strokeWidth,
			align: *align, spacing: *spacing, background: *background,
			shadowColor: *shadowColor, shadowOffset: *shadowOffset,
			shadowBlur: *shadowBlur, shadowBlend: *shadowBlend, shadowMethod: *shadowMethod,
			baseline: *baseline, padding: *padding, padX: *padX, padY: *padY,
			minSize: *minSize, ratio: *ratio,
		})
		if err != nil {
			log.Fatalf("invalid flags: %v", err)
		}
		for _, text := range texts {
			job := script.Job{Request: req, Out: *outName}
			job.Request.Text = unescapeText(text)
			if job.Out == "" {
				job.Out = generate.SanitizeFilename(job.Request.Text) + ".png"
			}
			jobs = append(jobs, job)
		}
	}

	if err := run(jobs, *outDir, *debugPath, data, canvasrenderer.New()); err != nil {
		log.Fatal(err)
	}
}

// run generates every job, keeps going past per-image failures and
// reports a combined error so the process exits non-zero.
func run(jobs []script.Job, outDir, debugPath string, data any, m renderer.Measurer) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	failed := 0
	for _, job := range jobs {
		job.Request.Text = binding.Interpolate(job.Request.Text, data)
		job.Out = binding.Interpolate(job.Out, data)

		img, res, err := generate.ImageWithLayout(m, job.Request)
		if err != nil {
			log.Printf("image %q: %v", job.Request.Text, err)
			failed++
			continue
		}
		if debugPath != "" {
			if err := layout.WriteDebugJSON(res, debugPath); err != nil {
				return fmt.Errorf("write debug JSON: %w", err)
			}
		}

		outPath := filepath.Join(outDir, job.Out)
		if err := raster.WritePNG(outPath, img); err != nil {
			log.Printf("image %q: %v", job.Request.Text, err)
			failed++
			continue
		}
		fmt.Printf("wrote %s\n", outPath)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(jobs))
	}
	return nil
}

func scriptJobs(path string) ([]script.Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	doc, err := script.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return script.Compile(doc)
}

type flagValues struct {
	font, fontStyle, fontSize     string
	fill, stroke, strokeWidth     string
	align, spacing, background    string
	shadowColor, shadowOffset     string
	shadowBlur                    float64
	shadowBlend                   bool
	shadowMethod                  string
	baseline, padding, padX, padY string
	minSize, ratio                string
}

// flagRequest validates the flag set into one request shared by all
// text arguments.
func flagRequest(v flagValues) (generate.Request, error) {
	var req generate.Request
	var err error

	req.Style.Font = v.font
	req.Style.FontStyle = v.fontStyle
	if req.Style.FontSize, err = layout.ParseSize(v.fontSize); err != nil {
		return req, fmt.Errorf("-fs: %w", err)
	}
	if req.Style.Fill, err = layout.ParseColor(v.fill); err != nil {
		return req, fmt.Errorf("-fg: %w", err)
	}
	if v.stroke != "" {
		if req.Style.Stroke, err = layout.ParseColor(v.stroke); err != nil {
			return req, fmt.Errorf("-st: %w", err)
		}
	}
	if req.Style.StrokeWidth, err = layout.ParseSize(v.strokeWidth); err != nil {
		return req, fmt.Errorf("-stw: %w", err)
	}
	if req.Style.Align, err = layout.ParseAlignment(v.align); err != nil {
		return req, fmt.Errorf("-align: %w", err)
	}
	if req.Style.Spacing, err = layout.ParseMeasure(v.spacing); err != nil {
		return req, fmt.Errorf("-spacing: %w", err)
	}

	if req.Background, err = layout.ParseColor(v.background); err != nil {
		return req, fmt.Errorf("-bg: %w", err)
	}
	if v.shadowColor != "" {
		sh := &generate.ShadowSpec{Blur: v.shadowBlur, Blend: v.shadowBlend}
		if sh.Color, err = layout.ParseColor(v.shadowColor); err != nil {
			return req, fmt.Errorf("-sh: %w", err)
		}
		if sh.Offset, err = layout.ParseVec2(v.shadowOffset); err != nil {
			return req, fmt.Errorf("-sho: %w", err)
		}
		if sh.Method, err = raster.ParseBlendMethod(v.shadowMethod); err != nil {
			return req, fmt.Errorf("-shmethod: %w", err)
		}
		req.Shadow = sh
	}

	if req.Baseline, err = layout.ParseBaseline(v.baseline); err != nil {
		return req, fmt.Errorf("-baseline: %w", err)
	}
	if v.padding != "" {
		var p layout.Vec2
		if p, err = layout.ParseSizeVec2(v.padding); err != nil {
			return req, fmt.Errorf("-pad: %w", err)
		}
		req.Padding = &p
	}
	if req.PadX, err = layout.ParseSizeVec2(v.padX); err != nil {
		return req, fmt.Errorf("-padx: %w", err)
	}
	if req.PadY, err = layout.ParseSizeVec2(v.padY); err != nil {
		return req, fmt.Errorf("-pady: %w", err)
	}
	if v.minSize != "" {
		var s layout.Vec2
		if s, err = layout.ParseSizeVec2(v.minSize); err != nil {
			return req, fmt.Errorf("-size: %w", err)
		}
		req.MinSize = &s
	}
	if v.ratio != "" {
		var r float64
		if r, err = layout.ParseRatio(v.ratio); err != nil {
			return req, fmt.Errorf("-aspect: %w", err)
		}
		req.Ratio = &r
	}
	return req, nil
}

// unescapeText expands the \n and \\ sequences shell arguments carry.
func unescapeText(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

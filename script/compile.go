package script

import (
	"fmt"
	"strconv"

	"github.com/ostraca/stela/generate"
	"github.com/ostraca/stela/layout"
	"github.com/ostraca/stela/raster"
	"github.com/ostraca/stela/renderer"
)

// Job pairs a generation request with its output file name.
type Job struct {
	Request generate.Request
	Out     string
}

// Compile resolves a parsed script into concrete jobs. Defaults
// blocks apply in order to every image that follows; per-image
// assignments override them.
func Compile(s *Script) ([]Job, error) {
	if s.Version != "v1" {
		return nil, fmt.Errorf("unsupported script version %q, want v1", s.Version)
	}

	base := defaultRequest()
	var jobs []Job
	for _, sec := range s.Sections {
		switch {
		case sec.Defaults != nil:
			if err := applyBlock(&base, sec.Defaults, true); err != nil {
				return nil, fmt.Errorf("defaults: %w", err)
			}
		case sec.Image != nil:
			job, err := compileImage(base, sec.Image)
			if err != nil {
				return nil, fmt.Errorf("image %q (line %d): %w", string(sec.Image.Text), sec.Image.Pos.Line, err)
			}
			jobs = append(jobs, job)
		}
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("script declares no images")
	}
	return jobs, nil
}

func compileImage(base generate.Request, img *ImageEntry) (Job, error) {
	req := base
	if req.Shadow != nil {
		shadow := *req.Shadow
		req.Shadow = &shadow
	}
	req.Text = string(img.Text)

	out := ""
	for _, st := range img.Block.Statements {
		switch {
		case st.Shadow != nil:
			if err := applyShadowBlock(&req, st.Shadow); err != nil {
				return Job{}, err
			}
		case st.Assignment != nil:
			key, value := st.Assignment.Key, st.Assignment.Value.Text()
			if key == "out" {
				out = value
				continue
			}
			if err := applyOption(&req, key, value); err != nil {
				return Job{}, err
			}
		}
	}
	if out == "" {
		out = generate.SanitizeFilename(req.Text) + ".png"
	}
	return Job{Request: req, Out: out}, nil
}

func applyBlock(req *generate.Request, block *Block, isDefaults bool) error {
	for _, st := range block.Statements {
		switch {
		case st.Shadow != nil:
			if err := applyShadowBlock(req, st.Shadow); err != nil {
				return err
			}
		case st.Assignment != nil:
			if isDefaults && st.Assignment.Key == "out" {
				return fmt.Errorf("option %q is only valid inside an image block", st.Assignment.Key)
			}
			if err := applyOption(req, st.Assignment.Key, st.Assignment.Value.Text()); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyOption sets one key: value pair on the request. Values reuse
// the same parsers the CLI flags go through.
func applyOption(req *generate.Request, key, value string) error {
	var err error
	switch key {
	case "font":
		req.Style.Font = value
	case "font-style":
		req.Style.FontStyle = value
	case "font-size":
		req.Style.FontSize, err = layout.ParseSize(value)
	case "fill":
		req.Style.Fill, err = layout.ParseColor(value)
	case "stroke":
		req.Style.Stroke, err = layout.ParseColor(value)
	case "stroke-width":
		req.Style.StrokeWidth, err = layout.ParseSize(value)
	case "align":
		req.Style.Align, err = layout.ParseAlignment(value)
	case "spacing":
		req.Style.Spacing, err = layout.ParseMeasure(value)
	case "background":
		req.Background, err = layout.ParseColor(value)
	case "baseline":
		req.Baseline, err = layout.ParseBaseline(value)
	case "padding":
		var v layout.Vec2
		if v, err = layout.ParseSizeVec2(value); err == nil {
			req.Padding = &v
		}
	case "padx":
		req.PadX, err = layout.ParseSizeVec2(value)
	case "pady":
		req.PadY, err = layout.ParseSizeVec2(value)
	case "min-size":
		var v layout.Vec2
		if v, err = layout.ParseSizeVec2(value); err == nil {
			req.MinSize = &v
		}
	case "ratio":
		var r float64
		if r, err = layout.ParseRatio(value); err == nil {
			req.Ratio = &r
		}
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	if err != nil {
		return fmt.Errorf("option %q: %w", key, err)
	}
	return nil
}

// applyShadowBlock enables the shadow and fills it from the block. An
// omitted color means an opaque black shadow.
func applyShadowBlock(req *generate.Request, block *Block) error {
	if req.Shadow == nil {
		req.Shadow = &generate.ShadowSpec{
			Color:  layout.RGB(0, 0, 0),
			Blend:  true,
			Method: raster.BlendGrayscaleSum,
		}
	}
	sh := req.Shadow
	for _, st := range block.Statements {
		if st.Assignment == nil {
			return fmt.Errorf("shadow block accepts only key: value options")
		}
		key, value := st.Assignment.Key, st.Assignment.Value.Text()
		var err error
		switch key {
		case "color":
			sh.Color, err = layout.ParseColor(value)
		case "offset":
			sh.Offset, err = layout.ParseVec2(value)
		case "blur":
			sh.Blur, err = strconv.ParseFloat(value, 64)
		case "blend":
			sh.Blend, err = strconv.ParseBool(value)
		case "method":
			sh.Method, err = raster.ParseBlendMethod(value)
		default:
			return fmt.Errorf("unknown shadow option %q", key)
		}
		if err != nil {
			return fmt.Errorf("shadow option %q: %w", key, err)
		}
	}
	return nil
}

// defaultRequest mirrors the CLI flag defaults, so a script with an
// empty defaults block behaves like a bare command line.
func defaultRequest() generate.Request {
	return generate.Request{
		Style: renderer.Style{
			FontSize: layout.Pt(32),
			Fill:     layout.RGB(0xE6, 0xE2, 0xE1),
			Align:    layout.AlignCenter,
			Spacing:  4,
		},
		Baseline: layout.BaselineNone,
	}
}

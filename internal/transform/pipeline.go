// Package transform turns upstream card records into the shape the catalog
// web app reads: banned cards filtered, unused fields stripped, image paths
// and icebreaker costs derived.
package transform

import (
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/arcanaland/cardsync/internal/card"
	"github.com/arcanaland/cardsync/internal/config"
)

// Options are the values the transform depends on. Nothing here is read
// from package-level state, so tests can pass fixture values.
type Options struct {
	BannedTitle   string
	IcebreakerTag string
	RemoveFields  []string
	ImagePrefix   string

	// ImageDir is where materialized images are written.
	ImageDir string
	// SourceBase resolves relative upstream imagesrc values.
	SourceBase string
	// ImageTemplate is the upstream "{code}" image URL template, used when
	// a card has no imagesrc of its own.
	ImageTemplate string
}

// OptionsFromConfig builds Options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BannedTitle:   cfg.Transform.BannedTitle,
		IcebreakerTag: cfg.Transform.IcebreakerTag,
		RemoveFields:  cfg.Transform.RemoveFields,
		ImagePrefix:   cfg.Images.URLPrefix,
		ImageDir:      cfg.Images.Dir,
		SourceBase:    cfg.API.ImageBase,
	}
}

// Transformer runs the filter, normalize and breaker-cost steps.
type Transformer struct {
	opts   Options
	logger *slog.Logger
}

// New returns a Transformer. A nil logger discards diagnostics.
func New(opts Options, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transformer{opts: opts, logger: logger}
}

// ImageRequest asks the image sink to materialize Source at Dest.
type ImageRequest struct {
	Title  string
	Source string
	Dest   string
}

// Result is the outcome of one run.
type Result struct {
	Local    []card.Record
	Upstream []card.Record
	Images   []ImageRequest

	// Removed counts banned records dropped from both inputs.
	Removed int
	// Skipped holds one error per upstream record that could not be transformed.
	Skipped []error
	// Degraded names icebreakers that fell back to default costs.
	Degraded []string
}

// Run filters both inputs and transforms the upstream records. Records with
// missing fields are left out of Result.Upstream and reported in Skipped;
// the run itself never fails.
func (t *Transformer) Run(local, upstream []card.Record) *Result {
	res := &Result{
		Local: Filter(local, t.opts.BannedTitle),
	}
	kept := Filter(upstream, t.opts.BannedTitle)
	res.Removed = (len(local) - len(res.Local)) + (len(upstream) - len(kept))

	res.Upstream = make([]card.Record, 0, len(kept))
	for _, raw := range kept {
		out, degraded, err := t.transformOne(raw)
		if err != nil {
			t.logger.Warn("skipping card", slog.String("error", err.Error()))
			res.Skipped = append(res.Skipped, err)
			continue
		}
		if degraded {
			res.Degraded = append(res.Degraded, out.TitleOrEmpty())
		}
		if req, ok := t.imageRequest(raw); ok {
			res.Images = append(res.Images, req)
		}
		res.Upstream = append(res.Upstream, out)
	}

	t.logger.Debug("transform finished",
		slog.Int("local", len(res.Local)),
		slog.Int("upstream", len(res.Upstream)),
		slog.Int("removed", res.Removed),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("degraded", len(res.Degraded)))

	return res
}

func (t *Transformer) transformOne(raw card.Record) (card.Record, bool, error) {
	icebreaker := t.IsIcebreaker(raw)

	out, err := t.Normalize(raw)
	if err != nil {
		return nil, false, err
	}

	if !icebreaker {
		return out, false, nil
	}
	degraded, err := t.ApplyBreakerCost(out)
	if err != nil {
		return nil, false, err
	}
	return out, degraded, nil
}

// imageRequest works out where the card image comes from, using the raw
// record since Normalize overwrites imagesrc and drops code.
func (t *Transformer) imageRequest(raw card.Record) (ImageRequest, bool) {
	title := raw.TitleOrEmpty()
	source := ""

	if src, err := raw.String(card.FieldImageSrc); err == nil && src != "" {
		source = t.resolve(src)
	} else if code, err := raw.String("code"); err == nil && code != "" && t.opts.ImageTemplate != "" {
		source = strings.ReplaceAll(t.opts.ImageTemplate, "{code}", code)
	}

	if source == "" || t.opts.ImageDir == "" {
		return ImageRequest{}, false
	}
	return ImageRequest{
		Title:  title,
		Source: source,
		Dest:   filepath.Join(t.opts.ImageDir, Slug(title)+".png"),
	}, true
}

func (t *Transformer) resolve(src string) string {
	ref, err := url.Parse(src)
	if err != nil || ref.IsAbs() || t.opts.SourceBase == "" {
		return src
	}
	base, err := url.Parse(t.opts.SourceBase)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// Change lists titles that appear on only one side of a refresh.
type Change struct {
	Added   []string
	Dropped []string
}

// Diff compares the stored cards with the refreshed ones by title.
func Diff(local, upstream []card.Record) Change {
	before := make(map[string]bool, len(local))
	for _, r := range local {
		before[r.TitleOrEmpty()] = true
	}
	after := make(map[string]bool, len(upstream))
	var c Change
	for _, r := range upstream {
		title := r.TitleOrEmpty()
		after[title] = true
		if !before[title] {
			c.Added = append(c.Added, title)
		}
	}
	for _, r := range local {
		if title := r.TitleOrEmpty(); !after[title] {
			c.Dropped = append(c.Dropped, title)
		}
	}
	return c
}

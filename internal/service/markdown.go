package service

import (
	"bytes"
	"context"
	"go-portfolio-app/internal/logger"
	"html/template"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts markdown to sanitized HTML and memoises the result.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	cache     KVCache
	log       logger.Logger
}

// NewRenderer creates a Renderer. cache may be nil.
func NewRenderer(cache KVCache, log logger.Logger) *Renderer {
	return &Renderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
		cache:     cache,
		log:       log,
	}
}

// Render returns the HTML for source. Cache failures are logged and the
// markdown is rendered directly.
func (r *Renderer) Render(ctx context.Context, source string) template.HTML {
	key := cacheKey(source)
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err != nil {
			r.log.Error(err, "Failed to read markdown cache")
		} else if cached != nil {
			return template.HTML(cached)
		}
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		r.log.Error(err, "Failed to render markdown")
		return template.HTML(template.HTMLEscapeString(source))
	}
	out := r.sanitizer.SanitizeBytes(buf.Bytes())

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, out, 0); err != nil {
			r.log.Error(err, "Failed to write markdown cache")
		}
	}
	return template.HTML(out)
}

func cacheKey(source string) string {
	return "md:" + strconv.FormatUint(xxhash.Sum64String(source), 16)
}

package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// publicPaths are the pages anonymous visitors and crawlers can reach.
var publicPaths = []string{"/", "/register", "/login"}

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	baseURL string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the externally visible
// origin, e.g. https://portfolio.example.com.
func NewSeoHandler(baseURL string) *SeoHandler {
	return &SeoHandler{baseURL: strings.TrimRight(baseURL, "/")}
}

// robotsHandler serves robots.txt. Pages behind a session are disallowed.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /$")
	fmt.Fprintln(w, "Allow: /register")
	fmt.Fprintln(w, "Allow: /login")
	fmt.Fprintln(w, "Disallow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler serves sitemap.xml listing the public pages.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(publicPaths)),
	}
	for i, p := range publicPaths {
		sitemap.URLs[i] = sitemapURL{Loc: h.baseURL + p}
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}

package proxy

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"
	"resty.dev/v3"
)

// Proxy forwards every request to a fixed upstream host, dropping edge and
// forwarding headers, and answers browsers for a single allowed origin.
type Proxy struct {
	Scheme        string
	Upstream      string
	AllowedOrigin string
	Logger        *slog.Logger

	client *resty.Client
}

func New(upstream, allowedOrigin string, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{
		Scheme:        "https",
		Upstream:      upstream,
		AllowedOrigin: allowedOrigin,
		Logger:        logger.With("component", "proxy.Proxy"),
		client:        resty.New(),
	}
}

func (p *Proxy) Close() error {
	return p.client.Close()
}

// Handler wraps the forwarder with preflight handling.
func (p *Proxy) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{p.AllowedOrigin},
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         86400,
	}).Handler(p)
}

// skipHeader reports request headers that must not reach the upstream.
func skipHeader(name string) bool {
	name = strings.ToLower(name)
	switch {
	case name == "host", name == "accept-encoding":
		return true
	case strings.HasPrefix(name, "cf-"), strings.HasPrefix(name, "x-forwarded"):
		return true
	}
	return false
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	headers := http.Header{}
	for name, values := range r.Header {
		if skipHeader(name) {
			continue
		}
		headers[name] = values
	}

	// Host follows the upstream URL.
	target := p.Scheme + "://" + p.Upstream + r.URL.Path
	req := p.client.R().WithContext(r.Context()).SetHeaderMultiValues(headers)
	if len(body) > 0 {
		req.SetBody(body)
	}

	res, err := req.Execute(r.Method, target)
	if err != nil {
		p.Logger.Error("❌ Upstream request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set("Access-Control-Allow-Origin", p.AllowedOrigin)
		http.Error(w, `{"error": "Upstream unavailable"}`, http.StatusBadGateway)
		return
	}

	contentType := res.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Access-Control-Allow-Origin", p.AllowedOrigin)
	w.Header().Set("Access-Control-Allow-Headers", "*")
	w.WriteHeader(res.StatusCode())
	io.WriteString(w, res.String())

	p.Logger.Debug("forwarded", "method", r.Method, "path", r.URL.Path, "status", res.StatusCode())
}

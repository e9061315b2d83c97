package routes

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ArminNeyrizi/TherapyChatBack/internal/config"
	"github.com/gofiber/fiber/v2"
)

const docsIndexHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{ .Title }}</title>
  <style>
    :root {
      color-scheme: light;
      --bg: #f4f6f7;
      --panel: #ffffff;
      --text: #14202b;
      --muted: #53626e;
      --accent: #1f5a8a;
      --border: #d6dce0;
      --code-bg: #0f172a;
      --code-text: #e2e8f0;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: Georgia, "Times New Roman", serif;
      color: var(--text);
      background:
        radial-gradient(circle at top left, rgba(31, 90, 138, 0.12), transparent 30%),
        linear-gradient(180deg, #fbfcfc 0%, var(--bg) 100%);
    }
    main {
      max-width: 1120px;
      margin: 0 auto;
      padding: 48px 20px 64px;
    }
    .hero, .panel {
      background: rgba(255, 255, 255, 0.92);
      border: 1px solid var(--border);
      border-radius: 18px;
      box-shadow: 0 20px 60px rgba(20, 32, 43, 0.08);
      backdrop-filter: blur(8px);
    }
    .hero {
      padding: 28px;
      margin-bottom: 20px;
    }
    .hero h1 {
      margin: 0 0 12px;
      font-size: clamp(2rem, 5vw, 3.5rem);
      line-height: 0.96;
    }
    .hero p {
      margin: 0;
      max-width: 48rem;
      color: var(--muted);
      font-size: 1rem;
      line-height: 1.6;
    }
    .actions {
      display: flex;
      flex-wrap: wrap;
      gap: 12px;
      margin-top: 20px;
    }
    .button {
      display: inline-flex;
      align-items: center;
      justify-content: center;
      padding: 11px 16px;
      border-radius: 999px;
      border: 1px solid var(--accent);
      color: #fff;
      background: var(--accent);
      text-decoration: none;
      font-weight: 600;
    }
    .button.secondary {
      background: transparent;
      color: var(--accent);
    }
    .meta {
      display: grid;
      gap: 12px;
      margin: 20px 0;
      grid-template-columns: repeat(auto-fit, minmax(220px, 1fr));
    }
    .panel {
      padding: 24px;
    }
    .meta strong, .panel h2 {
      display: block;
      margin-bottom: 6px;
      font-size: 0.92rem;
      text-transform: uppercase;
      letter-spacing: 0.08em;
      color: var(--muted);
    }
    .meta span {
      font-size: 1rem;
    }
    pre {
      margin: 0;
      padding: 20px;
      overflow: auto;
      border-radius: 14px;
      background: var(--code-bg);
      color: var(--code-text);
      font-size: 0.92rem;
      line-height: 1.5;
    }
  </style>
</head>
<body>
  <main>
    <section class="hero">
      <h1>{{ .Title }}</h1>
      <p>The OpenAPI spec is served from the same origin at <code>/docs/openapi.yaml</code>. The docs surface is read-only and intended for development-only exposure.</p>
      <div class="actions">
        <a class="button" href="/docs/openapi.yaml">Open Raw Spec</a>
        <a class="button secondary" href="/docs/openapi.yaml" download="openapi.yaml">Download YAML</a>
      </div>
    </section>
    <section class="meta">
      <div class="panel">
        <strong>Spec Path</strong>
        <span>/docs/openapi.yaml</span>
      </div>
      <div class="panel">
        <strong>Last Loaded</strong>
        <span>{{ .LoadedAt }}</span>
      </div>
      <div class="panel">
        <strong>UI Mode</strong>
        <span>Read-only same-origin spec</span>
      </div>
    </section>
    <section class="panel">
      <h2>OpenAPI YAML</h2>
      <pre>{{ .Spec }}</pre>
    </section>
  </main>
</body>
</html>
`

type docsPageData struct {
	Title    string
	LoadedAt string
	Spec     string
}

func registerDocsRoutes(app fiber.Router, cfg *config.Config) error {
	if !cfg.DocsEnabled() {
		return nil
	}

	spec, err := loadOpenAPISpec()
	if err != nil {
		return fmt.Errorf("load openapi spec: %w", err)
	}

	indexTemplate, err := template.New("docs-index").Parse(docsIndexHTML)
	if err != nil {
		return fmt.Errorf("parse docs template: %w", err)
	}

	pageData := docsPageData{
		Title:    "TherapyChatBack API Docs",
		LoadedAt: time.Now().UTC().Format(time.RFC3339),
		Spec:     string(spec),
	}

	indexHandler := func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, fiber.MIMETextHTMLCharsetUTF8)
		c.Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; img-src 'self' data:; base-uri 'none'; form-action 'none'; frame-ancestors 'none'")

		var body bytes.Buffer
		if err := indexTemplate.Execute(&body, pageData); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render api docs")
		}

		return c.Status(fiber.StatusOK).Send(body.Bytes())
	}

	app.Get("/docs", indexHandler)
	app.Get("/docs/", indexHandler)
	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		applyDocsBaseHeaders(c, "application/yaml; charset=utf-8")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="openapi.yaml"`)
		return c.Status(fiber.StatusOK).Send(spec)
	})

	return nil
}

func loadOpenAPISpec() ([]byte, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("resolve source path")
	}

	specPath := filepath.Join(filepath.Dir(currentFile), "..", "..", "docs", "openapi.yaml")
	spec, err := os.ReadFile(specPath)
	if err != nil {
		return nil, err
	}

	return spec, nil
}

func applyDocsBaseHeaders(c *fiber.Ctx, contentType string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-store, max-age=0")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	c.Set(fiber.HeaderXFrameOptions, "DENY")
	c.Set("Referrer-Policy", "no-referrer")
	c.Set("Permissions-Policy", "accelerometer=(), camera=(), geolocation=(), gyroscope=(), magnetometer=(), microphone=(), payment=(), usb=()")
	c.Set("Cross-Origin-Resource-Policy", "same-origin")
	c.Set("Cross-Origin-Opener-Policy", "same-origin")
	c.Set("X-Robots-Tag", "noindex, nofollow")
}

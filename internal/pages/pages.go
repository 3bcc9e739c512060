// Package pages renders the HTML documents returned by the tracking
// endpoint: a styled error page and the redirect interstitial. Rendering is
// pure; the templates are parsed once at package load and the render
// functions cannot fail for well-formed string input.
package pages

import (
	"html/template"
	"strings"
)

const errorPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f5f6fa; margin: 0; display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    .card { background: #fff; border-radius: 12px; box-shadow: 0 4px 16px rgba(0,0,0,0.08); padding: 48px 40px; max-width: 420px; text-align: center; }
    h1 { font-size: 22px; color: #2d3436; margin: 0 0 12px; }
    p { color: #636e72; margin: 0 0 8px; line-height: 1.5; }
    .sub { font-size: 14px; color: #b2bec3; }
  </style>
</head>
<body>
  <div class="card">
    <h1>{{.Title}}</h1>
    <p>{{.Message}}</p>
    <p class="sub">{{.Submessage}}</p>
  </div>
</body>
</html>`

const redirectPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta http-equiv="refresh" content="{{.DelaySeconds}};url={{.RedirectURL}}">
  <title>Redirecting to {{.BusinessName}}</title>
  <style>
    body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; background: #f5f6fa; margin: 0; display: flex; align-items: center; justify-content: center; min-height: 100vh; }
    .card { background: #fff; border-radius: 12px; box-shadow: 0 4px 16px rgba(0,0,0,0.08); padding: 48px 40px; max-width: 420px; text-align: center; }
    h1 { font-size: 22px; color: #2d3436; margin: 0 0 12px; }
    p { color: #636e72; margin: 0 0 16px; line-height: 1.5; }
    .badge { display: inline-block; border-radius: 999px; padding: 4px 14px; font-size: 13px; margin-bottom: 16px; }
    .badge.first { background: #e3f9e5; color: #207227; }
    .badge.repeat { background: #fff4e0; color: #9c6b1f; }
    a.fallback { color: #0984e3; }
  </style>
  <script>
    setTimeout(function () { window.location.href = {{.RedirectURL}}; }, {{.DelaySeconds}} * 1000);
  </script>
</head>
<body>
  <div class="card">
    {{if .IsFirstClick}}<span class="badge first">Thanks for clicking!</span>{{else}}<span class="badge repeat">Welcome back</span>{{end}}
    <h1>{{if .FirstName}}Hi {{.FirstName}}, thanks{{else}}Thank you{{end}} for supporting {{.BusinessName}}</h1>
    <p>Taking you to the review page now&hellip;</p>
    <p>If nothing happens, <a class="fallback" href="{{.RedirectURL}}">click here to continue</a>.</p>
  </div>
</body>
</html>`

// redirectDelaySeconds is how long the interstitial is shown before the
// meta-refresh and the script timer fire.
const redirectDelaySeconds = 2

var (
	errorTmpl    = template.Must(template.New("error").Parse(errorPageTemplate))
	redirectTmpl = template.Must(template.New("redirect").Parse(redirectPageTemplate))
)

type errorPageData struct {
	Title      string
	Message    string
	Submessage string
}

type redirectPageData struct {
	BusinessName string
	RedirectURL  string
	FirstName    string
	IsFirstClick bool
	DelaySeconds int
}

// RenderErrorPage produces the static error document shown for invalid,
// unknown, inactive and failed lookups. It never links anywhere.
func RenderErrorPage(title, message, submessage string) string {
	var buf strings.Builder
	// Execution over a Builder with a pre-parsed template cannot fail for
	// string inputs; an empty page would only hide the real error anyway.
	_ = errorTmpl.Execute(&buf, errorPageData{
		Title:      title,
		Message:    message,
		Submessage: submessage,
	})
	return buf.String()
}

// RenderRedirectPage produces the interstitial that forwards the browser to
// the resolved review URL. Three redirect mechanisms are stacked: a
// meta-refresh, a script timer, and a manually clickable link.
func RenderRedirectPage(businessName, redirectURL, firstName string, isFirstClick bool) string {
	var buf strings.Builder
	_ = redirectTmpl.Execute(&buf, redirectPageData{
		BusinessName: businessName,
		RedirectURL:  redirectURL,
		FirstName:    firstName,
		IsFirstClick: isFirstClick,
		DelaySeconds: redirectDelaySeconds,
	})
	return buf.String()
}

package fixturesite

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/a-h/templ"
	"github.com/gofrs/uuid"
)

type layoutProps struct {
	Title       string
	Style       string
	DelayMillis int64
	StepMillis  int64
}

// layout renders the page frame. Scripts of the pages read their timings from the data attributes
// of #content.
func layout(props layoutProps, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(props.Title)

		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s - UI Test Automation Playground</title>
<style>
%s</style>
</head>
<body>
<h3>%s</h3>
<section id="content" data-delay="%d" data-step="%d">
`, title, props.Style, title, props.DelayMillis, props.StepMillis)
		if err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, "</section>\n</body>\n</html>\n")
		return err
	})
}

func indexContent(pages []Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<ul>\n")
		for _, p := range pages {
			_, err := fmt.Fprintf(w, "<li><a href=\"/%s\">%s</a></li>\n", templ.EscapeString(p.Name), templ.EscapeString(p.Title))
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
}

// dynamicIDContent renders a button with an ID that changes on every render.
func dynamicIDContent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, "<button type=\"button\" class=\"btn btn-primary\" id=\"%s\">Button with Dynamic ID</button>\n", uuid.Must(uuid.NewV4()))
		return err
	})
}

// staticContent renders an embedded page fragment as is.
func staticContent(fsys fs.FS, name string) (templ.Component, error) {
	b, err := fs.ReadFile(fsys, "pages/"+name+".html")
	if err != nil {
		return nil, err
	}
	return templ.Raw(string(b)), nil
}

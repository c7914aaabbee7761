// Package templates holds the HTML fragments returned to htmx requests.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/jaarrekening/internal/extract"
)

// ErrorAlert renders a dismissible error box with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><strong>%s</strong>`,
			templ.EscapeString(message))
		if err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, `<p>%s</p>`, templ.EscapeString(action)); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintf(w, `<small>Code: %s</small></div>`, templ.EscapeString(code))
		return err
	})
}

var qualityText = map[extract.Quality]string{
	extract.QualityGood:  "Goede data",
	extract.QualityLow:   "Weinig data",
	extract.QualityError: "Fout",
}

// QualityBadge renders the data-quality label of a record.
func QualityBadge(q extract.Quality) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		text, ok := qualityText[q]
		if !ok {
			text = "Onbekend"
		}
		_, err := fmt.Fprintf(w, `<span class="badge badge-%s">%s</span>`,
			templ.EscapeString(string(q)), templ.EscapeString(text))
		return err
	})
}

// UploadResult summarises a stored record after an upload.
func UploadResult(rec *extract.YearRecord, fileName string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<div class="upload-result"><h3>%d: %s</h3>`,
			rec.Year, templ.EscapeString(fileName)); err != nil {
			return err
		}
		if err := QualityBadge(rec.DataQuality).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<p>%d velden gevonden</p>`, len(rec.Populated())); err != nil {
			return err
		}
		if len(rec.ValidationWarnings) > 0 {
			if _, err := io.WriteString(w, `<ul class="warnings">`); err != nil {
				return err
			}
			for _, warning := range rec.ValidationWarnings {
				if _, err := fmt.Fprintf(w, `<li>%s</li>`, templ.EscapeString(warning)); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

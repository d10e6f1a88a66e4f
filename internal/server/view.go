package server

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"RSIDashboard/internal/model"

	"github.com/labstack/echo/v4"
)

const indexTemplate = "index.html"

//go:embed templates/index.html
var indexHTML string

type indexPage struct {
	Records     []model.Record
	Sentiment   string
	RefreshedAt time.Time
}

func sentimentText(s model.Sentiment) string {
	if !s.Known() {
		return "Unavailable"
	}
	return fmt.Sprintf("%d (%s)", *s.Value, s.Classification)
}

// RSIColor picks the progress bar colour. Buckets overlap; the first match wins.
func RSIColor(rsi float64) string {
	switch {
	case rsi == 50:
		return "darkblue"
	case rsi >= 40 && rsi <= 60:
		return "#5FD0F3"
	case rsi > 30 && rsi < 40:
		return "#b9edd1"
	case rsi > 60 && rsi <= 70:
		return "#F7CC53"
	case rsi > 70 && rsi <= 80:
		return "red"
	case rsi > 80:
		return "#B20000"
	case rsi > 25 && rsi <= 35:
		return "#51D28C"
	case rsi <= 25:
		return "#389362"
	default:
		return "#4291AA"
	}
}

func rsiBarStyle(v *float64) template.CSS {
	if v == nil {
		return "width: 0%;"
	}
	return template.CSS(fmt.Sprintf("width: %g%%; background-color: %s;", *v, RSIColor(*v)))
}

func rsiText(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g", *v)
}

// templateFuncs are available to the page. add3 offsets an RSI window index past the first three columns.
var templateFuncs = template.FuncMap{
	"rsiBarStyle": rsiBarStyle,
	"rsiText":     rsiText,
	"rsiWindows":  func() []model.RSIWindow { return model.RSIWindows },
	"add3":        func(i int) int { return i + 3 },
}

type renderer struct {
	templates *template.Template
}

func newRenderer() *renderer {
	return &renderer{
		templates: template.Must(template.New(indexTemplate).Funcs(templateFuncs).Parse(indexHTML)),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

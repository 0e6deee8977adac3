// Package web holds the HTML views and static assets, embedded in the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"lowvie/internal/models"

	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed views
var views embed.FS

//go:embed static
var static embed.FS

// Engine builds the template engine with the view helpers registered.
func Engine() *html.Engine {
	sub, err := fs.Sub(views, "views")
	if err != nil {
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	for name, fn := range Funcs() {
		engine.AddFunc(name, fn)
	}
	return engine
}

// Static is the asset tree served under /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

func Funcs() map[string]any {
	titler := cases.Title(language.English)
	return map[string]any{
		"usd": models.FormatUSD,
		"title": func(s string) string {
			return titler.String(s)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"savingsPercent": func(alt models.Alternative, price decimal.Decimal) string {
			return alt.SavingsPercent(price).StringFixed(1)
		},
	}
}

package html

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"stockops.GO/api"
	"stockops.GO/config"
	"stockops.GO/service/forecast"
)

func init() {
	api.RegisterHTMLModule(RegisterStatusHTMLRoutes)
}

// fdays renders the nullable days-remaining figure.
func fdays(f *float64) string {
	if f == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *f)
}

var statusTmpl = template.Must(template.New("status").Funcs(template.FuncMap{"fdays": fdays}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: left; }
tr.out_of_stock td { background: #f8d0d0; }
tr.critical td { background: #fbe3c8; }
tr.warning td { background: #fdf6c8; }
.summary span { margin-right: 1.5em; }
</style>
</head>
<body>
<h1>Stock Status</h1>
<p class="summary">
<span>OK: {{.Overview.Summary.OK}}</span>
<span>Warning: {{.Overview.Summary.Warning}}</span>
<span>Critical: {{.Overview.Summary.Critical}}</span>
<span>Out of stock: {{.Overview.Summary.OutOfStock}}</span>
<span>Units on order: {{.Overview.Summary.OnOrder}}</span>
</p>
{{if .Overview.Warnings}}<ul>{{range .Overview.Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}
<table>
<tr><th>SKU</th><th>Name</th><th>On hand</th><th>Available</th><th>On order</th><th>Velocity/day</th><th>Days left</th><th>Status</th><th>Suggested order</th></tr>
{{range .Overview.Components}}<tr class="{{.Status}}">
<td>{{.SKU}}</td><td>{{.Name}}</td><td>{{.OnHand}}</td><td>{{.Available}}</td><td>{{.OnOrder}}</td>
<td>{{printf "%.2f" .Velocity}}</td>
<td>{{fdays .DaysRemaining}}</td>
<td>{{.Status}}</td><td>{{if .SuggestedOrderQty}}{{.SuggestedOrderQty}}{{end}}</td>
</tr>
{{end}}</table>
</body>
</html>`))

// RegisterStatusHTMLRoutes serves the plain server-rendered stock table for
// quick checks without the dashboard frontend.
func RegisterStatusHTMLRoutes(e *echo.Echo, db *gorm.DB) {
	e.GET("/status", func(c echo.Context) error {
		res, err := forecast.Overview(db, time.Now())
		if err != nil {
			return c.String(http.StatusInternalServerError, "overview failed: "+err.Error())
		}
		config.LoadAppConfig()
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(http.StatusOK)
		return statusTmpl.Execute(c.Response(), map[string]interface{}{
			"Title":    "Stock Status - " + config.AppConfig.AppName,
			"Overview": res,
		})
	})
}

package alert

import (
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"stockops.GO/service/forecast"
)

// LowStockAlertData is the daily procurement report: every active component
// needing attention, partitioned by severity, with suggested order
// quantities. Recomputing it is pure; running the batch twice on the same
// data yields the same report.
type LowStockAlertData struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	OutOfStock  []forecast.ComponentStatus `json:"out_of_stock"`
	Critical    []forecast.ComponentStatus `json:"critical"`
	Warning     []forecast.ComponentStatus `json:"warning"`
	Summary     forecast.Summary           `json:"summary"`
	DataQuality []string                   `json:"data_quality,omitempty"`
}

// Empty reports whether nothing needs attention.
func (d *LowStockAlertData) Empty() bool {
	return len(d.OutOfStock) == 0 && len(d.Critical) == 0 && len(d.Warning) == 0
}

// Notifier consumes the report. Implementations deliver it to operators
// (mail, chat, webhook); the default just logs.
type Notifier interface {
	Notify(data *LowStockAlertData) error
}

// LogNotifier writes the report summary to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(data *LowStockAlertData) error {
	log.Printf("low stock report: %d out of stock, %d critical, %d warning (%d units on order)",
		len(data.OutOfStock), len(data.Critical), len(data.Warning), data.Summary.OnOrder)
	for _, c := range data.OutOfStock {
		log.Printf("  out_of_stock %s (%s): suggested order %d", c.SKU, c.Name, c.SuggestedOrderQty)
	}
	for _, c := range data.Critical {
		log.Printf("  critical %s (%s): %.1f days left, suggested order %d", c.SKU, c.Name, deref(c.DaysRemaining), c.SuggestedOrderQty)
	}
	return nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

var (
	notifierMu sync.Mutex
	notifiers  []Notifier
)

// RegisterNotifier adds a report consumer. Call from init() in extension
// packages.
func RegisterNotifier(n Notifier) {
	notifierMu.Lock()
	defer notifierMu.Unlock()
	notifiers = append(notifiers, n)
}

func registeredNotifiers() []Notifier {
	notifierMu.Lock()
	defer notifierMu.Unlock()
	if len(notifiers) == 0 {
		return []Notifier{LogNotifier{}}
	}
	return append([]Notifier(nil), notifiers...)
}

// BuildReport recomputes the low stock report from current stock and the
// trailing consumption window. Read-only.
func BuildReport(db *gorm.DB, now time.Time) (*LowStockAlertData, error) {
	overview, err := forecast.Overview(db, now)
	if err != nil {
		return nil, err
	}

	data := &LowStockAlertData{
		GeneratedAt: now,
		Summary:     overview.Summary,
		DataQuality: overview.Warnings,
	}
	for _, c := range overview.Components {
		switch c.Status {
		case forecast.StatusOutOfStock:
			data.OutOfStock = append(data.OutOfStock, c)
		case forecast.StatusCritical:
			data.Critical = append(data.Critical, c)
		case forecast.StatusWarning:
			data.Warning = append(data.Warning, c)
		}
	}
	return data, nil
}

// Run builds the report and fans it out to every registered notifier. One
// failing notifier does not stop the others; the first error is returned.
func Run(db *gorm.DB, now time.Time) error {
	data, err := BuildReport(db, now)
	if err != nil {
		return err
	}

	eg := new(errgroup.Group)
	for _, n := range registeredNotifiers() {
		n := n
		eg.Go(func() error {
			return n.Notify(data)
		})
	}
	return eg.Wait()
}

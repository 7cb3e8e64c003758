// Package output renders CLI results as aligned tables or indented JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/donaldgifford/stock-tracker/internal/api/handlers"
	"github.com/donaldgifford/stock-tracker/internal/engine"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Reports writes one row per storefront cycle.
func Reports(w io.Writer, reports []engine.CycleReport) error {
	tw := newTabWriter(w)
	tw.writef("STORE\tOUTCOME\tITEMS\tNOTIFIED\tSUPPRESSED\tPRICE\tCOOKIES\tERRORS\tDURATION\n")
	for i := range reports {
		r := &reports[i]
		tw.writef("%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.Store,
			r.Outcome,
			r.Items,
			r.Notified,
			r.Suppressed,
			r.PriceChanges,
			r.Cookies,
			r.QueryErrors,
			r.Duration.Round(time.Millisecond),
		)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	for i := range reports {
		if reports[i].Error != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n", reports[i].Store, reports[i].Error); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stores writes one row per configured storefront.
func Stores(w io.Writer, stores []handlers.StoreSummary) error {
	tw := newTabWriter(w)
	tw.writef("STORE\tSTOCK\tBASKET\n")
	for _, s := range stores {
		tw.writef("%s\t%d\t%d\n", s.ID, s.Stock, s.Basket)
	}
	return tw.finish()
}

// Cooldowns writes one row per active cooldown.
func Cooldowns(w io.Writer, cooldowns []handlers.CooldownView) error {
	tw := newTabWriter(w)
	tw.writef("PRODUCT\tBUYABILITY\tENDS\tREMAINING\n")
	for i := range cooldowns {
		c := &cooldowns[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			c.ID,
			c.Buyability,
			c.EndTime.Local().Format("2006-01-02 15:04:05"),
			time.Duration(c.RemainingSeconds)*time.Second,
		)
	}
	return tw.finish()
}

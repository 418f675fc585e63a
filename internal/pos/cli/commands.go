package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/dmitrijs2005/possync/internal/pos/services"
)

// ivaRatePercent is the VAT rate applied to every sale.
const ivaRatePercent = 19

func formatMoney(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

func formatTime(epochMillis int64) string {
	return time.UnixMilli(epochMillis).Format("15:04:05")
}

// Sell rings up a sale: line items are picked from the cached catalog, the
// snapshot is queued locally, and a background drain is kicked off. The sale
// counts as recorded the moment Enqueue returns.
func (a *App) Sell(ctx context.Context) error {
	cached, err := a.catalog.Products(ctx)
	if err != nil {
		a.log.Error(ctx, "error reading catalog", "error", err)
		return err
	}
	byID := make(map[string]models.Product, len(cached))
	for _, p := range cached {
		byID[p.ID] = p
	}

	var items []models.SaleItem
	for {
		id, err := GetSimpleText(a.reader, "Product id (empty line to finish)", os.Stdout)
		if err != nil {
			return err
		}
		if id == "" {
			break
		}
		p, ok := byID[id]
		if !ok {
			printlnFn("Unknown product:", id)
			continue
		}
		qty, err := GetPositiveInt(a.reader, "Quantity", os.Stdout)
		if err != nil {
			printlnFn(err.Error())
			continue
		}
		items = append(items, models.SaleItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
		})
	}
	if len(items) == 0 {
		printlnFn("Nothing to sell")
		return nil
	}

	payment, err := GetSimpleText(a.reader, "Payment method (cash/card)", os.Stdout)
	if err != nil {
		return err
	}

	var subtotal int64
	for _, it := range items {
		subtotal += it.Quantity * it.UnitPrice
	}
	tax := subtotal * ivaRatePercent / 100

	snapshot := models.SaleSnapshot{
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		PaymentMethod: payment,
	}

	tempID, err := a.queue.Enqueue(ctx, snapshot)
	if err != nil {
		// the cashier must know this sale was NOT recorded
		a.log.Error(ctx, "sale could not be queued", "error", err)
		printlnFn("SALE NOT RECORDED:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("Sale recorded locally (%s), total %s", tempID, formatMoney(snapshot.Total)))

	go func() {
		if _, err := a.syncer.Drain(ctx); err != nil {
			a.log.Error(ctx, "background drain failed", "error", err)
		}
	}()
	return nil
}

// Pending prints the local queue with retry counters.
func (a *App) Pending(ctx context.Context) error {
	records, err := a.queue.List(ctx)
	if err != nil {
		a.log.Error(ctx, "error listing queue", "error", err)
		return err
	}
	if len(records) == 0 {
		printlnFn("Queue is empty")
		return nil
	}
	for _, r := range records {
		state := "pending"
		if r.Rejected {
			state = "REJECTED: " + r.LastError
		} else if r.RetryCount >= services.StuckRetryThreshold {
			state = fmt.Sprintf("STUCK (%d retries): %s", r.RetryCount, r.LastError)
		}
		printlnFn(fmt.Sprintf("%s  %s  %s  retries=%d  %s",
			r.TempID, formatTime(r.CreatedAt), formatMoney(r.Payload.Total), r.RetryCount, state))
	}
	return nil
}

// Sync drains the queue now and prints the report.
func (a *App) Sync(ctx context.Context) error {
	report, err := a.syncer.Drain(ctx)
	if err != nil {
		a.log.Error(ctx, "drain failed", "error", err)
		return err
	}
	printlnFn(fmt.Sprintf("Sync: %d attempted, %d delivered, %d failed, %d rejected",
		report.Attempted, report.Delivered, report.Failed, report.Rejected))
	return nil
}

// History prints the merged shift view, most recent first.
func (a *App) History(ctx context.Context) error {
	sales, err := a.history.ShiftHistory(ctx)
	if err != nil {
		a.log.Error(ctx, "error building shift history", "error", err)
		return err
	}
	if len(sales) == 0 {
		printlnFn("No sales this shift")
		return nil
	}
	for _, s := range sales {
		tag := string(s.Status)
		if s.Status == models.SaleStatusPending && s.RetryCount >= services.StuckRetryThreshold {
			tag = "pending (stuck)"
		}
		printlnFn(fmt.Sprintf("%s  %s  %s  [%s]",
			formatTime(s.CreatedAt), s.ID, formatMoney(s.Total), tag))
	}
	return nil
}

// Catalog refreshes the product cache and prints it. When the refresh fails
// the stale snapshot is shown instead.
func (a *App) Catalog(ctx context.Context) error {
	if err := a.catalog.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "catalog refresh failed, showing cached snapshot", "error", err)
	}
	items, err := a.catalog.Products(ctx)
	if err != nil {
		a.log.Error(ctx, "error reading catalog", "error", err)
		return err
	}
	if len(items) == 0 {
		printlnFn("Catalog is empty")
		return nil
	}
	for _, p := range items {
		printlnFn(fmt.Sprintf("%s  %-20s  %s  stock=%d", p.ID, p.Name, formatMoney(p.Price), p.Stock))
	}
	return nil
}

// Abandon drops an unrecoverable queued sale after explicit confirmation.
func (a *App) Abandon(ctx context.Context) error {
	tempID, err := GetSimpleText(a.reader, "Temp id to abandon", os.Stdout)
	if err != nil {
		return err
	}
	if tempID == "" {
		return nil
	}
	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Abandon %s permanently? (yes/no)", tempID), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Cancelled")
		return nil
	}
	if err := a.queue.Remove(ctx, tempID); err != nil {
		a.log.Error(ctx, "error abandoning sale", "error", err)
		return err
	}
	printlnFn("Abandoned", tempID)
	return nil
}

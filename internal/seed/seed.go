// ABOUTME: Seed job for the repair shop database.
// ABOUTME: Upserts customers, technicians, miners, work orders, invoices and payments on their unique keys.

package seed

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/2389/rigdesk/internal/store"
)

// Seeder writes the seed dataset into a store.
type Seeder struct {
	store *store.Store
	gen   *Generator
	now   func() time.Time
}

// NewSeeder creates a seeder. A nil generator uses the static names.
func NewSeeder(s *store.Store, gen *Generator) *Seeder {
	if gen == nil {
		gen = NewStaticGenerator()
	}
	return &Seeder{store: s, gen: gen, now: time.Now}
}

// Summary counts the rows each entity received.
type Summary struct {
	Customers   int
	Technicians int
	Miners      int
	WorkOrders  int
	Invoices    int
	Payments    int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d customers, %d technicians, %d miners, %d work orders, %d invoices, %d payments",
		s.Customers, s.Technicians, s.Miners, s.WorkOrders, s.Invoices, s.Payments)
}

// Run seeds every entity. Running it again refreshes the same rows.
func (sd *Seeder) Run(ctx context.Context) (*Summary, error) {
	now := sd.now()
	stamp := now.Format("20060102")
	people := sd.gen.People(ctx, len(customerEmails), len(technicianProfiles))
	sum := &Summary{}

	customers := make([]store.Customer, len(people.Customers))
	for i, p := range people.Customers {
		c, err := sd.store.Customers().Upsert(ctx, store.Customer{
			Name:    p.Name,
			Email:   customerEmails[i],
			Phone:   p.Phone,
			Company: p.Company,
			Status:  "ACTIVE",
		})
		if err != nil {
			return nil, fmt.Errorf("seed customer %s: %w", customerEmails[i], err)
		}
		customers[i] = c
		sum.Customers++
	}

	technicians := make([]store.Technician, len(people.Technicians))
	for i, p := range people.Technicians {
		prof := technicianProfiles[i]
		t, err := sd.store.Technicians().Upsert(ctx, store.Technician{
			Name:       p.Name,
			Email:      prof.email,
			Phone:      p.Phone,
			Specialty:  prof.specialty,
			Status:     prof.status,
			HourlyRate: prof.rate,
		})
		if err != nil {
			return nil, fmt.Errorf("seed technician %s: %w", prof.email, err)
		}
		technicians[i] = t
		sum.Technicians++
	}

	miners := make([]store.Miner, len(staticMiners))
	for i, m := range staticMiners {
		row, err := sd.store.Miners().Upsert(ctx, store.Miner{
			CustomerID:   customers[m.customer].ID,
			Model:        m.model,
			Manufacturer: m.manufacturer,
			SerialNumber: m.serial,
			Hashrate:     m.hashrate,
			Status:       m.status,
			Notes:        m.notes,
		})
		if err != nil {
			return nil, fmt.Errorf("seed miner %s: %w", m.serial, err)
		}
		miners[i] = row
		sum.Miners++
	}

	orders := make([]store.WorkOrder, len(staticWorkOrders))
	for i, w := range staticWorkOrders {
		miner := miners[w.miner]
		wo := store.WorkOrder{
			OrderNumber:   number("WO", stamp, i),
			CustomerID:    miner.CustomerID,
			MinerID:       miner.ID,
			Title:         w.title,
			Description:   fmt.Sprintf("%s for %s (%s)", w.title, miner.Model, miner.SerialNumber),
			Status:        w.status,
			Priority:      w.priority,
			EstimatedCost: w.cost,
			DueDate:       now.AddDate(0, 0, w.dueInDays).Format(time.DateOnly),
		}
		if w.technician >= 0 {
			wo.TechnicianID = technicians[w.technician].ID
		}
		row, err := sd.store.WorkOrders().Upsert(ctx, wo)
		if err != nil {
			return nil, fmt.Errorf("seed work order %s: %w", wo.OrderNumber, err)
		}
		orders[i] = row
		sum.WorkOrders++
	}

	invoices := make([]store.Invoice, len(staticInvoices))
	for i, inv := range staticInvoices {
		wo := orders[inv.workOrder]
		row, err := sd.store.Invoices().Upsert(ctx, store.Invoice{
			InvoiceNumber: number("INV", stamp, i),
			CustomerID:    wo.CustomerID,
			WorkOrderID:   wo.ID,
			Amount:        wo.EstimatedCost,
			Tax:           cents(wo.EstimatedCost * taxRate),
			Status:        inv.status,
			DueDate:       now.AddDate(0, 0, inv.dueInDays).Format(time.DateOnly),
		})
		if err != nil {
			return nil, fmt.Errorf("seed invoice %d: %w", i+1, err)
		}
		invoices[i] = row
		sum.Invoices++
	}

	for i, p := range staticPayments {
		inv := invoices[p.invoice]
		payment := store.Payment{
			InvoiceID: inv.ID,
			Amount:    cents(inv.Total * p.share),
			Method:    p.method,
			Status:    p.status,
			Reference: number("PAY", stamp, i),
		}
		if p.status == "COMPLETED" {
			payment.PaidAt = now.Format(time.DateOnly)
		}
		if _, err := sd.store.Payments().Upsert(ctx, payment); err != nil {
			return nil, fmt.Errorf("seed payment %s: %w", payment.Reference, err)
		}
		sum.Payments++
	}

	log.Printf("Seeded %s", sum)
	return sum, nil
}

// number formats a document number such as WO-20261017-001.
func number(prefix, stamp string, i int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, stamp, i+1)
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

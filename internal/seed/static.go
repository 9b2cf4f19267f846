// ABOUTME: Static seed dataset for the repair shop.
// ABOUTME: Emails, serials and hardware are fixed so repeated seeds upsert the same rows.

package seed

var staticCustomers = []PersonData{
	{Name: "Dana Whitfield", Company: "Blockhaus GmbH", Phone: "555-201-4410"},
	{Name: "Marcus Oyelaran", Company: "Northern Lights Hosting", Phone: "555-318-2207"},
	{Name: "Priya Raman", Company: "Hashfield Farms", Phone: "555-402-9913"},
	{Name: "Tomás Ibarra", Company: "Solar Ridge Mining", Phone: "555-617-3380"},
	{Name: "Grace Liu", Company: "", Phone: "555-729-0046"},
	{Name: "Owen Mbeki", Company: "Delta Pool Co-op", Phone: "555-884-1172"},
}

// customerEmails are the upsert keys; they stay fixed even when names are generated.
var customerEmails = []string{
	"dana@blockhaus.example",
	"marcus@northernlights.example",
	"priya@hashfield.example",
	"tomas@solarridge.example",
	"grace.liu@example.com",
	"owen@deltapool.example",
}

var staticTechnicians = []PersonData{
	{Name: "Sam Kowalski", Phone: "555-110-3321"},
	{Name: "Aisha Noor", Phone: "555-110-8874"},
	{Name: "Leo Fischer", Phone: "555-110-2256"},
	{Name: "Mei Tanaka", Phone: "555-110-6619"},
}

var technicianProfiles = []struct {
	email     string
	specialty string
	status    string
	rate      float64
}{
	{"sam@rigdesk.example", "Hashboards", "ACTIVE", 65},
	{"aisha@rigdesk.example", "Power supplies", "ACTIVE", 58},
	{"leo@rigdesk.example", "Control boards", "ON_LEAVE", 62},
	{"mei@rigdesk.example", "Cooling and fans", "ACTIVE", 48},
}

type minerSeed struct {
	serial       string
	customer     int
	model        string
	manufacturer string
	hashrate     float64
	status       string
	notes        string
}

var staticMiners = []minerSeed{
	{"S19XP-24A0113", 0, "Antminer S19 XP", "Bitmain", 140, "IN_REPAIR", "Two hashboards not detected"},
	{"S19J-22B7781", 0, "Antminer S19j Pro", "Bitmain", 104, "DIAGNOSING", ""},
	{"M50S-23C0450", 1, "WhatsMiner M50S", "MicroBT", 126, "RECEIVED", "Arrived with cracked fan shroud"},
	{"M30S-21D9921", 2, "WhatsMiner M30S++", "MicroBT", 112, "REPAIRED", ""},
	{"A1366-23E1180", 3, "AvalonMiner 1366", "Canaan", 130, "IN_REPAIR", "PSU trips under load"},
	{"S21-24F0007", 4, "Antminer S21", "Bitmain", 200, "RETURNED", ""},
	{"KS3-23G3310", 5, "Antminer KS3", "Bitmain", 9400, "DIAGNOSING", "Kaspa unit, low hashrate on chain 2"},
}

type workOrderSeed struct {
	miner      int
	technician int // -1 when unassigned
	title      string
	status     string
	priority   string
	cost       float64
	dueInDays  int
}

var staticWorkOrders = []workOrderSeed{
	{0, 0, "Replace failed hashboards", "IN_PROGRESS", "HIGH", 480, 5},
	{1, 2, "Diagnose intermittent restarts", "PENDING", "MEDIUM", 120, 10},
	{2, -1, "Fan shroud and fan replacement", "PENDING", "LOW", 85, 14},
	{3, 0, "Chip rework on chain 1", "COMPLETED", "MEDIUM", 350, -3},
	{4, 1, "PSU capacitor replacement", "IN_PROGRESS", "URGENT", 210, 2},
	{5, 3, "Thermal paste and full cleaning", "COMPLETED", "LOW", 95, -10},
	{6, -1, "Chain 2 diagnostics", "CANCELLED", "MEDIUM", 60, 7},
}

type invoiceSeed struct {
	workOrder int
	status    string
	dueInDays int
}

var staticInvoices = []invoiceSeed{
	{3, "PAID", -1},
	{5, "SENT", 14},
	{0, "DRAFT", 30},
	{4, "OVERDUE", -5},
}

type paymentSeed struct {
	invoice int
	method  string
	status  string
	share   float64 // fraction of the invoice total
}

var staticPayments = []paymentSeed{
	{0, "BANK_TRANSFER", "COMPLETED", 1},
	{1, "CRYPTO", "PENDING", 0.5},
	{3, "CARD", "FAILED", 1},
}

// taxRate applied to seeded invoices.
const taxRate = 0.08

func staticPeople(src []PersonData, n int) []PersonData {
	if n > len(src) {
		n = len(src)
	}
	out := make([]PersonData, n)
	copy(out, src[:n])
	return out
}

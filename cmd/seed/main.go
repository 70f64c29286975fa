// Command seed wipes the database and loads Meridian Commercial Bank demo data.
// Orders are placed through the order processor with a backdated clock, so
// stock, unit prices and totals follow the same rules as live traffic.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/01moynul/bizdesk/internal/config"
	"github.com/01moynul/bizdesk/internal/database"
	"github.com/01moynul/bizdesk/internal/logging"
	"github.com/01moynul/bizdesk/internal/models"
	"github.com/01moynul/bizdesk/internal/orders"
	"github.com/01moynul/bizdesk/internal/store"
)

type clientSeed struct {
	name, email, phone, address string
	status                      models.CustomerStatus
}

var clientsData = []clientSeed{
	// Corporate Accounts
	{"Apex Technologies Inc.", "finance@apextech.com", "(212) 555-0101", "350 Park Avenue, New York, NY 10022", models.CustomerActive},
	{"Sterling Manufacturing Co.", "accounts@sterlingmfg.com", "(312) 555-0102", "200 W Monroe St, Chicago, IL 60606", models.CustomerActive},
	{"Pacific Logistics Group", "treasury@pacificlog.com", "(415) 555-0103", "555 California St, San Francisco, CA 94104", models.CustomerActive},
	{"Atlantic Healthcare Systems", "billing@atlantichc.com", "(617) 555-0104", "75 State Street, Boston, MA 02109", models.CustomerActive},
	{"Meridian Real Estate Holdings", "finance@meridianre.com", "(305) 555-0105", "1395 Brickell Ave, Miami, FL 33131", models.CustomerActive},
	{"Crown Energy Partners", "ap@crownenergy.com", "(713) 555-0106", "1000 Louisiana St, Houston, TX 77002", models.CustomerActive},
	{"Vertex Software Solutions", "finance@vertexsoft.com", "(206) 555-0107", "400 Broad St, Seattle, WA 98109", models.CustomerActive},
	{"Global Import Export Ltd.", "payments@globalimex.com", "(310) 555-0108", "350 S Grand Ave, Los Angeles, CA 90071", models.CustomerActive},

	// Small & Medium Businesses
	{"Riverside Consulting Group", "admin@riversidecg.com", "(202) 555-0201", "1875 K Street NW, Washington, DC 20006", models.CustomerActive},
	{"Metro Construction LLC", "accounting@metroconst.com", "(469) 555-0202", "2100 Ross Ave, Dallas, TX 75201", models.CustomerActive},
	{"Pinnacle Legal Associates", "billing@pinnaclelaw.com", "(404) 555-0203", "303 Peachtree St NE, Atlanta, GA 30308", models.CustomerActive},
	{"Horizon Marketing Agency", "finance@horizonmkt.com", "(303) 555-0204", "1801 California St, Denver, CO 80202", models.CustomerActive},
	{"Summit Investment Advisors", "ops@summitia.com", "(602) 555-0205", "2 N Central Ave, Phoenix, AZ 85004", models.CustomerActive},
	{"Coastal Properties Inc.", "ar@coastalprop.com", "(619) 555-0206", "750 B Street, San Diego, CA 92101", models.CustomerInactive},

	// High Net Worth Individuals (Business Accounts)
	{"Richardson Family Trust", "trust@richardson-family.com", "(212) 555-0301", "432 Park Avenue, New York, NY 10022", models.CustomerActive},
	{"Chen Holdings LLC", "office@chenholdings.com", "(415) 555-0302", "101 California Street, San Francisco, CA 94111", models.CustomerActive},
	{"Morrison Capital Partners", "invest@morrisoncap.com", "(312) 555-0303", "233 S Wacker Dr, Chicago, IL 60606", models.CustomerActive},
	{"Wellington Estate Management", "admin@wellingtonestate.com", "(617) 555-0304", "200 Clarendon St, Boston, MA 02116", models.CustomerActive},

	// Additional Corporate Accounts
	{"Northern Agricultural Co-op", "finance@northernag.com", "(515) 555-0401", "666 Grand Ave, Des Moines, IA 50309", models.CustomerActive},
	{"Bayshore Restaurant Group", "accounting@bayshorerg.com", "(813) 555-0402", "400 N Tampa St, Tampa, FL 33602", models.CustomerActive},
	{"Liberty Transportation Inc.", "fleet@libertytrans.com", "(973) 555-0404", "1 Gateway Center, Newark, NJ 07102", models.CustomerInactive},
	{"Quantum Pharmaceuticals", "treasury@quantumpharma.com", "(858) 555-0405", "4545 Towne Centre Ct, San Diego, CA 92121", models.CustomerActive},
	{"Heritage Insurance Brokers", "finance@heritageins.com", "(860) 555-0406", "1 State Street, Hartford, CT 06103", models.CustomerActive},
}

type productSeed struct {
	sku, name, description, price string
	stock                         int
}

var productsData = []productSeed{
	// Deposit Products
	{"DEP-CHK-002", "Premium Business Checking", "Enhanced checking with earnings credit, wire transfer discounts, and dedicated support", "25.00", 999},
	{"DEP-CD-001", "Certificate of Deposit - 12 Month", "12-month CD with guaranteed fixed rate and flexible terms", "4.50", 500},
	{"DEP-CD-002", "Certificate of Deposit - 24 Month", "24-month CD with premium rate for longer commitment", "4.75", 500},

	// Lending Products
	{"LND-LOC-001", "Business Line of Credit", "Revolving credit line up to $500K for working capital needs", "50000.00", 100},
	{"LND-LOC-002", "Premium Credit Facility", "Enterprise credit facility up to $5M with customized terms", "500000.00", 50},
	{"LND-TRM-001", "Term Loan - Equipment", "Fixed-rate financing for equipment purchases up to $250K", "75000.00", 200},
	{"LND-TRM-002", "Term Loan - Expansion", "Growth capital for business expansion with flexible repayment", "150000.00", 150},
	{"LND-MTG-001", "Commercial Mortgage", "Commercial real estate financing with competitive rates", "1000000.00", 75},
	{"LND-SBA-001", "SBA 7(a) Loan", "Government-backed small business loan with favorable terms", "250000.00", 100},

	// Treasury & Cash Management
	{"TRS-WIR-001", "Domestic Wire Transfer", "Same-day domestic wire transfers with tracking", "25.00", 999},
	{"TRS-WIR-002", "International Wire Transfer", "Global wire transfers in 130+ currencies", "45.00", 999},
	{"TRS-ZBA-001", "Zero Balance Account", "Automated cash concentration and disbursement", "150.00", 500},
	{"TRS-LBX-001", "Lockbox Services", "Accelerated receivables processing and deposits", "500.00", 200},

	// Card Products
	{"CRD-BUS-001", "Business Credit Card", "Corporate card with rewards, expense tracking, and controls", "10000.00", 999},
	{"CRD-PRM-001", "Premium Corporate Card", "Elite card with travel benefits, higher limits, and concierge", "50000.00", 500},
	{"CRD-PUR-001", "Purchasing Card", "Procurement card with detailed reporting and vendor management", "25000.00", 750},

	// Investment & Wealth
	{"INV-CON-001", "Conservative Portfolio", "Low-risk investment strategy focused on capital preservation", "50000.00", 200},
	{"INV-BAL-001", "Balanced Growth Portfolio", "Diversified portfolio balancing growth and income", "100000.00", 200},
	{"INV-GRO-001", "Growth Portfolio", "Aggressive growth strategy for long-term appreciation", "100000.00", 200},
}

func main() {
	count := flag.Int("orders", 60, "number of random transactions to place")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed, for reproducible data")
	flag.Parse()

	if err := run(*count, *seed); err != nil {
		slog.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(count int, seed uint64) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)
	ctx := context.Background()

	db, err := database.OpenDBWithDSN(ctx, log, cfg.PrimaryDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.InitSchema(ctx, log, db); err != nil {
		return err
	}

	// 1. --- Clear existing data, children first ---
	log.Info("clearing existing data")
	for _, table := range []string{"order_items", "orders", "products", "customers"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	st := store.New(log, db, nil)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// 2. --- Clients ---
	var active, highValue []models.Customer
	for _, d := range clientsData {
		phone, address := d.phone, d.address
		c := models.Customer{Name: d.name, Email: d.email, Phone: &phone, Address: &address, Status: d.status}
		if err := st.CreateCustomer(ctx, &c); err != nil {
			return fmt.Errorf("create client %s: %w", d.email, err)
		}
		if c.Status == models.CustomerActive {
			active = append(active, c)
		}
		if strings.Contains(c.Name, "Trust") || strings.Contains(c.Name, "Holdings") || strings.Contains(c.Name, "Capital") {
			highValue = append(highValue, c)
		}
	}
	log.Info("created clients", "count", len(clientsData))

	// 3. --- Financial products ---
	var products, lending []models.Product
	for _, d := range productsData {
		desc := d.description
		p := models.Product{
			SKU:         d.sku,
			Name:        d.name,
			Description: &desc,
			Price:       decimal.RequireFromString(d.price),
			Stock:       d.stock,
		}
		if err := st.CreateProduct(ctx, &p); err != nil {
			return fmt.Errorf("create product %s: %w", d.sku, err)
		}
		products = append(products, p)
		if strings.HasPrefix(p.SKU, "LND-") || strings.HasPrefix(p.SKU, "INV-") {
			lending = append(lending, p)
		}
	}
	log.Info("created financial products", "count", len(products))

	// 4. --- Transactions, backdated over the last twelve months ---
	now := time.Now().UTC()
	var placed time.Time
	processor := orders.NewProcessor(log, orders.SQLStore{Store: st}, orders.Policy{})
	processor.SetClock(func() time.Time { return placed })
	st.SetClock(func() time.Time { return placed })

	statuses := []models.OrderStatus{
		models.OrderCompleted, models.OrderCompleted, models.OrderCompleted, models.OrderCompleted,
		models.OrderPending, models.OrderPending, models.OrderCancelled,
	}

	created, skipped := 0, 0
	place := func(at time.Time, in orders.CreateOrderInput, final models.OrderStatus) error {
		placed = at.Truncate(time.Millisecond)
		o, err := processor.CreateOrder(ctx, in)
		if errors.Is(err, orders.ErrInsufficientStock) {
			skipped++
			return nil
		}
		if err != nil {
			return err
		}
		created++
		if final == models.OrderPending {
			return nil
		}
		placed = placed.Add(time.Duration(rng.IntN(72)+1) * time.Hour)
		if placed.After(now) {
			placed = now
		}
		_, err = processor.UpdateOrderStatus(ctx, o.ID, final)
		return err
	}

	windowStart := time.Date(now.Year(), now.Month()-11, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		picked := rng.Perm(len(products))[:rng.IntN(3)+1]
		in := orders.CreateOrderInput{CustomerID: active[rng.IntN(len(active))].ID}
		for _, idx := range picked {
			in.Items = append(in.Items, orders.ItemInput{ProductID: products[idx].ID, Quantity: rng.IntN(3) + 1})
		}
		at := windowStart.Add(time.Duration(rng.Int64N(int64(now.Sub(windowStart)))))
		if err := place(at, in, statuses[rng.IntN(len(statuses))]); err != nil {
			return err
		}
	}

	// One high-value transaction per month keeps the revenue chart interesting.
	for month := 0; month < 12; month++ {
		at := time.Date(now.Year(), now.Month()-time.Month(month), rng.IntN(28)+1, 10+rng.IntN(8), 0, 0, 0, time.UTC)
		if at.After(now) {
			at = now.Add(-time.Hour)
		}
		final := models.OrderCompleted
		if month < 2 {
			final = models.OrderPending
		}
		in := orders.CreateOrderInput{
			CustomerID: highValue[rng.IntN(len(highValue))].ID,
			Items:      []orders.ItemInput{{ProductID: lending[rng.IntN(len(lending))].ID, Quantity: 1}},
		}
		if err := place(at, in, final); err != nil {
			return err
		}
	}

	log.Info("seed completed",
		"clients", len(clientsData),
		"products", len(products),
		"transactions", created,
		"skipped_out_of_stock", skipped,
	)
	return nil
}

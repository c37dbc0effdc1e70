package seed

import (
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"pharmsys/m/domain"
)

// Run inserts the first-run admin account and a starter medicine catalog
// so a fresh install is immediately usable. Existing rows are left alone.
func Run(db *sqlx.DB) {
	seedAdmin(db)
	seedMedicines(db)
}

func seedAdmin(db *sqlx.DB) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM users WHERE email = ?`, "admin@pms.com"); err != nil {
		log.Printf("unable to check admin account: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("unable to hash admin password: %v", err)
		return
	}
	perms := strings.Join(domain.DefaultPermissions(domain.RoleAdmin), ",")
	if _, err := db.Exec(`INSERT INTO users (email, password, name, role, permissions) VALUES (?, ?, ?, ?, ?)`,
		"admin@pms.com", hashed, "System Admin", domain.RoleAdmin, perms); err != nil {
		log.Printf("unable to seed admin account: %v", err)
		return
	}
	log.Println("seeded admin account admin@pms.com")
}

func seedMedicines(db *sqlx.DB) {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM medicines`); err != nil {
		log.Printf("unable to check medicine catalog: %v", err)
		return
	}
	if count > 0 {
		return
	}

	starters := []struct {
		name, manufacturer, batch, expiry, mrp string
		stock                                  int64
	}{
		{"Paracetamol 500mg", "HealthCorp", "BATCH001", "2025-12-31", "50.00", 1000},
		{"Amoxicillin 250mg", "PharmaInc", "BATCH002", "2024-06-30", "120.50", 500},
	}
	for _, m := range starters {
		if _, err := db.Exec(`INSERT INTO medicines (name, manufacturer, batch_number, expiry_date, mrp, stock) VALUES (?, ?, ?, ?, ?, ?)`,
			m.name, m.manufacturer, m.batch, m.expiry, m.mrp, m.stock); err != nil {
			log.Printf("unable to seed medicine %s: %v", m.name, err)
		}
	}
	log.Printf("seeded medicine catalog with %d rows", len(starters))
}

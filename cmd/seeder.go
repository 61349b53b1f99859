package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"probation_alerts", "approval_requests", "members", "officers", "praesidia", "zones", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedZonesAndPraesidia(db)
		seedUsers(db)
		seedMembersAndOfficers(db)

		fmt.Println("Seeding complete")
	},
}

func seedZonesAndPraesidia(db *gorm.DB) {
	zones := []string{"Zone Nord", "Zone Sud"}
	for _, nom := range zones {
		if rowExists(db, "SELECT 1 FROM zones WHERE nom = ?", nom) {
			continue
		}
		if err := db.Exec("INSERT INTO zones (nom, actif, created_at, updated_at) VALUES (?, true, now(), now())", nom).Error; err != nil {
			log.Fatalf("failed to insert zone %s: %v", nom, err)
		}
		fmt.Println("Seeded zone:", nom)
	}

	praesidia := []struct {
		nom  string
		zone string
	}{
		{"Notre Dame de la Visitation", "Zone Nord"},
		{"Marie Reine des Apôtres", "Zone Sud"},
	}
	for _, p := range praesidia {
		if rowExists(db, "SELECT 1 FROM praesidia WHERE nom = ?", p.nom) {
			continue
		}
		err := db.Exec(`INSERT INTO praesidia (nom, zone_id, date_creation, actif, created_at, updated_at)
			SELECT ?, id, now(), true, now(), now() FROM zones WHERE nom = ?`, p.nom, p.zone).Error
		if err != nil {
			log.Fatalf("failed to insert praesidium %s: %v", p.nom, err)
		}
		fmt.Println("Seeded praesidium:", p.nom)
	}
}

func seedUsers(db *gorm.DB) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)

	users := []struct {
		email       string
		name        string
		accountType string
		poste       string
		status      string
		praesidium  string
	}{
		{"president@conseil.org", "Jean Dupont", "council_officer", "Président du Conseil", "active", ""},
		{"tresorier@conseil.org", "Awa Ndiaye", "council_officer", "Trésorier du Conseil", "active", ""},
		{"secretaire@conseil.org", "Marie Faye", "council_officer", "Secrétaire du Conseil", "suspended", ""},
		{"president.ndv@praesidium.org", "Paul Sagna", "praesidium_officer", "Président de Praesidium", "active", "Notre Dame de la Visitation"},
		{"tresorier.mra@praesidium.org", "Luc Diouf", "praesidium_officer", "Trésorier de Praesidium", "pending", "Marie Reine des Apôtres"},
	}

	for _, u := range users {
		if rowExists(db, "SELECT 1 FROM users WHERE email = ?", u.email) {
			fmt.Println("user already exists:", u.email)
			continue
		}
		var err error
		if u.praesidium == "" {
			err = db.Exec(`INSERT INTO users (email, name, password_hash, account_type, poste, status, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, now(), now())`,
				u.email, u.name, string(hash), u.accountType, u.poste, u.status).Error
		} else {
			err = db.Exec(`INSERT INTO users (email, name, password_hash, account_type, poste, praesidium_id, status, created_at, updated_at)
				SELECT ?, ?, ?, ?, ?, id, ?, now(), now() FROM praesidia WHERE nom = ?`,
				u.email, u.name, string(hash), u.accountType, u.poste, u.status, u.praesidium).Error
		}
		if err != nil {
			log.Fatalf("failed to insert user %s: %v", u.email, err)
		}
		fmt.Println("Seeded user:", u.email)
	}
}

func seedMembersAndOfficers(db *gorm.DB) {
	members := []struct {
		nom        string
		statut     string
		months     int
		praesidium string
	}{
		{"Aminata Diallo", "probationnaire", 4, "Notre Dame de la Visitation"},
		{"Ousmane Ba", "probationnaire", 1, "Notre Dame de la Visitation"},
		{"Fatou Sow", "actif", 12, "Marie Reine des Apôtres"},
	}
	for _, m := range members {
		if rowExists(db, "SELECT 1 FROM members WHERE nom = ?", m.nom) {
			continue
		}
		err := db.Exec(`INSERT INTO members (nom, praesidium_id, statut, date_adhesion, actif, created_at, updated_at)
			SELECT ?, id, ?, now() - (? || ' months')::interval, true, now(), now() FROM praesidia WHERE nom = ?`,
			m.nom, m.statut, m.months, m.praesidium).Error
		if err != nil {
			log.Fatalf("failed to insert member %s: %v", m.nom, err)
		}
		fmt.Println("Seeded member:", m.nom)
	}

	officers := []struct {
		nom        string
		poste      string
		monthsLeft int
		praesidium string
	}{
		{"Paul Sagna", "Président de Praesidium", 1, "Notre Dame de la Visitation"},
		{"Luc Diouf", "Trésorier de Praesidium", 18, "Marie Reine des Apôtres"},
	}
	for _, o := range officers {
		if rowExists(db, "SELECT 1 FROM officers WHERE nom = ? AND poste = ?", o.nom, o.poste) {
			continue
		}
		err := db.Exec(`INSERT INTO officers (nom, poste, praesidium_id, date_debut_mandat, date_fin_mandat, actif, created_at, updated_at)
			SELECT ?, ?, id, now() - interval '2 years', now() + (? || ' months')::interval, true, now(), now() FROM praesidia WHERE nom = ?`,
			o.nom, o.poste, o.monthsLeft, o.praesidium).Error
		if err != nil {
			log.Fatalf("failed to insert officer %s: %v", o.nom, err)
		}
		fmt.Println("Seeded officer:", o.nom)
	}
}

func rowExists(db *gorm.DB, query string, args ...interface{}) bool {
	var exists int
	row := db.Raw(query, args...).Row()
	return row.Scan(&exists) == nil
}

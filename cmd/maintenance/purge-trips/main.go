package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/haulplan/eld-backend/internal/config"
	"github.com/haulplan/eld-backend/internal/database"
)

func main() {
	var (
		dbURLFlag     string
		retentionDays int
		truncate      bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&retentionDays, "retention-days", 90, "Delete trips older than this many days")
	flag.BoolVar(&truncate, "all", false, "Delete every trip instead of applying the retention cutoff")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	// This avoids having to pass secrets on the command line.
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
		// ConnMaxLifetime left as zero (driver default)
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	repo := database.NewTripRepository(db)

	if truncate {
		fmt.Println("Connected to database. Removing ALL trips...")
		if _, err := db.Exec(`TRUNCATE TABLE trips RESTART IDENTITY`); err != nil {
			log.Fatalf("failed to truncate trips: %v", err)
		}
		fmt.Println("All trips removed (table truncated, identities reset).")
	} else {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		fmt.Printf("Connected to database. Purging trips older than %s (%d days)...\n",
			cutoff.Format("2006-01-02"), retentionDays)

		deleted, err := repo.DeleteOlderThan(cutoff)
		if err != nil {
			log.Fatalf("failed to purge trips: %v", err)
		}
		fmt.Printf("Purged %d expired trips.\n", deleted)
	}

	remaining, err := repo.Count()
	if err != nil {
		log.Fatalf("failed to count remaining trips: %v", err)
	}
	fmt.Printf("Trips remaining: %d\n", remaining)
}

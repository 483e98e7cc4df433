// Command seed loads the vendor reference data and an optional operator account.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"procurement-backend/config"
	"procurement-backend/database"
	"procurement-backend/logging"
)

func main() {
	path := flag.String("vendors", "vendors.yaml", "vendor seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Log.WithError(err).Fatal("invalid configuration")
	}
	logging.SetLevel(cfg.LogLevel)

	if err := database.Connect(cfg.DB); err != nil {
		logging.Log.WithError(err).Fatal("database connection failed")
	}
	if err := database.AutoMigrate(database.DB); err != nil {
		logging.Log.WithError(err).Fatal("database migration failed")
	}

	vendors, err := database.LoadVendorSeed(*path)
	if err != nil {
		logging.Log.WithError(err).WithField("file", *path).Fatal("could not load vendors")
	}
	if err := database.SeedVendors(database.DB, vendors); err != nil {
		logging.Log.WithError(err).Fatal("seeding vendors failed")
	}
	logging.Log.WithField("vendors", len(vendors)).Info("vendors seeded")

	email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Procurement"
	}
	created, err := database.SeedOperator(database.DB, name, email, password)
	if err != nil {
		logging.Log.WithError(err).Fatal("seeding operator failed")
	}
	logging.Log.WithFields(logrus.Fields{"email": email, "created": created}).Info("operator ready")
}

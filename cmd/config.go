package cmd

import "fmt"

// Config carries all deployment-specific settings, loaded from the
// environment by cmd/app.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// SweepIntervalSeconds is how often the periodic reconciliation sweep runs.
	SweepIntervalSeconds int
	// SweepBatchSize caps how many waiting orders one sweep pass examines.
	SweepBatchSize int

	// AssignPrimaryRadiusKm is the first proximity search ring.
	AssignPrimaryRadiusKm float64
	// AssignSecondaryRadiusKm is the widened ring for orders that waited.
	AssignSecondaryRadiusKm float64
	// AssignWidenAfterSeconds is how long an order waits before the search
	// widens to the secondary ring.
	AssignWidenAfterSeconds int
}

// DSN renders the postgres connection string for GORM.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

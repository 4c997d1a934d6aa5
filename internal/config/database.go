// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=5",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

// Target identifies the database in logs without exposing credentials.
func (d *DatabaseConfig) Target() string {
	return fmt.Sprintf("%s@%s:%s/%s", d.User, d.Host, d.Port, d.Database)
}

// Package db provides the GORM connection to the registry database.
package db

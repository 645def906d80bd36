// Package logging builds the application logger.
package logging

import (
	"go.uber.org/zap"
)

// New returns a zap logger tuned for the given environment: JSON at
// info level in production, console at debug level otherwise.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

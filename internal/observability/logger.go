package observability

import "go.uber.org/zap"

// NewLogger returns a JSON production logger for env "production" and a
// human-readable development logger otherwise.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

package config

import "go.uber.org/zap"

// InitLogger installs the process-global zap logger. Development gets the
// human-readable console encoder, everything else structured JSON.
func InitLogger(appEnv string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if appEnv == "development" || appEnv == "test" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

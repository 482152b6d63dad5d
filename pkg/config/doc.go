// Package config loads typed configuration from the process environment.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing:
//
//	type SchedulerConfig struct {
//	    Expression string `env:"CRON_SCHEDULE,required"`
//	    MinTopics  int    `env:"MIN_TOPICS" envDefault:"10"`
//	}
//
//	var cfg SchedulerConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// The default .env in the working directory is read once, on the first Load;
// a missing file is not an error. LoadEnv reads explicit files instead.
// Variables already present in the environment are never overwritten.
//
// Each configuration type is parsed once and cached for the lifetime of the
// process. ResetCache and ForceReload exist for tests that change the
// environment between cases.
//
// Errors: ErrParsingConfig wraps env parse failures, ErrNilPointer rejects
// nil destinations.
package config

package scheduler

// Config controls the reclassification sweep.
type Config struct {
	// Schedule is a cron expression; the sweep recomputes arrears tiers
	// once per day by default.
	Schedule  string
	BatchSize int
}

func DefaultConfig() Config {
	return Config{
		Schedule:  "0 3 * * *",
		BatchSize: 200,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.Schedule == "" {
		c.Schedule = defaults.Schedule
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	return c
}

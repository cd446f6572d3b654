package config

import "time"

const (
	configName = ".mixpanel"
	configType = "yaml"
	envPrefix  = "MIXPANEL"
)

const (
	DeadLetterSQLite = "sqlite"
	DeadLetterKafka  = "kafka"
)

const (
	defaultMaxBatchSize  = 50
	defaultFailurePolicy = "discard"
	defaultHTTPTimeout   = 10 * time.Second
	defaultRetryAttempts = 3
	defaultRetryPause    = 200 * time.Millisecond
	defaultSQLitePath    = "dead_letters.db"
	defaultKafkaTopic    = "mixpanel-dead-letters"
)

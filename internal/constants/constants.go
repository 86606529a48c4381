package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultEventsTopic   = "platform-events"
	DefaultCommandsTopic = "platform-commands"
)

const (
	DefaultMongoDBName = "chronicle"
)

const (
	CacheKeyPrefixConfig  = "cfg:"
	CacheKeyPrefixActions = "actions:"
)

const (
	DefaultCacheTTLSeconds = 300
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DefaultFanoutLimit = 16
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

const (
	MaxScriptLength    = 16384
	MaxConditionLength = 1024
)

const (
	MaxLogContentLength = 2000
)

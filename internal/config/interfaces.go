package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	DatabaseName() string
	EmployeeCollection() string
	CountersCollection() string
	IntentsCollection() string
	DSN() string
}

type Kafka interface {
	Enabled() bool
	Brokers() []string
	AssignmentTopic() string
	ConsumerGroupID() string
	ProducerConfig() *sarama.Config
	ConsumerConfig() *sarama.Config
}

type Reconcile interface {
	AssignMaxAttempts() int
	Interval() time.Duration
	IntentGrace() time.Duration
}

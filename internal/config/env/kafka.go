package envconfig

import (
	"errors"

	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

var errNoBrokers = errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set")

type kafkaEnv struct {
	Enabled         bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	Brokers         []string `env:"KAFKA_BROKERS"`
	AssignmentTopic string   `env:"KAFKA_ASSIGNMENT_TOPIC" envDefault:"asset.assignment"`
	ConsumerGroupID string   `env:"KAFKA_CONSUMER_GROUP_ID" envDefault:"asset-tracker-verifier"`
}

type kafka struct {
	raw kafkaEnv
}

func NewKafkaConfig() (*kafka, error) {
	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	if raw.Enabled && len(raw.Brokers) == 0 {
		return nil, errNoBrokers
	}
	return &kafka{raw: raw}, nil
}

func (cfg *kafka) Enabled() bool           { return cfg.raw.Enabled }
func (cfg *kafka) Brokers() []string       { return cfg.raw.Brokers }
func (cfg *kafka) AssignmentTopic() string { return cfg.raw.AssignmentTopic }
func (cfg *kafka) ConsumerGroupID() string { return cfg.raw.ConsumerGroupID }

func (cfg *kafka) ProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Producer.Return.Successes = true

	return config
}

func (cfg *kafka) ConsumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	return config
}

package connections

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/xrpscan/burnwatch/config"
	"github.com/xrpscan/burnwatch/logger"
)

// KafkaWriter publishes alerts. It stays nil when no bootstrap server is
// configured.
var KafkaWriter *kafka.Writer

func NewKafkaWriter() *kafka.Writer {
	bootstrap := config.EnvKafkaBootstrapServer()
	if bootstrap == "" {
		return nil
	}

	KafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(bootstrap, ",")...),
		Topic:        config.TopicAlerts(),
		Balancer:     &kafka.Hash{},
		BatchSize:    config.EnvKafkaWriterBatchSize(),
		BatchBytes:   int64(config.EnvKafkaWriterBatchBytes()),
		BatchTimeout: time.Duration(config.EnvKafkaWriterBatchTimeoutMs()) * time.Millisecond,
		RequiredAcks: kafka.RequiredAcks(config.EnvKafkaWriterRequiredAcks()),
		Compression:  kafkaCompression(config.EnvKafkaWriterCompression()),
	}
	logger.Log.Info().
		Str("bootstrap", bootstrap).
		Str("topic", KafkaWriter.Topic).
		Msg("Kafka alert writer initialized")
	return KafkaWriter
}

func kafkaCompression(name string) kafka.Compression {
	switch strings.ToLower(name) {
	case "gzip":
		return kafka.Gzip
	case "lz4":
		return kafka.Lz4
	case "zstd":
		return kafka.Zstd
	case "none", "":
		return 0
	default:
		return kafka.Snappy
	}
}

func CloseKafkaWriter() {
	closeWithTimeout("Kafka writer", func() error {
		if w := KafkaWriter; w != nil {
			return w.Close()
		}
		return nil
	})
}

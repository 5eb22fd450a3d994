package config

import "fmt"

// Kafka topic receiving alert envelopes
func TopicAlerts() string {
	return fmt.Sprintf("%s-alerts", EnvKafkaTopicNamespace())
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func EnvLoad(filenames ...string) {
	if len(filenames) == 0 {
		filenames = append(filenames, ".env")
	}
	for _, filename := range filenames {
		log.Printf("Loading configuration file: %s", filename)
		err := godotenv.Load(filename)
		if err != nil {
			log.Fatalf("Error loading configuration file: %s", filename)
		}
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envPositiveInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return fallback
}

/*
* Service settings
 */

// Get status API hostname
func EnvServerHost() string {
	return os.Getenv("SERVER_HOST")
}

// Get status API port. The status API is disabled when empty.
func EnvServerPort() string {
	return os.Getenv("SERVER_PORT")
}

// Get default log level
func EnvLogLevel() string {
	return os.Getenv("LOG_LEVEL")
}

// Get log file path
func EnvLogFilePath() string {
	return envString("LOG_FILE_PATH", "logs/burnwatch.log")
}

// Get log file enabled flag
func EnvLogFileEnabled() bool {
	return os.Getenv("LOG_FILE_ENABLED") == "true"
}

// Get log file max size in MB
func EnvLogFileMaxSize() int {
	return envPositiveInt("LOG_FILE_MAX_SIZE_MB", 100)
}

// Get log file max backups
func EnvLogFileMaxBackups() int {
	if v, err := strconv.Atoi(os.Getenv("LOG_FILE_MAX_BACKUPS")); err == nil && v >= 0 {
		return v
	}
	return 3
}

// Get log file max age in days
func EnvLogFileMaxAge() int {
	return envPositiveInt("LOG_FILE_MAX_AGE_DAYS", 7)
}

/*
* XRPL protocol (compatible) server settings
 */
func EnvXrplWebsocketURL() string {
	return envString("XRPL_WEBSOCKET_URL", "wss://xrplcluster.com")
}

func EnvXrplWebsocketFullHistoryURL() string {
	return os.Getenv("XRPL_WEBSOCKET_FULLHISTORY_URL")
}

// Number of attempts to fetch a closed ledger before it is dropped
func EnvFetchMaxAttempts() int {
	return envPositiveInt("FETCH_MAX_ATTEMPTS", 3)
}

func EnvFetchTimeoutSeconds() int {
	return envPositiveInt("FETCH_TIMEOUT_SECONDS", 30)
}

/*
* Alert rules
 */

// Fees strictly above this many drops raise an alert
func EnvFeeAlertThresholdDrops() string {
	return envString("FEE_ALERT_THRESHOLD_DROPS", "1000000")
}

// Per-ledger burn strictly above this many drops raises an alert
func EnvBurnAlertThresholdDrops() string {
	return envString("BURN_ALERT_THRESHOLD_DROPS", "3000000")
}

// Number of ledgers summarised by each window summary
func EnvSummaryWindowSize() int {
	return envPositiveInt("SUMMARY_WINDOW_SIZE", 1000)
}

// fmt template receiving the transaction hash
func EnvTxLinkTemplate() string {
	return envString("TX_LINK_TEMPLATE", "https://xrpcharts.ripple.com/#/transactions/%s")
}

func EnvEventQueueSize() int {
	return envPositiveInt("EVENT_QUEUE_SIZE", 1024)
}

func EnvAlertQueueSize() int {
	return envPositiveInt("ALERT_QUEUE_SIZE", 256)
}

/*
* Slack settings
 */
func EnvSlackToken() string {
	return os.Getenv("SLACK_TOKEN")
}

func EnvSlackChannelID() string {
	return os.Getenv("SLACK_CHANNEL_ID")
}

func EnvSlackChannelName() string {
	return envString("SLACK_CHANNEL_NAME", "xrp-bot")
}

/*
* Kafka settings
 */
func EnvKafkaBootstrapServer() string {
	return os.Getenv("KAFKA_BOOTSTRAP_SERVER")
}

func EnvKafkaTopicNamespace() string {
	return envString("KAFKA_TOPIC_NAMESPACE", "burnwatch")
}

// Writer batching and delivery settings
func EnvKafkaWriterBatchSize() int {
	return envPositiveInt("KAFKA_WRITER_BATCH_SIZE", 100)
}

func EnvKafkaWriterBatchBytes() int {
	return envPositiveInt("KAFKA_WRITER_BATCH_BYTES", 1024*1024)
}

func EnvKafkaWriterBatchTimeoutMs() int {
	if v, err := strconv.Atoi(os.Getenv("KAFKA_WRITER_BATCH_TIMEOUT_MS")); err == nil && v >= 0 {
		return v
	}
	return 50
}

func EnvKafkaWriterCompression() string {
	return envString("KAFKA_WRITER_COMPRESSION", "snappy")
}

func EnvKafkaWriterRequiredAcks() int {
	if v, err := strconv.Atoi(os.Getenv("KAFKA_WRITER_REQUIRED_ACKS")); err == nil {
		// allow -1, 0, 1
		if v == -1 || v == 0 || v == 1 {
			return v
		}
	}
	return 1 // leader-only default
}

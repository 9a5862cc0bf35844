package config

import "github.com/iliyamo/event-ticket-dashboard/internal/queue"

// AuditConfig controls the ticket event stream.  Publishing is on
// whenever a broker URL resolves; the consumer that writes the audit log
// is opt-in so only one replica runs it.
type AuditConfig struct {
	URL             string
	Queue           string
	ConsumerEnabled bool
	LogPath         string
}

func LoadAuditConfig() AuditConfig {
	return AuditConfig{
		URL:             queue.BrokerURL(),
		Queue:           envStr("AUDIT_QUEUE", queue.DefaultQueue),
		ConsumerEnabled: envBool("AUDIT_CONSUMER_ENABLED", false),
		LogPath:         envStr("AUDIT_LOG_PATH", "logs/ticket_events.log"),
	}
}

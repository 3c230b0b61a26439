package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_handled_total",
		Help: "The total number of handled Telegram updates",
	}, []string{"kind"})

	LLMRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_llm_requests_total",
		Help: "The total number of chat-completion requests",
	}, []string{"status"})

	LLMRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bot_llm_request_duration_seconds",
		Help:    "Duration of chat-completion requests",
		Buckets: prometheus.DefBuckets,
	})

	FilesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_files_processed_total",
		Help: "The total number of uploaded tables processed",
	}, []string{"mode", "status"})

	CRMLeads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_crm_leads_total",
		Help: "The total number of CRM lead creation attempts",
	}, []string{"status"})

	TenderFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_tender_fetches_total",
		Help: "The total number of tender feed fetches",
	}, []string{"status"})
)

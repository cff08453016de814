package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatleadhq/chatlead-platform/internal/accounts"
	"github.com/chatleadhq/chatlead-platform/internal/ai"
	"github.com/chatleadhq/chatlead-platform/internal/entity"
	"github.com/chatleadhq/chatlead-platform/internal/export"
	"github.com/chatleadhq/chatlead-platform/internal/intent"
	"github.com/chatleadhq/chatlead-platform/internal/language"
	"github.com/chatleadhq/chatlead-platform/internal/leads"
	"github.com/chatleadhq/chatlead-platform/internal/messages"
	"github.com/chatleadhq/chatlead-platform/internal/observability/metrics"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// ProcessRequest is an inbound customer message to run through the pipeline.
type ProcessRequest struct {
	OrgID      string `json:"organization_id"`
	Channel    string `json:"channel_type"`
	ChannelID  string `json:"channel_id,omitempty"`
	ExternalID string `json:"external_id,omitempty"`
	Sender     string `json:"from"`
	Content    string `json:"content"`
}

// StepFailure records a contained sub-step that failed while the pipeline
// still completed.
type StepFailure struct {
	Step  string `json:"step"`
	Error string `json:"error"`
}

// Result is the outcome of a successful pipeline run. Degraded lists
// contained failures (lead creation, export, notification) so callers can
// see a degraded-but-succeeded run explicitly.
type Result struct {
	Message  *messages.Message `json:"message"`
	Lead     *leads.Lead       `json:"lead,omitempty"`
	Response string            `json:"response"`
	Degraded []StepFailure     `json:"degraded,omitempty"`
}

// LeadNotifier sends operator notifications for freshly created leads.
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, org *accounts.Organization, lead *leads.Lead) error
}

// Deps carries the pipeline's collaborators. Exporter, Notifier and Metrics
// are optional; nil disables the corresponding sub-step.
type Deps struct {
	Classifier *intent.Classifier
	Extractor  *entity.Extractor
	Assistant  *ai.Assistant
	Messages   messages.Repository
	Leads      leads.Repository
	Orgs       accounts.OrgRepository
	Exporter   export.Appender
	Notifier   LeadNotifier
	Metrics    *metrics.PipelineMetrics
	Logger     *logging.Logger
}

// Pipeline runs inbound messages through language detection, intent
// classification, entity extraction, response generation, persistence, lead
// derivation and best-effort export.
type Pipeline struct {
	classifier *intent.Classifier
	extractor  *entity.Extractor
	assistant  *ai.Assistant
	messages   messages.Repository
	leads      leads.Repository
	orgs       accounts.OrgRepository
	exporter   export.Appender
	notifier   LeadNotifier
	metrics    *metrics.PipelineMetrics
	logger     *logging.Logger
	tracer     trace.Tracer
}

// New creates a pipeline from its dependencies.
func New(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Pipeline{
		classifier: deps.Classifier,
		extractor:  deps.Extractor,
		assistant:  deps.Assistant,
		messages:   deps.Messages,
		leads:      deps.Leads,
		orgs:       deps.Orgs,
		exporter:   deps.Exporter,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logger:     logger,
		tracer:     otel.Tracer("chatlead.internal.pipeline"),
	}
}

// Process runs one inbound message end to end. Validation failures return a
// *ValidationError before any state is written. Fatal failures after the
// message record exists mark it failed and return a *ExternalError.
// Contained sub-step failures are reported via Result.Degraded.
func (p *Pipeline) Process(ctx context.Context, req ProcessRequest) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.process",
		trace.WithAttributes(
			attribute.String("org.id", req.OrgID),
			attribute.String("message.channel", req.Channel),
		))
	defer span.End()
	start := time.Now()

	createReq := &messages.CreateMessageRequest{
		OrgID:      req.OrgID,
		Channel:    req.Channel,
		ChannelID:  req.ChannelID,
		ExternalID: req.ExternalID,
		Sender:     req.Sender,
		Content:    req.Content,
	}
	if err := createReq.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	msg, err := p.messages.Create(ctx, createReq)
	if err != nil {
		return nil, &ExternalError{Step: "create message", Err: err}
	}

	det := language.Detect(req.Content)

	cls, err := p.classifier.Classify(ctx, req.Content)
	if err != nil {
		return nil, p.fail(ctx, msg, "classify intent", err)
	}

	rec, err := p.extractor.Extract(ctx, req.Content)
	if err != nil {
		return nil, p.fail(ctx, msg, "extract entities", err)
	}

	analysis := messages.Analysis{
		Language: det.Language,
		Intent:   cls.Intent,
		Entities: rec,
	}
	if err := p.messages.SetAnalysis(ctx, req.OrgID, msg.ID, analysis); err != nil {
		return nil, p.fail(ctx, msg, "store analysis", err)
	}

	var response string
	if intent.IsLeadWorthy(cls.Intent) {
		response, err = p.assistant.ChainedReply(ctx, req.OrgID, det.Language, cls.Intent, req.Content)
	} else {
		response, err = p.assistant.SingleReply(ctx, req.OrgID, det.Language, cls.Intent, req.Content)
	}
	if err != nil {
		return nil, p.fail(ctx, msg, "generate response", err)
	}

	result := &Result{Response: response}

	var org *accounts.Organization
	if p.orgs != nil {
		org, err = p.orgs.GetOrg(ctx, req.OrgID)
		if err != nil {
			p.logger.Warn("org settings lookup failed", "error", err, "org_id", req.OrgID)
			result.Degraded = append(result.Degraded, StepFailure{Step: "org settings", Error: err.Error()})
			org = nil
		}
	}

	var lead *leads.Lead
	if intent.IsLeadWorthy(cls.Intent) {
		lead, err = p.leads.Create(ctx, &leads.CreateLeadRequest{
			OrgID:     req.OrgID,
			MessageID: msg.ID,
			Channel:   req.Channel,
			Entities:  rec,
		})
		if err != nil {
			p.logger.Warn("lead creation failed", "error", err, "message_id", msg.ID)
			result.Degraded = append(result.Degraded, StepFailure{Step: "create lead", Error: err.Error()})
			lead = nil
		} else {
			p.metrics.ObserveLeadCreated(cls.Intent)
		}
	}
	result.Lead = lead

	if p.exporter != nil && org.ExportConfigured() {
		summary := export.Summary{
			Timestamp:   msg.CreatedAt,
			MessageID:   msg.ID,
			Channel:     req.Channel,
			Sender:      req.Sender,
			Content:     req.Content,
			Language:    det.Language,
			Intent:      cls.Intent,
			Name:        rec.Name,
			Phone:       rec.Phone,
			Email:       rec.Email,
			ServiceType: rec.ServiceType,
		}
		if lead != nil {
			summary.LeadID = lead.ID
			summary.Score = lead.Score
		}
		if err := p.exporter.Append(ctx, org.SpreadsheetID, org.SheetRange, export.BuildRow(summary)); err != nil {
			p.logger.Warn("sheet export failed", "error", err, "message_id", msg.ID)
			result.Degraded = append(result.Degraded, StepFailure{Step: "sheet export", Error: err.Error()})
			p.metrics.ObserveExport(false)
		} else {
			p.metrics.ObserveExport(true)
		}
	}

	if p.notifier != nil && org != nil && lead != nil {
		if err := p.notifier.NotifyNewLead(ctx, org, lead); err != nil {
			p.logger.Warn("lead notification failed", "error", err, "lead_id", lead.ID)
			result.Degraded = append(result.Degraded, StepFailure{Step: "notify lead", Error: err.Error()})
		}
	}

	leadID := ""
	if lead != nil {
		leadID = lead.ID
	}
	if err := p.messages.Complete(ctx, req.OrgID, msg.ID, response, leadID); err != nil {
		return nil, p.fail(ctx, msg, "finalize message", err)
	}

	final, err := p.messages.GetByID(ctx, req.OrgID, msg.ID)
	if err != nil {
		// The message was finalized; fall back to the created snapshot.
		p.logger.Warn("reload of finalized message failed", "error", err, "message_id", msg.ID)
		final = msg
	}
	result.Message = final

	p.metrics.ObserveProcessed(req.Channel, messages.StatusCompleted)
	p.metrics.ObserveProcessDuration(req.Channel, time.Since(start).Seconds())
	p.logger.Info("message processed",
		"message_id", msg.ID,
		"org_id", req.OrgID,
		"intent", cls.Intent,
		"language", det.Language,
		"lead_id", leadID,
		"degraded_steps", len(result.Degraded),
	)
	return result, nil
}

// fail marks the message failed best-effort and wraps the fatal error.
func (p *Pipeline) fail(ctx context.Context, msg *messages.Message, step string, err error) error {
	if markErr := p.messages.MarkFailed(ctx, msg.OrgID, msg.ID, err.Error()); markErr != nil {
		p.logger.Error("failed to mark message failed", "error", markErr, "message_id", msg.ID)
	}
	p.metrics.ObserveProcessed(msg.Channel, messages.StatusFailed)
	p.logger.Error("pipeline step failed", "step", step, "error", err, "message_id", msg.ID)
	return &ExternalError{Step: step, Err: err}
}

// BatchItem is the per-request outcome of a batch run.
type BatchItem struct {
	Index  int     `json:"index"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// ProcessBatch runs requests strictly in order. One item's failure never
// aborts the rest of the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, reqs []ProcessRequest) []BatchItem {
	items := make([]BatchItem, 0, len(reqs))
	for i, req := range reqs {
		item := BatchItem{Index: i}
		res, err := p.Process(ctx, req)
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = res
		}
		items = append(items, item)
	}
	return items
}

package queue

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Topics published by the services.
const (
	TopicLeadCreated        = "lead.created"
	TopicLeadDeleted        = "lead.deleted"
	TopicLeadStatusChanged  = "lead.status_changed"
	TopicLeadNoteAdded      = "lead.note_added"
	TopicLeadDealCreated    = "lead.deal_created"
	TopicCampaignCreated    = "campaign.created"
	TopicCampaignDuplicated = "campaign.duplicated"
	TopicCampaignDeleted    = "campaign.deleted"
	TopicCampaignPaused     = "campaign.paused"
	TopicCampaignResumed    = "campaign.resumed"
	TopicCampaignSendStart  = "campaign.send_started"
	TopicPostCreated        = "social.post_created"
	TopicReportGenerate     = "report.generate"
	TopicSegmentCreated     = "segment.created"
	TopicSegmentExport      = "segment.export"
	TopicUserRegistered     = "auth.user_registered"
	TopicPasswordReset      = "auth.password_reset_requested"
	TopicSettingsUpdated    = "settings.updated"
)

// Notification is the payload of every user-facing event: the notice text the
// dashboard shows plus the record it concerns.
type Notification struct {
	Notice   string `json:"notice"`
	Kind     string `json:"kind,omitempty"`
	RecordID int    `json:"record_id,omitempty"`
	UserID   int    `json:"user_id,omitempty"`
}

// ReportJob asks for a report to be rendered.
type ReportJob struct {
	ReportID int `json:"report_id"`
}

// ReportCompleter renders a queued report and stores the result.
type ReportCompleter interface {
	CompleteReport(id int) error
}

// StartReportSubscriber renders reports as their jobs arrive.
func StartReportSubscriber(q Queue, completer ReportCompleter, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	err := q.Subscribe(TopicReportGenerate, func(ev Event) error {
		job, ok := ev.Payload.(ReportJob)
		if !ok {
			logger.Warn("invalid payload type, expected ReportJob", zap.Any("payload", ev.Payload))
			return nil // no retry
		}

		logger.Info("📄 generating report", zap.Int("report_id", job.ReportID))
		if err := completer.CompleteReport(job.ReportID); err != nil {
			logger.Warn("report generation failed", zap.Int("report_id", job.ReportID), zap.Error(err))
			return err // triggers retry in queue
		}
		logger.Info("✅ report ready", zap.Int("report_id", job.ReportID))
		return nil
	})
	return errors.Wrap(err, "subscribe report generator")
}

// LogEvent returns a handler that writes each event to the log, which is
// where notices end up outside the dashboard.
func LogEvent(logger *zap.Logger) Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ev Event) error {
		fields := []zap.Field{zap.String("topic", ev.Topic), zap.Time("at", ev.At)}
		if n, ok := ev.Payload.(Notification); ok {
			fields = append(fields, zap.String("notice", n.Notice), zap.Int("record_id", n.RecordID))
			if n.UserID != 0 {
				fields = append(fields, zap.Int("user_id", n.UserID))
			}
		}
		logger.Info("🔔 notification", fields...)
		return nil
	}
}

// StartNotificationLogger logs every event as it goes by.
func StartNotificationLogger(q Queue, logger *zap.Logger) error {
	return errors.Wrap(q.Subscribe(AllTopics, LogEvent(logger)), "subscribe notification logger")
}

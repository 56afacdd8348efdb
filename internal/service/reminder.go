package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/domain/notification"
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/whatsapp"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"
)

// DefaultReminderStates is the audience of a batch that does not pick one.
var DefaultReminderStates = []types.MembershipState{
	types.MembershipStateDueSoon,
	types.MembershipStateLapsed,
}

// ReminderService sends WhatsApp messages and keeps the notification log.
type ReminderService interface {
	// RunReminders sends the period's reminder to every active member in the selected states
	// that has not received it yet.
	RunReminders(ctx context.Context, req dto.RunRemindersRequest, today types.ISODate) (*dto.ReminderBatchResult, error)
	SendManual(ctx context.Context, req dto.SendMessageRequest, today types.ISODate) (*dto.SendMessageResponse, error)
	// SendReceipt messages the member about a newly recorded payment. It is a no-op when no
	// receipt template is configured.
	SendReceipt(ctx context.Context, memberID string, payload types.PaymentRecordedPayload) error
	GetLogs(ctx context.Context, period string) (*dto.NotificationLogsResponse, error)
}

type reminderService struct {
	ServiceParams
}

func NewReminderService(params ServiceParams) ReminderService {
	return &reminderService{
		ServiceParams: params,
	}
}

type reminderTarget struct {
	member *member.Member
	status cycle.MembershipStatus
}

func (s *reminderService) RunReminders(ctx context.Context, req dto.RunRemindersRequest, today types.ISODate) (*dto.ReminderBatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Today != "" {
		today = types.ISODate(req.Today)
	}
	if err := today.Validate(); err != nil {
		return nil, err
	}
	if !s.Sender.Enabled() {
		return nil, ierr.NewError("whatsapp sender is disabled").
			WithHint("Enable WhatsApp in the configuration to send reminders").
			Mark(ierr.ErrInvalidOperation)
	}

	period := req.Period
	if period == "" {
		period = types.PeriodKeyOf(today).String()
	}
	states := req.States
	if len(states) == 0 {
		states = DefaultReminderStates
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	alreadySent, err := s.NotificationRepo.SentMemberIDs(ctx, period, types.NotificationKindReminder)
	if err != nil {
		return nil, err
	}
	sentSet := lo.SliceToMap(alreadySent, func(id string) (string, struct{}) {
		return id, struct{}{}
	})

	targets, err := s.selectTargets(ctx, *p, states, today)
	if err != nil {
		return nil, err
	}

	result := &dto.ReminderBatchResult{Period: period}
	var mu sync.Mutex
	tally := func(status types.NotificationStatus, sendErr error) {
		mu.Lock()
		defer mu.Unlock()
		switch status {
		case types.NotificationStatusSent:
			result.Sent++
		case types.NotificationStatusFailed:
			result.Failed++
			result.Errors = append(result.Errors, sendErr.Error())
		default:
			result.Skipped++
		}
	}

	template := lo.CoalesceOrEmpty(req.Template, s.Config.WhatsApp.DefaultTemplate)
	language := lo.CoalesceOrEmpty(req.Language, s.Config.WhatsApp.DefaultLanguage)

	limiter := rate.NewLimiter(rate.Limit(s.Config.Reminders.RatePerSecond), 1)
	if s.Config.Reminders.RatePerSecond <= 0 {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	workers := pool.New().WithMaxGoroutines(max(1, s.Config.Reminders.MaxConcurrency))

	for _, t := range targets {
		if _, ok := sentSet[t.member.ID]; ok {
			tally(types.NotificationStatusSkipped, nil)
			continue
		}

		t := t
		workers.Go(func() {
			if err := limiter.Wait(ctx); err != nil {
				tally(types.NotificationStatusFailed, err)
				return
			}
			status, err := s.send(ctx, sendJob{
				kind:     types.NotificationKindReminder,
				period:   period,
				memberID: t.member.ID,
				phone:    t.member.Phone,
				template: template,
				language: language,
				params:   reminderParams(t.member, t.status),
			})
			tally(status, err)
		})
	}
	workers.Wait()

	s.Logger.Infow("reminder batch finished",
		"tenant_id", types.GetTenantID(ctx),
		"period", period,
		"targets", len(targets),
		"sent", result.Sent,
		"failed", result.Failed,
		"skipped", result.Skipped,
	)
	return result, nil
}

// selectTargets evaluates every active member against today and keeps the requested states.
func (s *reminderService) selectTargets(ctx context.Context, p policy.BillingPolicy, states []types.MembershipState, today types.ISODate) ([]reminderTarget, error) {
	filter := types.NewMemberFilter()
	filter.QueryFilter = types.NewNoLimitQueryFilter()
	filter.ActiveOnly = true

	members, err := s.MemberRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	targets := make([]reminderTarget, 0, len(members))
	for _, m := range members {
		periods, err := s.BillingPeriodRepo.ListByMember(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		status := cycle.ComputeStatus(effectiveEndDate(m, periods), today, p)
		if lo.Contains(states, status.State) {
			targets = append(targets, reminderTarget{member: m, status: status})
		}
	}
	return targets, nil
}

func reminderParams(m *member.Member, status cycle.MembershipStatus) []string {
	end := ""
	if status.EndDate != nil {
		end = status.EndDate.String()
	}
	return []string{m.FullName(), end}
}

type sendJob struct {
	kind     types.NotificationKind
	period   string
	memberID string
	phone    string
	template string
	language string
	params   []string
}

// send delivers one message and writes its log row. A member without a usable phone is
// skipped; a sent reminder that another batch logged first is reported as skipped.
func (s *reminderService) send(ctx context.Context, job sendJob) (types.NotificationStatus, error) {
	entry := &notification.Log{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION_LOG),
		PeriodKey:   job.period,
		MemberID:    job.memberID,
		Kind:        job.kind,
		Phone:       whatsapp.NormalizePhoneAR(job.phone),
		Template:    job.template,
		AttemptedAt: time.Now().UTC(),
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}

	var sendErr error
	if entry.Phone == "" {
		entry.Result = types.NotificationStatusSkipped
		entry.Error = "member has no phone"
	} else {
		res, err := s.Sender.SendTemplate(ctx, &whatsapp.TemplateRequest{
			To:       entry.Phone,
			Template: job.template,
			Language: job.language,
			Params:   job.params,
		})
		if err != nil {
			sendErr = err
			entry.Result = types.NotificationStatusFailed
			entry.Error = err.Error()
		} else {
			entry.Result = types.NotificationStatusSent
			entry.ProviderMessageID = res.MessageID
		}
	}

	if err := s.NotificationRepo.Create(ctx, entry); err != nil {
		if ierr.IsAlreadyExists(err) {
			return types.NotificationStatusSkipped, nil
		}
		s.Logger.Errorw("failed to write notification log",
			"member_id", job.memberID,
			"period", job.period,
			"kind", job.kind,
			"error", err,
		)
	}

	if sendErr != nil {
		s.Logger.Warnw("whatsapp message failed",
			"member_id", job.memberID,
			"period", job.period,
			"kind", job.kind,
			"error", sendErr,
		)
	}
	return entry.Result, sendErr
}

func (s *reminderService) SendManual(ctx context.Context, req dto.SendMessageRequest, today types.ISODate) (*dto.SendMessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(req.Phone)
	memberID := strings.TrimSpace(req.MemberID)
	if memberID != "" {
		m, err := s.MemberRepo.Get(ctx, memberID)
		if err != nil {
			return nil, err
		}
		if phone == "" {
			phone = m.Phone
		}
	}
	if whatsapp.NormalizePhoneAR(phone) == "" {
		return nil, ierr.NewError("no phone to send to").
			WithHint("The member has no phone number; pass one explicitly").
			Mark(ierr.ErrValidation)
	}

	template := lo.CoalesceOrEmpty(req.Template, s.Config.WhatsApp.DefaultTemplate)
	language := lo.CoalesceOrEmpty(req.Language, s.Config.WhatsApp.DefaultLanguage)

	res, err := s.Sender.SendTemplate(ctx, &whatsapp.TemplateRequest{
		To:       phone,
		Template: template,
		Language: language,
		Params:   req.Params,
	})

	entry := &notification.Log{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NOTIFICATION_LOG),
		PeriodKey:   types.PeriodKeyOf(today).String(),
		MemberID:    memberID,
		Kind:        types.NotificationKindManual,
		Phone:       whatsapp.NormalizePhoneAR(phone),
		Template:    template,
		Result:      types.NotificationStatusSent,
		AttemptedAt: time.Now().UTC(),
		BaseModel:   types.GetDefaultBaseModel(ctx),
	}
	if err != nil {
		entry.Result = types.NotificationStatusFailed
		entry.Error = err.Error()
	} else {
		entry.ProviderMessageID = res.MessageID
	}
	if logErr := s.NotificationRepo.Create(ctx, entry); logErr != nil {
		s.Logger.Errorw("failed to write notification log", "member_id", memberID, "error", logErr)
	}

	if err != nil {
		return nil, err
	}
	return &dto.SendMessageResponse{To: res.To, MessageID: res.MessageID}, nil
}

func (s *reminderService) SendReceipt(ctx context.Context, memberID string, payload types.PaymentRecordedPayload) error {
	template := s.Config.WhatsApp.ReceiptTemplate
	if template == "" || !s.Sender.Enabled() {
		return nil
	}

	m, err := s.MemberRepo.Get(ctx, memberID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("receipt for unknown member", "member_id", memberID, "payment_id", payload.PaymentID)
			return nil
		}
		return err
	}

	status, err := s.send(ctx, sendJob{
		kind:     types.NotificationKindReceipt,
		period:   payload.Period,
		memberID: m.ID,
		phone:    m.Phone,
		template: template,
		language: s.Config.WhatsApp.DefaultLanguage,
		params: []string{
			m.FullName(),
			payload.Amount + " " + payload.Currency,
			payload.Period,
			payload.ReceiptNumber,
		},
	})
	if err != nil {
		return err
	}

	s.Logger.Infow("payment receipt processed",
		"member_id", m.ID,
		"payment_id", payload.PaymentID,
		"result", status,
	)
	return nil
}

func (s *reminderService) GetLogs(ctx context.Context, period string) (*dto.NotificationLogsResponse, error) {
	key, err := types.ParsePeriodKey(period)
	if err != nil {
		return nil, err
	}

	logs, err := s.NotificationRepo.ListByPeriod(ctx, key.String())
	if err != nil {
		return nil, err
	}

	summary := notification.Summary{Period: key.String()}
	for _, l := range logs {
		switch l.Result {
		case types.NotificationStatusSent:
			summary.Sent++
		case types.NotificationStatusFailed:
			summary.Failed++
		case types.NotificationStatusSkipped:
			summary.Skipped++
		}
	}

	if logs == nil {
		logs = []*notification.Log{}
	}
	return &dto.NotificationLogsResponse{Summary: summary, Items: logs}, nil
}

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/domain/attendance"
	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
)

// CheckInService runs the front desk: admission against the membership status and today's
// attendance list.
type CheckInService interface {
	// CheckIn decides whether the member may enter today and records the attendance when they
	// may. A hard-blocked member is denied without touching attendance.
	CheckIn(ctx context.Context, req dto.CheckInRequest, today types.ISODate) (*dto.AdmissionDecision, error)

	// Dismiss hides the member's row from today's list. It reports false when there was no visible row.
	Dismiss(ctx context.Context, memberID string, today types.ISODate) (bool, error)
	DismissAll(ctx context.Context, today types.ISODate) (int, error)
	DismissByClass(ctx context.Context, classGroupID string, today types.ISODate) (int, error)

	CountTodayByClass(ctx context.Context, classGroupID string, today types.ISODate) (*dto.CountResponse, error)
	ListToday(ctx context.Context, today types.ISODate) (*dto.ListTodayResponse, error)
}

type checkInService struct {
	ServiceParams
}

func NewCheckInService(params ServiceParams) CheckInService {
	return &checkInService{
		ServiceParams: params,
	}
}

func (s *checkInService) CheckIn(ctx context.Context, req dto.CheckInRequest, today types.ISODate) (*dto.AdmissionDecision, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := today.Validate(); err != nil {
		return nil, err
	}

	m, err := s.MemberRepo.Get(ctx, strings.TrimSpace(req.MemberID))
	if err != nil {
		return nil, err
	}
	if !m.Active {
		return nil, ierr.NewError("member is inactive").
			WithHintf("%s is inactive and cannot check in", m.FullName()).
			WithReportableDetails(map[string]any{
				"member_id": m.ID,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	p, err := NewPolicyService(s.ServiceParams).GetPolicy(ctx)
	if err != nil {
		return nil, err
	}

	periods, err := s.BillingPeriodRepo.ListByMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	status := cycle.ComputeStatus(effectiveEndDate(m, periods), today, *p)
	decision := &dto.AdmissionDecision{
		Allowed:    status.Admits(),
		Status:     status,
		Notice:     status.Notice,
		Message:    admissionMessage(m, status),
		Member:     m,
		OtherClass: req.ActiveClassID != "" && !m.InClass(req.ActiveClassID),
	}

	if !decision.Allowed {
		s.Logger.Infow("check-in denied",
			"member_id", m.ID,
			"date", today,
			"state", status.State,
			"days_to_end", status.DaysToEnd,
		)
		s.publishEvent(ctx, types.EventCheckinDenied, m.ID, types.CheckinDeniedPayload{
			Date:   today,
			State:  status.State,
			Notice: status.Notice,
		})
		return decision, nil
	}

	if err := s.recordAttendance(ctx, m.ID, today, decision); err != nil {
		return nil, err
	}

	s.Logger.Infow("check-in admitted",
		"member_id", m.ID,
		"date", today,
		"state", status.State,
		"repeated", decision.Repeated,
		"reinstated", decision.Reinstated,
	)
	return decision, nil
}

// recordAttendance keeps one row per member and day: a visible row makes the check-in a
// repeat, a dismissed row is shown again.
func (s *checkInService) recordAttendance(ctx context.Context, memberID string, today types.ISODate, decision *dto.AdmissionDecision) error {
	existing, err := s.AttendanceRepo.GetByMemberDate(ctx, memberID, today)
	if err != nil && !ierr.IsNotFound(err) {
		return err
	}

	if existing == nil {
		row := &attendance.Attendance{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ATTENDANCE),
			MemberID:  memberID,
			Date:      today,
			BaseModel: types.GetDefaultBaseModel(ctx),
		}
		err := s.AttendanceRepo.Create(ctx, row)
		if err == nil {
			decision.Attendance = row
			return nil
		}
		if !ierr.IsAlreadyExists(err) {
			return err
		}
		if existing, err = s.AttendanceRepo.GetByMemberDate(ctx, memberID, today); err != nil {
			return err
		}
	}

	if existing.Dismissed {
		existing.Dismissed = false
		existing.Touch(ctx)
		if err := s.AttendanceRepo.Update(ctx, existing); err != nil {
			return err
		}
		decision.Reinstated = true
	} else {
		decision.Repeated = true
	}

	decision.Attendance = existing
	return nil
}

func admissionMessage(m *member.Member, status cycle.MembershipStatus) string {
	name := m.FullName()
	switch status.Notice {
	case types.StatusNoticeGreen:
		if status.DaysToEnd == 0 {
			return fmt.Sprintf("Welcome %s. Your membership ends today", name)
		}
		return fmt.Sprintf("Welcome %s. Your membership is current for %d more days", name, status.DaysToEnd)
	case types.StatusNoticeYellow:
		return fmt.Sprintf("Welcome %s. Your membership ended %d days ago, please renew", name, -status.DaysToEnd)
	case types.StatusNoticeGrace:
		return fmt.Sprintf("Welcome %s. Your membership has lapsed, entry allowed during the grace period", name)
	default:
		if status.EndDate == nil {
			return fmt.Sprintf("%s has no membership, entry denied", name)
		}
		return fmt.Sprintf("%s's membership lapsed on %s, entry denied", name, *status.EndDate)
	}
}

func (s *checkInService) Dismiss(ctx context.Context, memberID string, today types.ISODate) (bool, error) {
	row, err := s.AttendanceRepo.GetByMemberDate(ctx, strings.TrimSpace(memberID), today)
	if err != nil {
		if ierr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if row.Dismissed {
		return false, nil
	}

	if err := s.dismiss(ctx, row); err != nil {
		return false, err
	}
	return true, nil
}

func (s *checkInService) DismissAll(ctx context.Context, today types.ISODate) (int, error) {
	rows, err := s.AttendanceRepo.ListByDate(ctx, today)
	if err != nil {
		return 0, err
	}
	return s.dismissRows(ctx, rows, nil)
}

func (s *checkInService) DismissByClass(ctx context.Context, classGroupID string, today types.ISODate) (int, error) {
	rows, err := s.AttendanceRepo.ListByDate(ctx, today)
	if err != nil {
		return 0, err
	}
	return s.dismissRows(ctx, rows, func(m *member.Member) bool {
		return m.InClass(classGroupID)
	})
}

func (s *checkInService) dismissRows(ctx context.Context, rows []*attendance.Attendance, match func(m *member.Member) bool) (int, error) {
	dismissed := 0
	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		for _, row := range rows {
			if match != nil {
				m, err := s.MemberRepo.Get(ctx, row.MemberID)
				if err != nil {
					if ierr.IsNotFound(err) {
						continue
					}
					return err
				}
				if !match(m) {
					continue
				}
			}
			if err := s.dismiss(ctx, row); err != nil {
				return err
			}
			dismissed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.Logger.Infow("attendance dismissed", "count", dismissed)
	return dismissed, nil
}

func (s *checkInService) dismiss(ctx context.Context, row *attendance.Attendance) error {
	row.Dismissed = true
	row.Touch(ctx)
	return s.AttendanceRepo.Update(ctx, row)
}

func (s *checkInService) CountTodayByClass(ctx context.Context, classGroupID string, today types.ISODate) (*dto.CountResponse, error) {
	entries, err := s.todayEntries(ctx, today)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, e := range entries {
		if e.Member.InClass(classGroupID) {
			count++
		}
	}
	return &dto.CountResponse{ClassGroupID: classGroupID, Count: count}, nil
}

func (s *checkInService) ListToday(ctx context.Context, today types.ISODate) (*dto.ListTodayResponse, error) {
	entries, err := s.todayEntries(ctx, today)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Member, entries[j].Member
		if !strings.EqualFold(a.LastName, b.LastName) {
			return strings.ToLower(a.LastName) < strings.ToLower(b.LastName)
		}
		return strings.ToLower(a.FirstName) < strings.ToLower(b.FirstName)
	})

	resp := types.NewListResponse(entries, len(entries), 0, 0)
	return &resp, nil
}

// todayEntries joins the visible rows of the day with their members, skipping rows whose
// member no longer exists.
func (s *checkInService) todayEntries(ctx context.Context, today types.ISODate) ([]*dto.TodayAttendance, error) {
	rows, err := s.AttendanceRepo.ListByDate(ctx, today)
	if err != nil {
		return nil, err
	}

	entries := make([]*dto.TodayAttendance, 0, len(rows))
	for _, row := range rows {
		m, err := s.MemberRepo.Get(ctx, row.MemberID)
		if err != nil {
			if ierr.IsNotFound(err) {
				s.Logger.Warnw("attendance without member", "attendance_id", row.ID, "member_id", row.MemberID)
				continue
			}
			return nil, err
		}
		entries = append(entries, &dto.TodayAttendance{Attendance: row, Member: m})
	}
	return entries, nil
}

package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/domain/payment"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/postgres"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	ctx  context.Context
	mock sqlmock.Sqlmock
	db   *postgres.DB
	log  *logger.Logger
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	mockDB, mock, err := sqlmock.New()
	s.Require().NoError(err)

	s.mock = mock
	s.log = logger.NewNopLogger()
	// the postgres driver name makes sqlx bind $N placeholders
	s.db = postgres.NewFromSqlx(sqlx.NewDb(mockDB, "postgres"), s.log)
	s.ctx = types.SetTenantID(context.Background(), "tenant_1")
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RepositorySuite) newPeriod() *billingperiod.BillingPeriod {
	return &billingperiod.BillingPeriod{
		ID:           "bp_1",
		MemberID:     "30111222",
		PeriodKey:    types.NewPeriodKey(2024, time.February),
		StartDate:    "2024-01-11",
		EndDate:      "2024-02-10",
		PriceBase:    decimal.NewFromInt(25000),
		PriceFinal:   decimal.NewFromInt(25000),
		PeriodStatus: types.PeriodStatusUnpaid,
		BaseModel:    types.GetDefaultBaseModel(s.ctx),
	}
}

func (s *RepositorySuite) TestBillingPeriodCreate() {
	repo := NewBillingPeriodRepository(s.db, s.log)

	s.mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (tenant_id, member_id, period_year, period_month) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(repo.Create(s.ctx, s.newPeriod()))
}

func (s *RepositorySuite) TestBillingPeriodCreateConflict() {
	repo := NewBillingPeriodRepository(s.db, s.log)

	s.mock.ExpectExec("INSERT INTO billing_periods").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Create(s.ctx, s.newPeriod())
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *RepositorySuite) TestBillingPeriodGetByKeyNotFound() {
	repo := NewBillingPeriodRepository(s.db, s.log)

	s.mock.ExpectQuery("SELECT (.+) FROM billing_periods").
		WithArgs("tenant_1", "30111222", 2024, 3).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByKey(s.ctx, "30111222", types.NewPeriodKey(2024, time.March))
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *RepositorySuite) TestBillingPeriodListUnpaid() {
	repo := NewBillingPeriodRepository(s.db, s.log)

	rows := sqlmock.NewRows([]string{
		"id", "member_id", "period_year", "period_month", "start_date", "end_date",
		"total_class_days", "price_base", "price_final", "period_status",
	}).
		AddRow("bp_1", "30111222", 2024, 2, "2024-01-11", "2024-02-10", 26, "25000", "25000", "unpaid").
		AddRow("bp_2", "28999000", 2024, 2, "2024-01-11", "2024-02-10", 26, "25000", "25000", "unpaid")

	s.mock.ExpectQuery("SELECT (.+) FROM billing_periods").
		WithArgs("tenant_1", types.PeriodStatusUnpaid).
		WillReturnRows(rows)

	periods, err := repo.ListUnpaid(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(periods, 2)
	s.Equal(types.NewPeriodKey(2024, time.February), periods[0].PeriodKey)
	s.Equal(types.ISODate("2024-02-10"), periods[0].EndDate)
	s.True(decimal.NewFromInt(25000).Equal(periods[1].PriceBase))
}

func (s *RepositorySuite) TestPaymentCreateUniqueViolation() {
	repo := NewPaymentRepository(s.db, s.log)

	s.mock.ExpectExec("INSERT INTO payments").
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(s.ctx, &payment.Payment{
		ID:        "pay_1",
		MemberID:  "30111222",
		PeriodKey: types.NewPeriodKey(2024, time.February),
		Amount:    decimal.NewFromInt(25000),
		Method:    types.PaymentMethodCash,
		PaidOn:    "2024-02-03",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	})
	s.True(ierr.IsAlreadyExists(err))
}

func (s *RepositorySuite) TestPaymentUpdateMissingRow() {
	repo := NewPaymentRepository(s.db, s.log)

	s.mock.ExpectExec("UPDATE payments SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(s.ctx, &payment.Payment{ID: "pay_missing", BaseModel: types.GetDefaultBaseModel(s.ctx)})
	s.True(ierr.IsNotFound(err))
}

func (s *RepositorySuite) TestMemberListFilters() {
	repo := NewMemberRepository(s.db, s.log)

	filter := types.NewMemberFilter()
	filter.Search = "perez"
	filter.ClassGroupID = "cls_1"

	s.mock.ExpectQuery(regexp.QuoteMeta("first_name ILIKE $3 OR last_name ILIKE $3")).
		WithArgs("tenant_1", types.StatusActive, "%perez%", "cls_1", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name"}).
			AddRow("30111222", "Ana", "Perez"))

	members, err := repo.List(s.ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal("Ana Perez", members[0].FullName())
}

func (s *RepositorySuite) TestMemberDatabaseError() {
	repo := NewMemberRepository(s.db, s.log)

	s.mock.ExpectQuery("SELECT (.+) FROM members").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Get(s.ctx, "30111222")
	s.True(ierr.IsDatabase(err))
}

func (s *RepositorySuite) TestPolicyGetMissing() {
	repo := NewPolicyRepository(s.db, s.log)

	s.mock.ExpectQuery("SELECT (.+) FROM billing_policies").
		WithArgs("tenant_1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(s.ctx)
	s.True(ierr.IsNotFound(err))
}

func (s *RepositorySuite) TestNotificationSentMemberIDs() {
	repo := NewNotificationRepository(s.db, s.log)

	s.mock.ExpectQuery("SELECT DISTINCT member_id FROM notification_logs").
		WithArgs("tenant_1", "2024-02", types.NotificationKindReminder, types.NotificationStatusSent).
		WillReturnRows(sqlmock.NewRows([]string{"member_id"}).AddRow("30111222").AddRow("28999000"))

	ids, err := repo.SentMemberIDs(s.ctx, "2024-02", types.NotificationKindReminder)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"30111222", "28999000"}, ids)
}

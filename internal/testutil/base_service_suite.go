package testutil

import (
	"context"
	"time"

	"github.com/dojocycle/dojocycle/internal/cache"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/sentry"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the in-memory repositories for testing
type Stores struct {
	MemberRepo        *InMemoryMemberStore
	BillingPeriodRepo *InMemoryBillingPeriodStore
	PaymentRepo       *InMemoryPaymentStore
	AttendanceRepo    *InMemoryAttendanceStore
	ClassGroupRepo    *InMemoryClassGroupStore
	PolicyRepo        *InMemoryPolicyStore
	NotificationRepo  *InMemoryNotificationStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	publisher *InMemoryPublisherService
	sender    *MockSender
	db        *MockPostgresClient
	cache     cache.Cache
	sentry    *sentry.Service
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelInfo
	s.config.WhatsApp.Enabled = true
	s.config.WhatsApp.ReceiptTemplate = "payment_receipt"
	s.config.Reminders.RatePerSecond = 1000
	s.logger = logger.NewNopLogger()
	s.sentry = sentry.NewSentryService(s.config, s.logger)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		MemberRepo:        NewInMemoryMemberStore(),
		BillingPeriodRepo: NewInMemoryBillingPeriodStore(),
		PaymentRepo:       NewInMemoryPaymentStore(),
		AttendanceRepo:    NewInMemoryAttendanceStore(),
		ClassGroupRepo:    NewInMemoryClassGroupStore(),
		PolicyRepo:        NewInMemoryPolicyStore(),
		NotificationRepo:  NewInMemoryNotificationStore(),
	}

	s.db = NewMockPostgresClient(s.logger,
		s.stores.MemberRepo,
		s.stores.BillingPeriodRepo,
		s.stores.PaymentRepo,
		s.stores.AttendanceRepo,
		s.stores.NotificationRepo,
	)
	s.publisher = NewInMemoryEventPublisher()
	s.sender = NewMockSender(true)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.MemberRepo.Clear()
	s.stores.BillingPeriodRepo.Clear()
	s.stores.PaymentRepo.Clear()
	s.stores.AttendanceRepo.Clear()
	s.stores.ClassGroupRepo.Clear()
	s.stores.PolicyRepo.Clear()
	s.stores.NotificationRepo.Clear()
	s.publisher.Clear()
	s.cache.Flush(s.ctx)
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetPublisher returns the recording event publisher
func (s *BaseServiceTestSuite) GetPublisher() *InMemoryPublisherService {
	return s.publisher
}

// GetSender returns the recording WhatsApp sender
func (s *BaseServiceTestSuite) GetSender() *MockSender {
	return s.sender
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// CreateTestMember stores an active member whose plan runs from start to planEnd.
// An empty planEnd leaves the member without a plan.
func (s *BaseServiceTestSuite) CreateTestMember(id string, start, planEnd types.ISODate) *member.Member {
	m := &member.Member{
		ID:                   id,
		FirstName:            "Test",
		LastName:             "Member " + id,
		Phone:                "11 5555-" + id[len(id)-4:],
		StartDate:            start,
		Active:               true,
		ManualDiscountAmount: decimal.Zero,
		PriceApplied:         decimal.Zero,
		BaseModel:            types.GetDefaultBaseModel(s.ctx),
	}
	if !planEnd.IsZero() {
		m.PlanEndDate = &planEnd
	}
	s.Require().NoError(s.stores.MemberRepo.Create(s.ctx, m))
	return m
}

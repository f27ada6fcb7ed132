package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"time"

	attendanceerrors "go-attendance/internal/attendance/errors"
	companyerrors "go-attendance/internal/company/errors"
	"go-attendance/internal/domain"
	"go-attendance/internal/events"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/realtime"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"
	"go-attendance/internal/shared/i18n"
	"go-attendance/internal/user"
	usererrors "go-attendance/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultLogLimit   = 50
	UnknownUserName   = "Unknown"
	ExportFilename    = "attendance.csv"
	exportTimeLayout  = "2006/01/02 15:04:05"
	utf8ByteOrderMark = "\ufeff"
)

type Authorizer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type Translator interface {
	T(ctx context.Context, key string) string
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	RecordAttendance(ctx context.Context, caller domain.Caller, req RecordAttendanceRequest) (RecordAttendanceResponse, error)
	ListLogs(ctx context.Context, caller domain.Caller, limit int) ([]LogResponse, error)
	ExportCSV(ctx context.Context, caller domain.Caller) ([]byte, error)
}

type service struct {
	tx         database.Transactor
	repo       Repository
	users      user.Repository
	outbox     kafka.OutboxRepository
	authz      Authorizer
	translator Translator
	publisher  realtime.Publisher
	location   *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

type Option func(*service)

// WithClock replaces time.Now for server timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLocation sets the zone used for exported times. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger.Named("attendance.service")
		}
	}
}

func NewService(
	tx database.Transactor,
	repo Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	authz Authorizer,
	translator Translator,
	publisher realtime.Publisher,
	opts ...Option,
) Service {
	if publisher == nil {
		publisher = realtime.NopPublisher()
	}
	s := &service{
		tx:         tx,
		repo:       repo,
		users:      users,
		outbox:     outbox,
		authz:      authz,
		translator: translator,
		publisher:  publisher,
		location:   time.UTC,
		now:        time.Now,
		logger:     zap.L().Named("attendance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) RecordAttendance(ctx context.Context, caller domain.Caller, req RecordAttendanceRequest) (RecordAttendanceResponse, error) {
	if !caller.Authenticated() {
		return RecordAttendanceResponse{}, apperror.ErrUnauthenticated
	}
	typ := Type(req.Type)
	if !typ.Valid() {
		return RecordAttendanceResponse{}, attendanceerrors.ErrInvalidType
	}
	if req.CompanyID == "" {
		return RecordAttendanceResponse{}, companyerrors.ErrInvalidCompanyID
	}
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return RecordAttendanceResponse{}, apperror.InvalidField("companyId")
	}

	l := contextutil.GetLogger(ctx, s.logger)
	var row *Attendance

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		u, err := s.users.WithTx(tx).FindByUIDForUpdate(ctx, caller.UID)
		if err != nil {
			if database.IsNotFound(err) {
				return usererrors.ErrUserNotFound
			}
			return err
		}
		if !u.InCompany(companyID) {
			return attendanceerrors.ErrCompanyMismatch
		}

		repo := s.repo.WithTx(tx)
		last, err := repo.LastForUser(ctx, companyID, caller.UID)
		if err != nil && !database.IsNotFound(err) {
			return err
		}
		if err := checkTransition(last, typ); err != nil {
			return err
		}

		now := s.now().UTC()
		row = &Attendance{
			ID:           uuid.New(),
			CompanyID:    companyID,
			UID:          caller.UID,
			UserName:     displayName(u.UserName, caller.Name),
			Type:         typ,
			Timestamp:    now,
			CreatedAtISO: now.Format(time.RFC3339Nano),
		}
		if err := repo.Create(ctx, row); err != nil {
			return err
		}

		event, err := kafka.NewOutboxEvent(ctx,
			events.AggregateTypeAttendance,
			row.ID.String(),
			events.EventAttendanceRecorded,
			events.AttendanceRecordedTopic,
			events.AttendanceRecordedEvent{
				EventType:    events.EventAttendanceRecorded,
				AttendanceID: row.ID.String(),
				CompanyID:    companyID.String(),
				UID:          caller.UID,
				Type:         string(typ),
				OccurredAt:   now,
			},
		)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, event)
	})
	if err != nil {
		l.Warn("record attendance failed",
			zap.String("company_id", req.CompanyID),
			zap.String("type", req.Type),
			zap.Error(err),
		)
		return RecordAttendanceResponse{}, err
	}

	s.publisher.Publish(realtime.Event{
		Type:       realtime.EventAttendanceRecorded,
		CompanyID:  companyID.String(),
		UID:        caller.UID,
		Data:       toLogResponse(*row),
		OccurredAt: row.Timestamp,
	})

	l.Info("attendance recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("type", string(typ)),
	)

	key := i18n.MsgClockedOut
	if typ == TypeClockIn {
		key = i18n.MsgClockedIn
	}
	return RecordAttendanceResponse{Success: true, Message: s.translator.T(ctx, key)}, nil
}

// checkTransition enforces strict in/out alternation per user and company.
func checkTransition(last *Attendance, next Type) error {
	switch next {
	case TypeClockIn:
		if last != nil && last.Type == TypeClockIn {
			return attendanceerrors.ErrAlreadyClockedIn
		}
	case TypeClockOut:
		if last == nil {
			return attendanceerrors.ErrNoClockIn
		}
		if last.Type == TypeClockOut {
			return attendanceerrors.ErrAlreadyClockedOut
		}
	}
	return nil
}

func displayName(stored, tokenName string) string {
	if stored != "" {
		return stored
	}
	if tokenName != "" {
		return tokenName
	}
	return UnknownUserName
}

func (s *service) ListLogs(ctx context.Context, caller domain.Caller, limit int) ([]LogResponse, error) {
	rows, err := s.scopedLogs(ctx, caller, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]LogResponse, len(rows))
	for i, r := range rows {
		resp[i] = toLogResponse(r)
	}
	return resp, nil
}

func (s *service) ExportCSV(ctx context.Context, caller domain.Caller) ([]byte, error) {
	rows, err := s.scopedLogs(ctx, caller, DefaultLogLimit)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(utf8ByteOrderMark)

	w := csv.NewWriter(&buf)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{
		s.translator.T(ctx, i18n.LabelCSVHeaderName),
		s.translator.T(ctx, i18n.LabelCSVHeaderType),
		s.translator.T(ctx, i18n.LabelCSVHeaderTime),
	})

	inLabel := s.translator.T(ctx, i18n.LabelClockIn)
	outLabel := s.translator.T(ctx, i18n.LabelClockOut)
	for _, r := range rows {
		label := outLabel
		if r.Type == TypeClockIn {
			label = inLabel
		}
		records = append(records, []string{r.UserName, label, r.Timestamp.In(s.location).Format(exportTimeLayout)})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scopedLogs returns the company's latest records for callers allowed to read
// all of them, otherwise only the caller's own.
func (s *service) scopedLogs(ctx context.Context, caller domain.Caller, limit int) ([]Attendance, error) {
	if !caller.Authenticated() {
		return nil, apperror.ErrUnauthenticated
	}
	if limit <= 0 || limit > DefaultLogLimit {
		limit = DefaultLogLimit
	}

	u, err := s.users.FindByUID(ctx, caller.UID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	if !u.HasCompany() {
		return nil, usererrors.ErrNoCompany
	}

	readAll, err := s.authz.Enforce(domain.EnforceRequest{
		Role:     u.Role,
		Resource: domain.ResourceAttendance,
		Action:   domain.ActionReadAll,
	})
	if err != nil {
		return nil, err
	}

	if readAll {
		return s.repo.ListByCompany(ctx, *u.CompanyID, limit)
	}
	return s.repo.ListByUser(ctx, *u.CompanyID, caller.UID, limit)
}

func toLogResponse(a Attendance) LogResponse {
	return LogResponse{
		ID:        a.ID.String(),
		UID:       a.UID,
		UserName:  a.UserName,
		Type:      string(a.Type),
		CompanyID: a.CompanyID.String(),
		Timestamp: a.Timestamp.UTC().Format(time.RFC3339),
		CreatedAt: a.CreatedAtISO,
	}
}

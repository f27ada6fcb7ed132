package account

import (
	"context"
	"errors"
	"strings"
	"time"

	accounterrors "go-attendance/internal/account/errors"
	"go-attendance/internal/attendance"
	"go-attendance/internal/company"
	companyerrors "go-attendance/internal/company/errors"
	"go-attendance/internal/domain"
	"go-attendance/internal/events"
	identityerrors "go-attendance/internal/identity/errors"
	"go-attendance/internal/invitecode"
	invitecodeerrors "go-attendance/internal/invitecode/errors"
	"go-attendance/internal/messaging/kafka"
	"go-attendance/internal/realtime"
	"go-attendance/internal/shared/apperror"
	"go-attendance/internal/shared/audit"
	"go-attendance/internal/shared/contextutil"
	"go-attendance/internal/shared/database"
	"go-attendance/internal/shared/i18n"
	"go-attendance/internal/user"
	usererrors "go-attendance/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultTeardownChunkSize = 400

type Authorizer interface {
	Authorize(role domain.Role, resource, action string) error
}

type Translator interface {
	T(ctx context.Context, key string) string
}

//go:generate mockgen -source=account_service.go -destination=mock/account_service_mock.go -package=mock
type Service interface {
	CreateCompany(ctx context.Context, caller domain.Caller, req CreateCompanyRequest) (CreateCompanyResponse, error)
	JoinCompany(ctx context.Context, caller domain.Caller, req JoinCompanyRequest) (JoinCompanyResponse, error)
	RemoveMember(ctx context.Context, caller domain.Caller, targetUID string) (SuccessResponse, error)
	DeleteAccountAndCompany(ctx context.Context, caller domain.Caller) (SuccessResponse, error)
	ReissueInviteCode(ctx context.Context, caller domain.Caller) (ReissueInviteCodeResponse, error)
}

// Deps groups the collaborators of the lifecycle service. Publisher, Audit,
// Sessions and Logger are optional.
type Deps struct {
	Tx         database.Transactor
	Companies  company.Repository
	Users      user.Repository
	Attendance attendance.Repository
	Outbox     kafka.OutboxRepository
	Identities IdentityProvider
	Allocator  *invitecode.Allocator
	Authz      Authorizer
	Translator Translator
	Sessions   SessionInvalidator
	Publisher  realtime.Publisher
	Audit      audit.Logger
	ChunkSize  int
	Logger     *zap.Logger
}

type service struct {
	Deps
	logger *zap.Logger
}

func NewService(deps Deps) Service {
	l := zap.L().Named("account.service")
	if deps.Logger != nil {
		l = deps.Logger.Named("account.service")
	}
	if deps.ChunkSize <= 0 {
		deps.ChunkSize = DefaultTeardownChunkSize
	}
	if deps.Publisher == nil {
		deps.Publisher = realtime.NopPublisher()
	}
	if deps.Audit == nil {
		deps.Audit = audit.NewNopLogger()
	}
	if deps.Sessions == nil {
		deps.Sessions = nopSessions{}
	}
	return &service{Deps: deps, logger: l}
}

type nopSessions struct{}

func (nopSessions) Invalidate(context.Context, ...string) {}

func (s *service) CreateCompany(ctx context.Context, caller domain.Caller, req CreateCompanyRequest) (CreateCompanyResponse, error) {
	if !caller.Authenticated() {
		return CreateCompanyResponse{}, apperror.ErrUnauthenticated
	}
	companyName := strings.TrimSpace(req.CompanyName)
	userName := strings.TrimSpace(req.UserName)
	if companyName == "" {
		return CreateCompanyResponse{}, apperror.RequiredField("companyName")
	}
	if userName == "" {
		return CreateCompanyResponse{}, apperror.RequiredField("userName")
	}

	l := contextutil.GetLogger(ctx, s.logger)
	var created *company.Company

	err := s.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		companies := s.Companies.WithTx(tx)
		users := s.Users.WithTx(tx)

		existing, err := users.FindByUIDForUpdate(ctx, caller.UID)
		if err != nil && !database.IsNotFound(err) {
			return err
		}
		if existing != nil && existing.HasCompany() {
			return accounterrors.ErrAlreadyInCompany
		}

		code, err := s.Allocator.Allocate(ctx, companies)
		if err != nil {
			return err
		}

		created = &company.Company{
			ID:         uuid.New(),
			Name:       companyName,
			OwnerID:    caller.UID,
			InviteCode: code,
		}
		if err := companies.Create(ctx, created); err != nil {
			return err
		}

		if err := users.Upsert(ctx, &user.User{
			UID:       caller.UID,
			UserName:  userName,
			CompanyID: &created.ID,
			Role:      domain.RoleAdmin,
			Email:     caller.Email,
		}, user.MergeOnCreate); err != nil {
			return err
		}

		return s.writeLifecycleEvent(ctx, tx, events.EventCompanyCreated, created.ID, caller.UID, caller.UID)
	})
	if err != nil {
		err = mapInviteCodeConflict(err)
		l.Warn("create company failed", zap.Error(err))
		return CreateCompanyResponse{}, err
	}

	s.Sessions.Invalidate(ctx, caller.UID)
	l.Info("company created",
		zap.String("company_id", created.ID.String()),
		zap.String("owner_id", caller.UID),
	)

	return CreateCompanyResponse{Success: true, Message: s.Translator.T(ctx, i18n.MsgCompanyCreated)}, nil
}

func (s *service) JoinCompany(ctx context.Context, caller domain.Caller, req JoinCompanyRequest) (JoinCompanyResponse, error) {
	if !caller.Authenticated() {
		return JoinCompanyResponse{}, apperror.ErrUnauthenticated
	}
	code := invitecode.Normalize(req.InviteCode)
	userName := strings.TrimSpace(req.UserName)
	if code == "" {
		return JoinCompanyResponse{}, apperror.RequiredField("inviteCode")
	}
	if userName == "" {
		return JoinCompanyResponse{}, apperror.RequiredField("userName")
	}

	l := contextutil.GetLogger(ctx, s.logger)
	var joined *company.Company

	err := s.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		comp, err := s.Companies.WithTx(tx).GetByInviteCodeForShare(ctx, code)
		if err != nil {
			if database.IsNotFound(err) {
				return companyerrors.ErrInviteCodeNotFound
			}
			return err
		}
		joined = comp

		if err := s.Users.WithTx(tx).Upsert(ctx, &user.User{
			UID:       caller.UID,
			UserName:  userName,
			CompanyID: &comp.ID,
			Role:      domain.RoleUser,
		}, user.MergeOnJoin); err != nil {
			return err
		}

		return s.writeLifecycleEvent(ctx, tx, events.EventMemberJoined, comp.ID, caller.UID, caller.UID)
	})
	if err != nil {
		l.Warn("join company failed", zap.Error(err))
		return JoinCompanyResponse{}, err
	}

	s.Sessions.Invalidate(ctx, caller.UID)
	s.Publisher.Publish(realtime.Event{
		Type:      realtime.EventMemberJoined,
		CompanyID: joined.ID.String(),
		UID:       caller.UID,
		Data:      map[string]string{"userName": userName},
	})
	l.Info("member joined company", zap.String("company_id", joined.ID.String()))

	return JoinCompanyResponse{Success: true, CompanyName: joined.Name}, nil
}

func (s *service) RemoveMember(ctx context.Context, caller domain.Caller, targetUID string) (SuccessResponse, error) {
	if !caller.Authenticated() {
		return SuccessResponse{}, apperror.ErrUnauthenticated
	}
	targetUID = strings.TrimSpace(targetUID)
	if targetUID == "" {
		return SuccessResponse{}, apperror.RequiredField("targetUid")
	}

	l := contextutil.GetLogger(ctx, s.logger).With(zap.String("target_uid", targetUID))

	admin, err := s.adminOf(ctx, caller.UID, domain.ResourceMember, domain.ActionRemove)
	if err != nil {
		return SuccessResponse{}, err
	}
	if targetUID == caller.UID {
		return SuccessResponse{}, accounterrors.ErrCannotRemoveSelf
	}

	target, err := s.Users.FindByUID(ctx, targetUID)
	if err != nil {
		if database.IsNotFound(err) {
			return SuccessResponse{}, usererrors.ErrUserNotFound
		}
		return SuccessResponse{}, err
	}
	if !target.InCompany(*admin.CompanyID) {
		return SuccessResponse{}, accounterrors.ErrNotSameCompany
	}

	if err := s.Identities.DeleteAccount(ctx, targetUID); err != nil && !errors.Is(err, identityerrors.ErrAccountNotFound) {
		l.Error("delete member identity failed", zap.Error(err))
		return SuccessResponse{}, apperror.Wrap(err, accounterrors.ErrMemberRemovalFailed.Code,
			accounterrors.ErrMemberRemovalFailed.Message, accounterrors.ErrMemberRemovalFailed.HTTPStatus)
	}

	err = s.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.Users.WithTx(tx).Delete(ctx, targetUID); err != nil {
			return err
		}
		return s.writeLifecycleEvent(ctx, tx, events.EventMemberRemoved, *admin.CompanyID, targetUID, caller.UID)
	})
	if err != nil {
		l.Error("delete member record failed", zap.Error(err))
		return SuccessResponse{}, err
	}

	s.Sessions.Invalidate(ctx, targetUID)
	s.Publisher.Publish(realtime.Event{
		Type:      realtime.EventMemberRemoved,
		CompanyID: admin.CompanyID.String(),
		UID:       targetUID,
	})
	s.Audit.Log(ctx, audit.Entry{
		Action:  "member.removed",
		Message: "member removed from company",
		Meta: map[string]any{
			"company_id": admin.CompanyID.String(),
			"target_uid": targetUID,
			"actor_uid":  caller.UID,
		},
	})

	return SuccessResponse{Success: true}, nil
}

func (s *service) DeleteAccountAndCompany(ctx context.Context, caller domain.Caller) (SuccessResponse, error) {
	if !caller.Authenticated() {
		return SuccessResponse{}, apperror.ErrUnauthenticated
	}

	l := contextutil.GetLogger(ctx, s.logger)

	owner, err := s.Users.FindByUID(ctx, caller.UID)
	if err != nil {
		if database.IsNotFound(err) {
			return SuccessResponse{}, usererrors.ErrUserNotFound
		}
		return SuccessResponse{}, err
	}
	if !owner.HasCompany() {
		return SuccessResponse{}, apperror.ErrPermissionDenied
	}
	if err := s.Authz.Authorize(owner.Role, domain.ResourceCompany, domain.ActionDelete); err != nil {
		return SuccessResponse{}, err
	}
	companyID := *owner.CompanyID

	if err := s.ensureSoleMember(ctx, s.Users, companyID); err != nil {
		return SuccessResponse{}, err
	}

	removed, err := s.teardown(ctx, companyID, caller.UID)
	if err != nil {
		l.Error("company teardown failed",
			zap.String("company_id", companyID.String()),
			zap.Int64("attendance_removed", removed),
			zap.Error(err),
		)
		return SuccessResponse{}, err
	}

	s.Sessions.Invalidate(ctx, caller.UID)
	s.Publisher.Publish(realtime.Event{Type: realtime.EventCompanyDeleted, CompanyID: companyID.String()})
	s.Audit.Log(ctx, audit.Entry{
		Action:  "company.deleted",
		Message: "company and owner records deleted",
		Meta: map[string]any{
			"company_id":         companyID.String(),
			"owner_uid":          caller.UID,
			"attendance_removed": removed,
		},
	})

	if err := s.Identities.DeleteAccount(ctx, caller.UID); err != nil && !errors.Is(err, identityerrors.ErrAccountNotFound) {
		l.Error("orphaned identity after company teardown",
			zap.String("company_id", companyID.String()),
			zap.String("uid", caller.UID),
			zap.Error(err),
		)
		s.requestIdentityCleanup(ctx, companyID, caller.UID, err)
		return SuccessResponse{}, apperror.Wrap(err, accounterrors.ErrTeardownIncomplete.Code,
			accounterrors.ErrTeardownIncomplete.Message, accounterrors.ErrTeardownIncomplete.HTTPStatus)
	}

	return SuccessResponse{Success: true}, nil
}

// teardown deletes the company's attendance in chunks. Every full chunk
// commits on its own; the last partial chunk commits together with the
// company and owner rows.
func (s *service) teardown(ctx context.Context, companyID uuid.UUID, ownerUID string) (int64, error) {
	var removed int64
	for {
		done := false
		err := s.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
			records := s.Attendance.WithTx(tx)
			ids, err := records.ListIDsByCompany(ctx, companyID, s.ChunkSize)
			if err != nil {
				return err
			}
			n, err := records.DeleteByIDs(ctx, ids)
			if err != nil {
				return err
			}
			removed += n
			if len(ids) == s.ChunkSize {
				return nil
			}

			users := s.Users.WithTx(tx)
			if err := s.ensureSoleMember(ctx, users, companyID); err != nil {
				return err
			}
			if err := s.Companies.WithTx(tx).Delete(ctx, companyID); err != nil {
				return err
			}
			if _, err := users.Delete(ctx, ownerUID); err != nil {
				return err
			}
			if err := s.writeLifecycleEvent(ctx, tx, events.EventCompanyDeleted, companyID, ownerUID, ownerUID); err != nil {
				return err
			}
			done = true
			return nil
		})
		if err != nil {
			return removed, err
		}
		if done {
			return removed, nil
		}
	}
}

func (s *service) ensureSoleMember(ctx context.Context, users user.Repository, companyID uuid.UUID) error {
	count, err := users.CountByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if count > 1 {
		return accounterrors.ErrMembersRemain
	}
	return nil
}

func (s *service) requestIdentityCleanup(ctx context.Context, companyID uuid.UUID, uid string, cause error) {
	event, err := kafka.NewOutboxEvent(ctx,
		events.AggregateTypeIdentity,
		uid,
		events.EventIdentityCleanupRequested,
		events.IdentityCleanupTopic,
		events.IdentityCleanupRequestedEvent{
			EventType:  events.EventIdentityCleanupRequested,
			UID:        uid,
			CompanyID:  companyID.String(),
			Reason:     cause.Error(),
			OccurredAt: time.Now().UTC(),
		},
	)
	if err == nil {
		err = s.Outbox.Create(ctx, event)
	}
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("queue identity cleanup failed",
			zap.String("uid", uid),
			zap.Error(err),
		)
	}
}

func (s *service) ReissueInviteCode(ctx context.Context, caller domain.Caller) (ReissueInviteCodeResponse, error) {
	if !caller.Authenticated() {
		return ReissueInviteCodeResponse{}, apperror.ErrUnauthenticated
	}

	l := contextutil.GetLogger(ctx, s.logger)

	admin, err := s.adminOf(ctx, caller.UID, domain.ResourceInviteCode, domain.ActionReissue)
	if err != nil {
		return ReissueInviteCodeResponse{}, err
	}
	companyID := *admin.CompanyID

	var code string
	err = s.Tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		companies := s.Companies.WithTx(tx)

		next, err := s.Allocator.Allocate(ctx, companies)
		if err != nil {
			return err
		}
		if err := companies.UpdateInviteCode(ctx, companyID, next); err != nil {
			if database.IsNotFound(err) {
				return companyerrors.ErrCompanyNotFound
			}
			return err
		}
		code = next
		return s.writeLifecycleEvent(ctx, tx, events.EventInviteCodeReissued, companyID, caller.UID, caller.UID)
	})
	if err != nil {
		err = mapInviteCodeConflict(err)
		l.Warn("reissue invite code failed", zap.String("company_id", companyID.String()), zap.Error(err))
		return ReissueInviteCodeResponse{}, err
	}

	s.Sessions.Invalidate(ctx, caller.UID)
	s.Publisher.Publish(realtime.Event{
		Type:      realtime.EventInviteCodeReissued,
		CompanyID: companyID.String(),
		UID:       caller.UID,
	})
	l.Info("invite code reissued", zap.String("company_id", companyID.String()))

	return ReissueInviteCodeResponse{Success: true, NewInviteCode: code}, nil
}

// adminOf loads the caller's record and checks resource:action against it.
// A missing record or a record without a company is a permission failure.
func (s *service) adminOf(ctx context.Context, uid, resource, action string) (*user.User, error) {
	u, err := s.Users.FindByUID(ctx, uid)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, apperror.ErrPermissionDenied
		}
		return nil, err
	}
	if err := s.Authz.Authorize(u.Role, resource, action); err != nil {
		return nil, err
	}
	if !u.HasCompany() {
		return nil, apperror.ErrPermissionDenied
	}
	return u, nil
}

func (s *service) writeLifecycleEvent(ctx context.Context, tx *gorm.DB, eventType string, companyID uuid.UUID, uid, actorUID string) error {
	event, err := kafka.NewOutboxEvent(ctx,
		events.AggregateTypeCompany,
		companyID.String(),
		eventType,
		events.AccountLifecycleTopic,
		events.AccountLifecycleEvent{
			EventType:  eventType,
			CompanyID:  companyID.String(),
			UID:        uid,
			ActorUID:   actorUID,
			OccurredAt: time.Now().UTC(),
		},
	)
	if err != nil {
		return err
	}
	return s.Outbox.WithTx(tx).Create(ctx, event)
}

// mapInviteCodeConflict turns a commit-time collision on the invite code
// index into the same error the allocator returns when it runs out of tries.
func mapInviteCodeConflict(err error) error {
	if database.IsUniqueViolation(err, company.InviteCodeConstraint) {
		return apperror.Wrap(err, invitecodeerrors.ErrExhausted.Code,
			invitecodeerrors.ErrExhausted.Message, invitecodeerrors.ErrExhausted.HTTPStatus)
	}
	return err
}

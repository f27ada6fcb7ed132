package rbac

import (
	"sort"
	"sync"

	"go-attendance/internal/domain"
	"go-attendance/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	// Authorize returns apperror.ErrPermissionDenied when role may not perform action on resource.
	Authorize(role domain.Role, resource, action string) error
	Permissions(role domain.Role) ([]string, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewService loads the static role policy into enforcer.
func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer.ClearPolicy()
	for _, p := range defaultPolicy {
		if _, err := enforcer.AddPolicy(string(p.role), p.resource, p.action); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := enforcer.AddGroupingPolicy(string(g[0]), string(g[1])); err != nil {
			return nil, err
		}
	}
	l.Info("rbac policy loaded",
		zap.Int("policies", len(defaultPolicy)),
		zap.Int("groupings", len(roleInheritance)),
	)

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	if !req.Role.Valid() {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	allowed, err := s.enforcer.Enforce(string(req.Role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", string(req.Role)),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", string(req.Role)),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Authorize(role domain.Role, resource, action string) error {
	allowed, err := s.Enforce(domain.EnforceRequest{Role: role, Resource: resource, Action: action})
	if err != nil {
		return err
	}
	if !allowed {
		return apperror.ErrPermissionDenied
	}
	return nil
}

// Permissions lists "resource:action" pairs granted to role, including inherited ones.
func (s *service) Permissions(role domain.Role) ([]string, error) {
	if !role.Valid() {
		return []string{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rules, err := s.enforcer.GetImplicitPermissionsForUser(string(role))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rules))
	perms := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		key := rule[1] + ":" + rule[2]
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		perms = append(perms, key)
	}
	sort.Strings(perms)
	return perms, nil
}

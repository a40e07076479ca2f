package rbac

import (
	"sync"

	"go-hrm/internal/rbac/infra"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Policy is one allow rule: role may perform action on resource.
type Policy struct {
	Role     Role
	Resource string
	Action   string
}

// DefaultPolicies mirrors what the UI gates on. Admin does not inherit the
// employee-only surface.
var DefaultPolicies = []Policy{
	{RoleAdmin, ResourceAdminFeatures, ActionView},
	{RoleAdmin, ResourceAttendanceAll, ActionRead},
	{RoleAdmin, ResourceAttendance, ActionSelf},
	{RoleEmployee, ResourceEmployeeFeatures, ActionView},
	{RoleEmployee, ResourceAttendance, ActionSelf},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
	Can(role Role, resource, action string) bool
	CanSeeAdminFeatures(role Role) bool
	IsEmployeeOnly(role Role) bool
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

// NewService builds the authorizer with DefaultPolicies.
func NewService(logger ...*zap.Logger) (Service, error) {
	return NewServiceWithPolicies(DefaultPolicies, logger...)
}

func NewServiceWithPolicies(policies []Policy, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return nil, err
	}
	for _, p := range policies {
		if !p.Role.Valid() {
			continue
		}
		if _, err := enforcer.AddPolicy(string(p.Role), p.Resource, p.Action); err != nil {
			return nil, err
		}
	}
	l.Debug("rbac policies loaded", zap.Int("count", len(policies)))

	return &service{enforcer: enforcer, logger: l}, nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	if !req.Role.Valid() {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(string(req.Role), req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role.String()),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}
	return allowed, nil
}

func (s *service) Can(role Role, resource, action string) bool {
	allowed, err := s.Enforce(EnforceRequest{Role: role, Resource: resource, Action: action})
	return err == nil && allowed
}

func (s *service) CanSeeAdminFeatures(role Role) bool {
	return s.Can(role, ResourceAdminFeatures, ActionView)
}

// IsEmployeeOnly is the gate for screens that only employees see.
func (s *service) IsEmployeeOnly(role Role) bool {
	return s.Can(role, ResourceEmployeeFeatures, ActionView)
}

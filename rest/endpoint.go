package rest

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type RateLimit struct {
	Max    int
	Window time.Duration
	Key    string
}

type Param struct {
	in        ParamLocation
	name      string
	paramType string
	required  bool
}

func NewQueryParam(name string, paramType QueryParamType, required ...bool) Param {
	requiredValue := false
	if len(required) > 0 {
		requiredValue = required[0]
	}
	return Param{
		in:        InQuery,
		name:      name,
		paramType: string(paramType),
		required:  requiredValue,
	}
}

func NewPathParam(name string, paramType PathParamType, required ...bool) Param {
	requiredValue := false
	if len(required) > 0 {
		requiredValue = required[0]
	}
	return Param{
		in:        InPath,
		name:      name,
		paramType: string(paramType),
		required:  requiredValue,
	}
}

type Endpoint struct {
	Name          string
	Method        EndpointMethod
	Path          string
	Handler       func(c *EndpointContext) error
	Disabled      bool             // If true, the endpoint is disabled and will not be accessible.
	BodyParams    func() Validable // Function that returns a Validable struct for body validation.
	RateLimiter   func(*EndpointContext) RateLimit
	ActionType    ActionType // e.g., "create", "read", "update", "delete". Used for logging.
	Model         string     // The related model or resource, e.g., "User", "Task". Used for logging.
	app           *RestApp
	Accepts       []Param
	AuditDisabled bool           // Disable audit logging for this endpoint
	MetaData      map[string]any // Additional metadata for the endpoint
}

func (ep *Endpoint) run(c echo.Context) error {
	if ep.Disabled {
		return NewErrorResponse(404, "Endpoint not found")
	}

	ctx := &EndpointContext{
		EchoCtx:   c,
		Endpoint:  ep,
		App:       ep.app,
		IpAddress: c.RealIP(),
		RequestID: uuid.NewString(),
	}

	err := parseBody(ep, ctx)
	if err != nil {
		return err
	}

	err = parseAllParams(ep, ctx)
	if err != nil {
		return err
	}

	err = ep.app.Authorize(ctx)
	if err != nil {
		return err
	}

	err = ep.app.Guard(ctx)
	if err != nil {
		return err
	}

	err = checkRateLimit(ctx)
	if err != nil {
		return err
	}

	if err := ep.Handler(ctx); err != nil {
		return err
	}

	return nil
}

package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type EndpointContext struct {
	App         *RestApp
	EchoCtx     echo.Context
	Endpoint    *Endpoint
	ParsedBody  any
	ParsedQuery map[string]any
	ParsedPath  map[string]any
	IpAddress   string
	RequestID   string
	Principal   Principal
}

func (eCtx *EndpointContext) Context() context.Context {
	return eCtx.EchoCtx.Request().Context()
}

// Path returns the request path as received, used for policy matching.
func (eCtx *EndpointContext) Path() string {
	return eCtx.EchoCtx.Request().URL.Path
}

// AuthorizationHeader returns the raw Authorization header value.
func (eCtx *EndpointContext) AuthorizationHeader() string {
	return eCtx.EchoCtx.Request().Header.Get(echo.HeaderAuthorization)
}

func (eCtx *EndpointContext) ValidateStruct(v any) error {
	if v == nil {
		return nil
	}
	return eCtx.App.ValidatorInstance.Struct(v)
}

func (eCtx *EndpointContext) SanitizeStruct(v any) error {
	if v == nil {
		return nil
	}

	return processStruct(v, "sanitize")
}

func (eCtx *EndpointContext) NormalizeStruct(v any) error {
	if v == nil {
		return nil
	}

	return processStruct(v, "normalize")
}

// RespondAndLog sends a response and logs the audit entry if enabled.
func (ctx *EndpointContext) RespondAndLog(response any, affectedModelId any, contentType ResponseType, statusCode ...int) error {
	if !ctx.Endpoint.AuditDisabled {
		if ctx.App.auditLogConfig.Enabled && ctx.App.auditLogConfig.Handler != nil {
			err := ctx.App.auditLogConfig.Handler(ctx, response, affectedModelId)
			if err != nil {
				ctx.App.Errorf("Failed to log audit: %v", err)
			}
		}
	}

	status := http.StatusOK
	if len(statusCode) > 0 {
		status = statusCode[0]
	}

	switch contentType {
	case ResponseTypeJSON:
		return ctx.EchoCtx.JSON(status, response)
	case ResponseTypeText:
		if str, ok := response.(string); ok {
			return ctx.EchoCtx.String(status, str)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "text response must be string")
	case ResponseTypeNoContent:
		return ctx.EchoCtx.NoContent(status)
	default:
		return echo.NewHTTPError(http.StatusNotAcceptable, "unsupported content type")
	}
}

// JSON sends a JSON response
func (ctx *EndpointContext) JSON(response any, statusCode ...int) error {
	status := http.StatusOK
	if len(statusCode) > 0 {
		status = statusCode[0]
	}

	return ctx.EchoCtx.JSON(status, response)
}

// Text sends a plain text response
func (ctx *EndpointContext) Text(response string, statusCode ...int) error {
	status := http.StatusOK
	if len(statusCode) > 0 {
		status = statusCode[0]
	}

	return ctx.EchoCtx.String(status, response)
}

// NoContent sends a 204 No Content response
func (ctx *EndpointContext) NoContent() error {
	return ctx.EchoCtx.NoContent(http.StatusNoContent)
}

// Get retrieves a value from the context by key
func (ctx *EndpointContext) Get(key string) any {
	return ctx.EchoCtx.Get(key)
}

// Set allows setting a value in the context
func (ctx *EndpointContext) Set(key string, value any) {
	ctx.EchoCtx.Set(key, value)
}

// QueryString returns a parsed string query parameter, or the empty string.
func (ctx *EndpointContext) QueryString(name string) string {
	if value, ok := ctx.ParsedQuery[name].(string); ok {
		return value
	}
	return ""
}

// QueryInt returns a parsed int query parameter with a default.
func (ctx *EndpointContext) QueryInt(name string, defaultValue int64) int64 {
	if value, ok := ctx.ParsedQuery[name].(int64); ok {
		return value
	}
	return defaultValue
}

// PathParam returns a parsed path parameter as a string.
func (ctx *EndpointContext) PathParam(name string) string {
	if value, ok := ctx.ParsedPath[name].(string); ok {
		return value
	}
	return ""
}

package rest

import (
	"io"
	"strconv"

	"github.com/bytedance/sonic"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Validable is an interface that defines a method for validating an endpoint context
type Validable interface {
	Validate(ctx *EndpointContext) error
}

// Sanitizeable is an interface that defines a method for sanitizing an endpoint context
type Sanitizeable interface {
	Sanitize(ctx *EndpointContext) error
}

// Normalizeable is an interface that defines a method for normalizing an endpoint context
type Normalizeable interface {
	Normalize(ctx *EndpointContext) error
}

// parseBody binds, normalizes, sanitizes and validates the request body when
// the endpoint declares one.
func parseBody(ep *Endpoint, ctx *EndpointContext) error {
	if ep.BodyParams == nil {
		return nil
	}

	body := ep.BodyParams()

	raw, err := io.ReadAll(ctx.EchoCtx.Request().Body)
	if err != nil {
		return NewErrorResponse(400, "Unable to read request body")
	}

	if len(raw) > 0 {
		if err := sonic.Unmarshal(raw, body); err != nil {
			return NewErrorResponse(400, "Invalid request body")
		}
	}

	ctx.ParsedBody = body

	return processBody(ctx)
}

func processBody(ctx *EndpointContext) error {
	body := ctx.ParsedBody
	if body == nil {
		return nil
	}

	if n, ok := body.(Normalizeable); ok {
		if err := n.Normalize(ctx); err != nil {
			return err
		}
	} else {
		if err := ctx.NormalizeStruct(body); err != nil {
			return err
		}
	}

	if s, ok := body.(Sanitizeable); ok {
		if err := s.Sanitize(ctx); err != nil {
			return err
		}
	} else {
		if err := ctx.SanitizeStruct(body); err != nil {
			return err
		}
	}

	if err := ctx.ValidateStruct(body); err != nil {
		return NewErrorResponse(400, "Validation failed", err.Error())
	}

	if v, ok := body.(Validable); ok {
		if err := v.Validate(ctx); err != nil {
			return err
		}
	}

	return nil
}

// parseAllParams validates and converts the declared query and path
// parameters into the typed ParsedQuery and ParsedPath maps.
func parseAllParams(ep *Endpoint, ctx *EndpointContext) error {
	ctx.ParsedQuery = map[string]any{}
	ctx.ParsedPath = map[string]any{}

	for _, param := range ep.Accepts {
		var raw string
		switch param.in {
		case InQuery:
			raw = ctx.EchoCtx.QueryParam(param.name)
		case InPath:
			raw = ctx.EchoCtx.Param(param.name)
		default:
			continue
		}

		if raw == "" {
			if param.required {
				return NewErrorResponse(400, "Missing required parameter: "+param.name)
			}
			continue
		}

		value, err := convertParam(raw, param.paramType)
		if err != nil {
			return NewErrorResponse(400, "Invalid value for parameter: "+param.name)
		}

		switch param.in {
		case InQuery:
			ctx.ParsedQuery[param.name] = value
		case InPath:
			ctx.ParsedPath[param.name] = value
		}
	}

	return nil
}

func convertParam(raw string, paramType string) (any, error) {
	switch paramType {
	case string(QueryParamTypeInt):
		return strconv.ParseInt(raw, 10, 64)
	case string(QueryParamTypeBool):
		return strconv.ParseBool(raw)
	case string(PathParamTypeObjectID):
		if _, err := bson.ObjectIDFromHex(raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return raw, nil
	}
}

package rest

type ResponseType string

const (
	ResponseTypeJSON      ResponseType = "json"
	ResponseTypeText      ResponseType = "text"
	ResponseTypeNoContent ResponseType = "no_content"
)

type EndpointMethod string

const (
	MethodHEAD   EndpointMethod = "Head"
	MethodGET    EndpointMethod = "Get"
	MethodPOST   EndpointMethod = "Post"
	MethodPUT    EndpointMethod = "Put"
	MethodPATCH  EndpointMethod = "Patch"
	MethodDELETE EndpointMethod = "Delete"
)

type ParamLocation string

const (
	InQuery ParamLocation = "query"
	InPath  ParamLocation = "path"
)

type QueryParamType string

const (
	QueryParamTypeString QueryParamType = "string"
	QueryParamTypeInt    QueryParamType = "int"
	QueryParamTypeBool   QueryParamType = "bool"
)

type PathParamType string

const (
	PathParamTypeString   PathParamType = "string"
	PathParamTypeObjectID PathParamType = "objectid"
)

type ActionType string

const (
	ActionTypeRead     ActionType = "read"
	ActionTypeCreate   ActionType = "create"
	ActionTypeUpdate   ActionType = "update"
	ActionTypeDelete   ActionType = "delete"
	ActionTypeLogin    ActionType = "login"
	ActionTypeRegister ActionType = "register"
)

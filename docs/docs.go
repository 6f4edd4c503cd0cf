// Package docs builds the OpenAPI 2.0 document served under /swagger and registers
// it with swag. Resource paths are derived from the resource descriptors, so a
// resource added to AllDescriptors is documented without further changes.
package docs

import (
	"encoding/json"
	"net/http"

	"github.com/go-openapi/spec"
	"github.com/swaggo/swag"

	"github.com/tallymatic/tallymatic-api/types"
)

const bearerAuth = "BearerAuth"

// AllDescriptors lists the resources mounted under the authenticated /v1 group.
var AllDescriptors = []types.ResourceDescriptor{
	types.UserResource,
	types.ProductResource,
	types.ProductTypeResource,
	types.ProductOptionResource,
	types.ProductVariantResource,
	types.StoreResource,
	types.InventoryItemResource,
}

// SwaggerInfo holds the exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Tallymatic API",
	Description:      "Catalog and inventory management API.",
	InfoInstanceName: "swagger",
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	raw, err := json.Marshal(Document())
	if err != nil {
		panic(err)
	}
	SwaggerInfo.SwaggerTemplate = string(raw)
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Document returns the API description.
func Document() *spec.Swagger {
	paths := map[string]spec.PathItem{}
	addAuthPaths(paths)
	for _, d := range AllDescriptors {
		addResourcePaths(paths, d)
	}
	me := spec.NewOperation("getMe").
		WithSummary("Get the signed-in user").
		WithTags(types.UserResource.Plural).
		WithProduces("application/json").
		SecuredWith(bearerAuth).
		RespondsWith(http.StatusOK, envelope(types.UserResource.Singular)).
		RespondsWith(http.StatusUnauthorized, errorResponse("Please authenticate"))
	paths[types.UserResource.Path+"/me"] = spec.PathItem{PathItemProps: spec.PathItemProps{Get: me}}

	return &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger: "2.0",
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       SwaggerInfo.Title,
			Description: SwaggerInfo.Description,
			Version:     SwaggerInfo.Version,
		}},
		BasePath: SwaggerInfo.BasePath,
		Consumes: []string{"application/json"},
		Produces: []string{"application/json"},
		Paths:    &spec.Paths{Paths: paths},
		Definitions: spec.Definitions{
			"ErrorResponse": *errorSchema(),
		},
		SecurityDefinitions: spec.SecurityDefinitions{
			bearerAuth: spec.APIKeyAuth("Authorization", "header"),
		},
	}}
}

func addResourcePaths(paths map[string]spec.PathItem, d types.ResourceDescriptor) {
	tag := d.Plural
	id := spec.PathParam("id").Typed("string", "uuid").WithDescription(d.Label + " id")

	list := operation("list"+d.Plural, "List "+d.Plural, tag).
		AddParam(spec.QueryParam("sortBy").Typed("string", "").WithDescription("field:asc or field:desc, comma separated")).
		AddParam(spec.QueryParam("limit").Typed("integer", "int32").WithDescription("page size, at most 100")).
		AddParam(spec.QueryParam("page").Typed("integer", "int32").WithDescription("1-based page number")).
		AddParam(spec.QueryParam("projectBy").Typed("string", "").WithDescription("field:include or field:hide, comma separated")).
		RespondsWith(http.StatusOK, listEnvelope(d.Plural))
	for _, field := range d.Filters {
		list.AddParam(spec.QueryParam(field).Typed("string", "").WithDescription("equality filter"))
	}

	create := operation("create"+d.Singular, "Create a "+d.Label, tag).
		AddParam(spec.BodyParam("body", spec.MapProperty(nil)).AsRequired()).
		RespondsWith(http.StatusCreated, envelope(d.Singular)).
		RespondsWith(http.StatusBadRequest, errorResponse("Invalid request body"))

	get := operation("get"+d.Singular, "Get a "+d.Label, tag).
		AddParam(id).
		RespondsWith(http.StatusOK, envelope(d.Singular)).
		RespondsWith(http.StatusNotFound, errorResponse(d.Label+" not found"))

	update := operation("update"+d.Singular, "Update a "+d.Label, tag).
		AddParam(id).
		AddParam(spec.BodyParam("body", spec.MapProperty(nil)).AsRequired()).
		RespondsWith(http.StatusOK, envelope(d.Singular)).
		RespondsWith(http.StatusBadRequest, errorResponse("Invalid request body")).
		RespondsWith(http.StatusNotFound, errorResponse(d.Label+" not found"))

	remove := operation("delete"+d.Singular, "Delete a "+d.Label, tag).
		AddParam(id).
		AddParam(spec.HeaderParam("Prefer").Typed("string", "").WithDescription("return=representation answers 200 with a confirmation")).
		RespondsWith(http.StatusNoContent, spec.NewResponse().WithDescription("Deleted")).
		RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("Deletion confirmation").WithSchema(
			new(spec.Schema).Typed("object", "").
				SetProperty("id", *spec.StringProperty()).
				SetProperty("object", *spec.StringProperty()).
				SetProperty("deleted", *spec.BoolProperty()))).
		RespondsWith(http.StatusNotFound, errorResponse(d.Label+" not found"))

	for _, op := range []*spec.Operation{list, create, get, update, remove} {
		op.SecuredWith(bearerAuth).
			RespondsWith(http.StatusUnauthorized, errorResponse("Please authenticate")).
			RespondsWith(http.StatusForbidden, errorResponse("Forbidden"))
	}

	paths[d.Path] = spec.PathItem{PathItemProps: spec.PathItemProps{Get: list, Post: create}}
	paths[d.Path+"/{id}"] = spec.PathItem{PathItemProps: spec.PathItemProps{Get: get, Patch: update, Delete: remove}}
}

func addAuthPaths(paths map[string]spec.PathItem) {
	body := func(props ...string) *spec.Parameter {
		schema := new(spec.Schema).Typed("object", "").WithRequired(props...)
		for _, p := range props {
			schema.SetProperty(p, *spec.StringProperty())
		}
		return spec.BodyParam("body", schema).AsRequired()
	}
	token := spec.QueryParam("token").Typed("string", "").AsRequired()
	done := spec.NewResponse().WithDescription("No content")

	auth := map[string]*spec.Operation{
		"/auth/register": operation("register", "Register a user", "auth").
			AddParam(body("name", "email", "password")).
			RespondsWith(http.StatusCreated, spec.NewResponse().WithDescription("User and tokens")).
			RespondsWith(http.StatusBadRequest, errorResponse("Email already taken")),
		"/auth/login": operation("login", "Log in with email and password", "auth").
			AddParam(body("email", "password")).
			RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("User and tokens")).
			RespondsWith(http.StatusUnauthorized, errorResponse("Incorrect email or password")),
		"/auth/logout": operation("logout", "Revoke a refresh token", "auth").
			AddParam(body("refreshToken")).
			RespondsWith(http.StatusNoContent, done).
			RespondsWith(http.StatusNotFound, errorResponse("Not found")),
		"/auth/refresh-tokens": operation("refreshTokens", "Rotate a refresh token", "auth").
			AddParam(body("refreshToken")).
			RespondsWith(http.StatusOK, spec.NewResponse().WithDescription("New token pair")).
			RespondsWith(http.StatusUnauthorized, errorResponse("Please authenticate")),
		"/auth/forgot-password": operation("forgotPassword", "Send a password reset email", "auth").
			AddParam(body("email")).
			RespondsWith(http.StatusNoContent, done).
			RespondsWith(http.StatusNotFound, errorResponse("No users found with this email")),
		"/auth/reset-password": operation("resetPassword", "Set a new password", "auth").
			AddParam(token).
			AddParam(body("password")).
			RespondsWith(http.StatusNoContent, done).
			RespondsWith(http.StatusUnauthorized, errorResponse("Password reset failed")),
		"/auth/send-verification-email": operation("sendVerificationEmail", "Email a verification link to the signed-in user", "auth").
			SecuredWith(bearerAuth).
			RespondsWith(http.StatusNoContent, done).
			RespondsWith(http.StatusUnauthorized, errorResponse("Please authenticate")),
		"/auth/verify-email": operation("verifyEmail", "Mark the email of the token owner as verified", "auth").
			AddParam(token).
			RespondsWith(http.StatusNoContent, done).
			RespondsWith(http.StatusUnauthorized, errorResponse("Email verification failed")),
	}
	for path, op := range auth {
		paths[path] = spec.PathItem{PathItemProps: spec.PathItemProps{Post: op}}
	}
}

func operation(id, summary, tag string) *spec.Operation {
	return spec.NewOperation(id).
		WithSummary(summary).
		WithTags(tag).
		WithConsumes("application/json").
		WithProduces("application/json")
}

func envelope(key string) *spec.Response {
	schema := new(spec.Schema).Typed("object", "").SetProperty(key, *spec.MapProperty(nil))
	return spec.NewResponse().WithDescription("OK").WithSchema(schema)
}

func listEnvelope(key string) *spec.Response {
	schema := new(spec.Schema).Typed("object", "").
		SetProperty(key, *spec.ArrayProperty(spec.MapProperty(nil))).
		SetProperty("count", *spec.Int64Property()).
		SetProperty("offset", *spec.Int32Property()).
		SetProperty("limit", *spec.Int32Property())
	return spec.NewResponse().WithDescription("OK").WithSchema(schema)
}

func errorResponse(description string) *spec.Response {
	return spec.NewResponse().WithDescription(description).WithSchema(spec.RefSchema("#/definitions/ErrorResponse"))
}

func errorSchema() *spec.Schema {
	return new(spec.Schema).Typed("object", "").
		WithRequired("code", "type", "message").
		SetProperty("code", *spec.Int32Property()).
		SetProperty("type", *spec.StringProperty()).
		SetProperty("message", *spec.StringProperty()).
		SetProperty("details", *spec.StringProperty()).
		SetProperty("stack", *spec.StringProperty())
}

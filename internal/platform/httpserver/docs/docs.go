// Package docs provides the swagger document served at /swagger/doc.json.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/access/v1/identities/{identity_id}/access": {
            "get": {
                "produces": ["application/json"],
                "tags": ["access"],
                "summary": "Unified access view for one identity",
                "parameters": [
                    {"type": "string", "name": "identity_id", "in": "path", "required": true},
                    {"type": "string", "name": "segment", "in": "query", "description": "all | external | internal"},
                    {"type": "string", "name": "q", "in": "query", "description": "case-insensitive name filter"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/access/v1/identities/{identity_id}/access/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["access"],
                "summary": "CSV export of the unified access view",
                "parameters": [
                    {"type": "string", "name": "identity_id", "in": "path", "required": true},
                    {"type": "string", "name": "segment", "in": "query"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/access/v1/identities/{identity_id}/licenses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["licenses"],
                "summary": "License cost panel for one identity",
                "parameters": [
                    {"type": "string", "name": "identity_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/access/v1/identities/{identity_id}/licenses/export": {
            "get": {
                "produces": ["text/csv"],
                "tags": ["licenses"],
                "summary": "CSV export of the license panel",
                "parameters": [
                    {"type": "string", "name": "identity_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/access/v1/applications/{application_name}/assignments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Principals holding a seat on one application",
                "parameters": [
                    {"type": "string", "name": "application_name", "in": "path", "required": true},
                    {"type": "string", "name": "segment", "in": "query", "description": "all | employee | managed_account"},
                    {"type": "string", "name": "q", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/access/v1/assignments": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Assign a principal to an application seat",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"},
                    "409": {"description": "Conflict"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/access/v1/assignments/{assignment_id}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["assignments"],
                "summary": "Remove one seat assignment",
                "parameters": [
                    {"type": "string", "name": "assignment_id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/access/v1/catalog/{application_name}/cost": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Set per-seat cost and seat count for one catalog entry",
                "parameters": [
                    {"type": "string", "name": "application_name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Unprocessable Entity"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/api/access/v1/sync-jobs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["sync"],
                "summary": "Background sync jobs with derived statuses and poll hint",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "accessdeck API",
	Description:      "Access and license reconciliation for the internal admin console.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/google/url": {"get": {"tags": ["Auth"], "summary": "Google sign-in URL", "responses": {"200": {"description": "OK"}}}},
        "/auth/google/callback": {"get": {"tags": ["Auth"], "summary": "Google sign-in callback", "responses": {"302": {"description": "Redirect"}, "403": {"description": "Access Denied"}}}},
        "/auth/login/code": {"post": {"tags": ["Auth"], "summary": "Role code login", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid code"}}}},
        "/auth/refresh": {"post": {"tags": ["Auth"], "summary": "Refresh access token", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["Auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}},
        "/auth/logout-all": {"post": {"tags": ["Auth"], "summary": "Logout from all devices", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/auth/session": {"get": {"tags": ["Auth"], "summary": "Session state", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"tags": ["Auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/access": {"get": {"tags": ["Access"], "summary": "Modules of the current role", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/access/roles": {"get": {"tags": ["Access"], "summary": "Role access table", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/dashboard": {"get": {"tags": ["Dashboard"], "summary": "Dashboard for the current role", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/changes/stream": {"get": {"tags": ["Realtime"], "summary": "Change notifications", "produces": ["text/event-stream"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "event stream"}}}},
        "/calculator/rates": {"get": {"tags": ["Calculator"], "summary": "Rate table", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/calculator/calculate": {"post": {"tags": ["Calculator"], "summary": "Calculate material price", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/cashflow": {
            "get": {"tags": ["Cashflow"], "summary": "Cash-flow ledger", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Cashflow"], "summary": "Add cash-flow entry", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/cashflow/export": {"get": {"tags": ["Cashflow"], "summary": "Export ledger", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "xlsx workbook"}}}},
        "/cashflow/export/archive": {"post": {"tags": ["Cashflow"], "summary": "Archive ledger export", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "503": {"description": "Not configured"}}}},
        "/cashflow/stream": {"get": {"tags": ["Cashflow"], "summary": "Ledger change stream", "produces": ["text/event-stream"], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "event stream"}}}},
        "/transactions": {
            "get": {"tags": ["Transactions"], "summary": "List transactions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Transactions"], "summary": "Create transaction", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/transactions/summary": {"get": {"tags": ["Transactions"], "summary": "Transaction summary", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/transactions/{id}": {"get": {"tags": ["Transactions"], "summary": "Get transaction", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/transactions/{id}/status": {"patch": {"tags": ["Transactions"], "summary": "Update transaction status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/parties": {
            "get": {"tags": ["Parties"], "summary": "List parties", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Parties"], "summary": "Create party", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/parties/{id}": {
            "get": {"tags": ["Parties"], "summary": "Get party", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Parties"], "summary": "Update party", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/parties/{id}/toggle-status": {"patch": {"tags": ["Parties"], "summary": "Toggle party status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/materials": {
            "get": {"tags": ["Materials"], "summary": "List materials", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Materials"], "summary": "Create material", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/materials/{id}": {
            "get": {"tags": ["Materials"], "summary": "Get material", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Materials"], "summary": "Update material", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/materials/{id}/toggle-status": {"patch": {"tags": ["Materials"], "summary": "Toggle material status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/base-companies": {
            "get": {"tags": ["Base Companies"], "summary": "List base companies", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Base Companies"], "summary": "Create base company", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/base-companies/nickname-availability": {"get": {"tags": ["Base Companies"], "summary": "Check nickname availability", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/base-companies/{id}": {
            "get": {"tags": ["Base Companies"], "summary": "Get base company", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Base Companies"], "summary": "Update base company", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/base-companies/{id}/toggle-status": {"patch": {"tags": ["Base Companies"], "summary": "Toggle base company status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/tankers": {
            "get": {"tags": ["Tankers"], "summary": "List tankers", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Tankers"], "summary": "Create tanker", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/tankers/transporters": {"get": {"tags": ["Tankers"], "summary": "Transporter suggestions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/tankers/{id}": {
            "get": {"tags": ["Tankers"], "summary": "Get tanker", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["Tankers"], "summary": "Update tanker", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/tankers/{id}/toggle-status": {"patch": {"tags": ["Tankers"], "summary": "Toggle tanker status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/users": {
            "get": {"tags": ["Users"], "summary": "List approved users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Users"], "summary": "Approve a user", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/users/stats": {"get": {"tags": ["Users"], "summary": "User statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/users/{id}": {"get": {"tags": ["Users"], "summary": "Get user", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/users/{id}/status": {"patch": {"tags": ["Users"], "summary": "Update user status", "security": [{"BearerAuth": []}], "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "VPCS API",
	Description:      "Vendor Payment & Control System API: material pricing, cash-flow ledger and master data",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

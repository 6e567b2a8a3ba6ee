// Package docs holds the OpenAPI document served under /swagger.
// Regenerate it from the handler annotations with swag init.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [{"url": "{{.BasePath}}"}],
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "apiKey",
                "in": "header",
                "name": "Authorization",
                "description": "Bearer token authentication. Format: \"Bearer {token}\""
            }
        },
        "schemas": {
            "ErrorInfo": {
                "type": "object",
                "properties": {
                    "code": {"type": "string"},
                    "message": {"type": "string"},
                    "request_id": {"type": "string"},
                    "product_id": {"type": "integer"},
                    "details": {
                        "type": "array",
                        "items": {
                            "type": "object",
                            "properties": {
                                "field": {"type": "string"},
                                "message": {"type": "string"}
                            }
                        }
                    }
                }
            },
            "Response": {
                "type": "object",
                "properties": {
                    "success": {"type": "boolean"},
                    "data": {},
                    "error": {"$ref": "#/components/schemas/ErrorInfo"},
                    "meta": {
                        "type": "object",
                        "properties": {
                            "total": {"type": "integer"},
                            "page": {"type": "integer"},
                            "page_size": {"type": "integer"},
                            "total_pages": {"type": "integer"}
                        }
                    }
                }
            },
            "LoginRequest": {
                "type": "object",
                "required": ["email", "password"],
                "properties": {
                    "email": {"type": "string", "maxLength": 100},
                    "password": {"type": "string", "maxLength": 128}
                }
            },
            "CartLineRequest": {
                "type": "object",
                "required": ["product_id", "quantity"],
                "properties": {
                    "product_id": {"type": "integer", "exclusiveMinimum": 0},
                    "quantity": {"type": "integer", "exclusiveMinimum": 0}
                }
            },
            "CommitSaleRequest": {
                "type": "object",
                "required": ["lines"],
                "properties": {
                    "client_id": {"type": "integer", "exclusiveMinimum": 0},
                    "lines": {
                        "type": "array",
                        "minItems": 1,
                        "items": {"$ref": "#/components/schemas/CartLineRequest"}
                    }
                }
            },
            "CommitResult": {
                "type": "object",
                "properties": {
                    "id": {"type": "integer"},
                    "total": {"type": "string"},
                    "created_at": {"type": "string", "format": "date-time"},
                    "line_count": {"type": "integer"},
                    "replayed": {"type": "boolean"}
                }
            },
            "DocumentHandle": {
                "type": "object",
                "properties": {
                    "sale_id": {"type": "integer"},
                    "key": {"type": "string"},
                    "path": {"type": "string"},
                    "url": {"type": "string"},
                    "size": {"type": "integer"},
                    "page_count": {"type": "integer"},
                    "rendered_at": {"type": "string", "format": "date-time"}
                }
            }
        }
    },
    "paths": {
        "/health": {
            "get": {
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Staff login",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LoginRequest"}}}
                },
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Staff logout",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/sales": {
            "post": {
                "tags": ["sales"],
                "summary": "Commit a sale",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "Idempotency-Key", "in": "header", "schema": {"type": "string"}}
                ],
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CommitSaleRequest"}}}
                },
                "responses": {
                    "201": {"description": "Created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CommitResult"}}}},
                    "200": {"description": "Replayed commit"},
                    "400": {"description": "Bad Request"},
                    "409": {"description": "Commit with this key in progress"},
                    "422": {"description": "Insufficient stock"},
                    "503": {"description": "Busy, retry"}
                }
            },
            "get": {
                "tags": ["sales"],
                "summary": "List sales",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "schema": {"type": "integer", "default": 1}},
                    {"name": "page_size", "in": "query", "schema": {"type": "integer", "default": 20}},
                    {"name": "order_dir", "in": "query", "schema": {"type": "string", "enum": ["asc", "desc"]}},
                    {"name": "search", "in": "query", "schema": {"type": "string"}}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/sales/{id}": {
            "get": {
                "tags": ["sales"],
                "summary": "Get a sale",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/sales/{id}/receipt": {
            "post": {
                "tags": ["sales"],
                "summary": "Render a receipt",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
                "responses": {
                    "200": {"description": "OK", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DocumentHandle"}}}},
                    "404": {"description": "Not Found"},
                    "500": {"description": "Render failed"}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Get a product by id",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/products/code/{code}": {
            "get": {
                "tags": ["catalog"],
                "summary": "Get a product by code",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "code", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/clients/code/{code}": {
            "get": {
                "tags": ["clients"],
                "summary": "Get a client by DNI/RUC",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "code", "in": "path", "required": true, "schema": {"type": "string"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "POS Backend API",
	Description:      "Point-of-sale backend: atomic sale commits, sale ledger and receipts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

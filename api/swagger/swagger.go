package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CityPages Directory API",
        "description": "Business directory backend: public search, ownership claims, featured promotions, and admin tooling",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "tags": [
        {"name": "Directory", "description": "Public listing search and facets"},
        {"name": "Authentication", "description": "Login and token lifecycle"},
        {"name": "Businesses", "description": "Admin listing management"},
        {"name": "Ownership claims", "description": "Claim and transfer listing ownership"},
        {"name": "Featured requests", "description": "Listing promotion workflow"},
        {"name": "Social links", "description": "Site-wide social profiles"},
        {"name": "Exports", "description": "Asynchronous dataset exports"}
    ],
    "paths": {
        "/businesses": {
            "get": {
                "tags": ["Directory"],
                "summary": "Search active listings",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "city", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "featured", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/businesses/{id}": {
            "get": {
                "tags": ["Directory"],
                "summary": "Get one listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/categories": {
            "get": {
                "tags": ["Directory"],
                "summary": "List categories with listing counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/cities": {
            "get": {
                "tags": ["Directory"],
                "summary": "List cities with listing counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/social-links": {
            "get": {
                "tags": ["Social links"],
                "summary": "List active social links",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid refresh token"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/ownership-claims": {
            "get": {
                "tags": ["Ownership claims"],
                "summary": "List the caller's claims",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Ownership claims"],
                "summary": "Submit an ownership claim",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClaimRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/featured-requests": {
            "get": {
                "tags": ["Featured requests"],
                "summary": "List the caller's featured requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Featured requests"],
                "summary": "Request promotion for an owned listing",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFeaturedRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Not the owner, already featured, or pending request exists"},
                    "404": {"description": "Business not found"}
                }
            }
        },
        "/featured-requests/user/{id}": {
            "get": {
                "tags": ["Featured requests"],
                "summary": "List featured requests for a specific user",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/admin/businesses": {
            "post": {
                "tags": ["Businesses"],
                "summary": "Create a business listing",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBusinessRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/businesses/{id}": {
            "put": {
                "tags": ["Businesses"],
                "summary": "Update a business listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBusinessRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Businesses"],
                "summary": "Update a business listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBusinessRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Businesses"],
                "summary": "Delete a business listing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/admin/businesses/bulk-delete": {
            "post": {
                "tags": ["Businesses"],
                "summary": "Delete multiple business listings",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkDeleteBusinessesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Empty id list"}
                }
            }
        },
        "/admin/ownership-claims": {
            "get": {
                "tags": ["Ownership claims"],
                "summary": "List claims across all users",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "business_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/ownership-claims/{id}/approve": {
            "post": {
                "tags": ["Ownership claims"],
                "summary": "Approve an ownership claim",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ResolveClaimRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"},
                    "409": {"description": "Already resolved"}
                }
            }
        },
        "/admin/ownership-claims/{id}/reject": {
            "post": {
                "tags": ["Ownership claims"],
                "summary": "Reject an ownership claim",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/ResolveClaimRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"},
                    "409": {"description": "Already resolved"}
                }
            }
        },
        "/admin/featured-requests/{id}/review": {
            "put": {
                "tags": ["Featured requests"],
                "summary": "Approve or reject a featured request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReviewFeaturedRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"},
                    "409": {"description": "Already resolved"}
                }
            }
        },
        "/admin/social-media/bulk-action": {
            "post": {
                "tags": ["Social links"],
                "summary": "Apply a bulk action to social links",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SocialBulkActionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown action or empty list"}
                }
            }
        },
        "/admin/exports": {
            "post": {
                "tags": ["Exports"],
                "summary": "Queue a dataset export",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateExportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "RefreshTokenRequest": {
            "type": "object",
            "properties": {
                "refresh_token": {"type": "string"}
            },
            "required": ["refresh_token"]
        },
        "CreateBusinessRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "category": {"type": "string"},
                "city": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "website": {"type": "string"},
                "email": {"type": "string"},
                "description": {"type": "string"},
                "owner_id": {"type": "string"}
            },
            "required": ["title", "category", "city"]
        },
        "UpdateBusinessRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "category": {"type": "string"},
                "city": {"type": "string"},
                "address": {"type": "string"},
                "phone": {"type": "string"},
                "website": {"type": "string"},
                "email": {"type": "string"},
                "description": {"type": "string"},
                "owner_id": {"type": "string"},
                "featured": {"type": "boolean"},
                "status": {"type": "string"}
            }
        },
        "BulkDeleteBusinessesRequest": {
            "type": "object",
            "properties": {
                "business_ids": {
                    "type": "array",
                    "items": {"type": "string"}
                }
            },
            "required": ["business_ids"]
        },
        "CreateClaimRequest": {
            "type": "object",
            "properties": {
                "business_id": {"type": "string"},
                "message": {"type": "string"}
            },
            "required": ["business_id", "message"]
        },
        "ResolveClaimRequest": {
            "type": "object",
            "properties": {
                "admin_message": {"type": "string"}
            }
        },
        "CreateFeaturedRequest": {
            "type": "object",
            "properties": {
                "business_id": {"type": "string"},
                "message": {"type": "string"}
            },
            "required": ["business_id"]
        },
        "ReviewFeaturedRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["APPROVED", "REJECTED"]},
                "admin_message": {"type": "string"}
            },
            "required": ["status"]
        },
        "SocialBulkActionRequest": {
            "type": "object",
            "properties": {
                "link_ids": {
                    "type": "array",
                    "items": {"type": "integer"}
                },
                "action": {"type": "string", "enum": ["activate", "deactivate", "toggle", "delete"]}
            },
            "required": ["link_ids", "action"]
        },
        "CreateExportRequest": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "enum": ["businesses", "claims"]},
                "format": {"type": "string", "enum": ["csv", "pdf"]},
                "category": {"type": "string"},
                "city": {"type": "string"},
                "status": {"type": "string"}
            },
            "required": ["kind", "format"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}

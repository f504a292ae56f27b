package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Library Desk API",
        "description": "School library circulation desk backend",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Loans", "description": "Borrow ledger"},
        {"name": "Members", "description": "Member directory"},
        {"name": "Shelf", "description": "Book shelf catalog"},
        {"name": "Statistics", "description": "Dashboard aggregates"},
        {"name": "Books", "description": "External ISBN lookup"},
        {"name": "Auth", "description": "Staff authentication"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/list-students": {
            "get": {
                "tags": ["Loans"],
                "summary": "List all loans",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/search-students": {
            "get": {
                "tags": ["Loans"],
                "summary": "Search loans by member name",
                "parameters": [
                    {"name": "name", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/add-student": {
            "post": {
                "tags": ["Loans"],
                "summary": "Open a borrow record",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateLoanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Member already has an active loan", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/return-book/{id}": {
            "delete": {
                "tags": ["Loans"],
                "summary": "Close a loan by returning the book",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Loan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/extend-return-date/{id}": {
            "put": {
                "tags": ["Loans"],
                "summary": "Push back a loan due date",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExtendLoanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Loan not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/update-student-status": {
            "put": {
                "tags": ["Loans"],
                "summary": "Recompute the overdue flag for every loan",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/get-members": {
            "get": {
                "tags": ["Members"],
                "summary": "List all members",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/add/member": {
            "put": {
                "tags": ["Members"],
                "summary": "Register a member",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterMemberRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate member", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/edit-member/{id}": {
            "put": {
                "tags": ["Members"],
                "summary": "Edit a member by stud_id",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateMemberRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/revoke-member/{id}": {
            "delete": {
                "tags": ["Members"],
                "summary": "Revoke a member by stud_id",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK, or refusal body when the member has an active loan"},
                    "404": {"description": "Member not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shelf-item": {
            "get": {
                "tags": ["Shelf"],
                "summary": "List shelf items",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/add-shelf": {
            "put": {
                "tags": ["Shelf"],
                "summary": "Shelve a book",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddShelfRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Book already shelved", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shelf-item/{id}": {
            "delete": {
                "tags": ["Shelf"],
                "summary": "Remove a shelf item",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Shelf item not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Book currently borrowed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/get-statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Aggregate library statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/book/{isbn}": {
            "get": {
                "tags": ["Books"],
                "summary": "Look up a book by ISBN",
                "parameters": [
                    {"name": "isbn", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No book for ISBN", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Staff login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "CreateLoanRequest": {
            "type": "object",
            "properties": {
                "stud_id": {"type": "string"},
                "name": {"type": "string"},
                "age": {"type": "integer"},
                "grade": {"type": "string"},
                "section": {"type": "string"},
                "duration": {"type": "string", "enum": ["3-days", "1-week", "2-weeks", "1-month"]},
                "is_good": {"type": "boolean"},
                "book": {"type": "object"},
                "return_date": {"$ref": "#/definitions/ReturnDateInput"}
            },
            "required": ["stud_id", "name", "age", "grade", "section", "duration", "is_good", "book", "return_date"]
        },
        "ReturnDateInput": {
            "type": "object",
            "properties": {
                "year": {"type": "integer"},
                "month": {"type": "integer"},
                "day": {"type": "integer"}
            }
        },
        "ExtendLoanRequest": {
            "type": "object",
            "properties": {
                "new_return_date": {"type": "string", "format": "date"}
            },
            "required": ["new_return_date"]
        },
        "RegisterMemberRequest": {
            "type": "object",
            "properties": {
                "stud_id": {"type": "string"},
                "name": {"type": "string"},
                "parent_phone": {"type": "integer"},
                "age": {"type": "integer"},
                "grade": {"type": "string"},
                "section": {"type": "string"}
            },
            "required": ["stud_id", "name", "parent_phone", "age", "grade", "section"]
        },
        "UpdateMemberRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "parent_phone": {"type": "integer"},
                "age": {"type": "integer"},
                "grade": {"type": "string"},
                "section": {"type": "string"},
                "score": {"type": "integer"}
            }
        },
        "AddShelfRequest": {
            "type": "object",
            "properties": {
                "book": {"type": "object"}
            },
            "required": ["book"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
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

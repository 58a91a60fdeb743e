package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Horario Planner API",
        "description": "Course catalog, conflict detection and schedule combination search",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Catalog", "description": "Faculties, schools, courses and their weekly blocks"},
        {"name": "Planner", "description": "Conflict reports, scoring and combination search"},
        {"name": "Admin", "description": "Catalog import and cache maintenance"}
    ],
    "paths": {
        "/faculties": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List faculties",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/faculties/{id}/schools": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the schools of a faculty",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schools/{id}/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the courses of a school",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Search courses",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "school", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string", "enum": ["MANDATORY", "ELECTIVE", "UNKNOWN"]},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/courses/{id}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Get a course with its weekly blocks",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/time-blocks/day/{day}": {
            "get": {
                "tags": ["Catalog"],
                "summary": "List the blocks taught on a day",
                "parameters": [
                    {"name": "day", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unrecognized day", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/stats": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Catalog coverage statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/catalog/initial": {
            "get": {
                "tags": ["Catalog"],
                "summary": "Faculties, schools and courses in one payload",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/conflicts": {
            "post": {
                "tags": ["Planner"],
                "summary": "Report overlapping blocks in a course selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Selection"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/score": {
            "post": {
                "tags": ["Planner"],
                "summary": "Score a course selection",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Selection"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/combinations": {
            "post": {
                "tags": ["Planner"],
                "summary": "Generate ranked conflict-free combinations",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CombinationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/timetable": {
            "post": {
                "tags": ["Planner"],
                "summary": "Lay a selection out on the weekly grid",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/planner/export": {
            "post": {
                "tags": ["Planner"],
                "summary": "Download the timetable of a selection",
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"], "default": "csv"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/catalog/import": {
            "post": {
                "tags": ["Admin"],
                "summary": "Queue a catalog import",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data", "application/json"],
                "parameters": [
                    {"name": "files", "in": "formData", "type": "file"},
                    {"name": "semester", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Import already running", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/catalog/import/{id}": {
            "get": {
                "tags": ["Admin"],
                "summary": "Get a catalog import run",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/cache": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Drop every cached catalog read",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/metrics": {
            "get": {
                "tags": ["Admin"],
                "summary": "Aggregated runtime counters",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RawTimeBlock": {
            "type": "object",
            "properties": {
                "day": {"type": "string", "example": "LU"},
                "start": {"type": "string", "example": "08:00"},
                "end": {"type": "string", "example": "10:00"},
                "range": {"type": "string", "example": "[08-10]"},
                "room": {"type": "string"},
                "instructor": {"type": "string"},
                "group": {"type": "string"},
                "type": {"type": "string", "example": "T"}
            },
            "required": ["day"]
        },
        "CourseInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "credits": {"type": "integer"},
                "type": {"type": "string"},
                "category": {"type": "string", "enum": ["MANDATORY", "ELECTIVE", "UNKNOWN"]},
                "blocks": {"type": "array", "items": {"$ref": "#/definitions/RawTimeBlock"}}
            },
            "required": ["id"]
        },
        "Selection": {
            "type": "object",
            "properties": {
                "courseIds": {"type": "array", "items": {"type": "string"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}}
            }
        },
        "CombinationRequest": {
            "type": "object",
            "properties": {
                "courseIds": {"type": "array", "items": {"type": "string"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}},
                "maxCombinations": {"type": "integer"},
                "maxCoursesPerCombination": {"type": "integer"},
                "preview": {"type": "integer"}
            }
        },
        "TimetableRequest": {
            "type": "object",
            "properties": {
                "courseIds": {"type": "array", "items": {"type": "string"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}},
                "fromHour": {"type": "integer"},
                "toHour": {"type": "integer"}
            }
        },
        "ExportRequest": {
            "type": "object",
            "properties": {
                "courseIds": {"type": "array", "items": {"type": "string"}},
                "courses": {"type": "array", "items": {"$ref": "#/definitions/CourseInput"}},
                "title": {"type": "string"}
            }
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

// Package docs holds the OpenAPI document of the course feedback API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/auth/login": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Log in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AuthResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"429": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/LoginRequest"
						}
					}
				]
			}
		},
		"/auth/register": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Register a student account",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/AuthResponse"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/RegisterRequest"
						}
					}
				]
			}
		},
		"/auth/me": {
			"get": {
				"tags": [
					"auth"
				],
				"summary": "Current user profile",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/User"
						}
					},
					"401": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/courses": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "Courses visible to the caller",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/CourseListItem"
							}
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"courses"
				],
				"summary": "Create a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/Course"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CourseRequest"
						}
					}
				]
			}
		},
		"/courses/{id}": {
			"get": {
				"tags": [
					"courses"
				],
				"summary": "Course with materials and active forms",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			},
			"put": {
				"tags": [
					"courses"
				],
				"summary": "Update a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/Course"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CourseRequest"
						}
					}
				]
			},
			"delete": {
				"tags": [
					"courses"
				],
				"summary": "Deactivate a course",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/courses/{id}/enroll": {
			"post": {
				"tags": [
					"courses"
				],
				"summary": "Enroll the calling student",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/courses/{id}/materials": {
			"post": {
				"tags": [
					"courses"
				],
				"summary": "Attach a material",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/materials/{id}": {
			"delete": {
				"tags": [
					"courses"
				],
				"summary": "Delete a material",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/courses/{id}/forms": {
			"post": {
				"tags": [
					"forms"
				],
				"summary": "Create a feedback form",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CreateFormRequest"
						}
					}
				]
			}
		},
		"/forms/{id}": {
			"get": {
				"tags": [
					"forms"
				],
				"summary": "Get a feedback form",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/forms/{id}/submit": {
			"post": {
				"tags": [
					"forms"
				],
				"summary": "Submit feedback",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK"
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/SubmitRequest"
						}
					}
				]
			}
		},
		"/courses/{id}/analytics": {
			"get": {
				"tags": [
					"analytics"
				],
				"summary": "Course analytics",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/CourseAnalytics"
						}
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/teacher/analytics": {
			"get": {
				"tags": [
					"analytics"
				],
				"summary": "Overview of the calling teacher's courses",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/teacher/analytics/export": {
			"get": {
				"tags": [
					"analytics"
				],
				"summary": "Teacher overview as an xlsx workbook",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/trends/{teacher_id}": {
			"get": {
				"tags": [
					"analytics"
				],
				"summary": "Average rating per semester period",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"403": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "teacher_id",
						"in": "path",
						"required": true,
						"description": "teacher id"
					}
				]
			}
		},
		"/admin/dashboard": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "System-wide dashboard",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/admin/users": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "List users",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/User"
							}
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"admin"
				],
				"summary": "Create a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/User"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"409": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CreateUserRequest"
						}
					}
				]
			}
		},
		"/admin/users/{id}": {
			"put": {
				"tags": [
					"admin"
				],
				"summary": "Update a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/User"
						}
					},
					"400": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			},
			"delete": {
				"tags": [
					"admin"
				],
				"summary": "Deactivate a user",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "error",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true,
						"description": "id"
					}
				]
			}
		},
		"/teachers": {
			"get": {
				"tags": [
					"admin"
				],
				"summary": "Active teachers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"type": "array",
							"items": {
								"$ref": "#/definitions/User"
							}
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		}
	},
	"definitions": {
		"ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"LoginRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"RegisterRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"department": {
					"type": "string"
				}
			}
		},
		"CreateUserRequest": {
			"type": "object",
			"properties": {
				"username": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"password": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"department": {
					"type": "string"
				}
			}
		},
		"User": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"username": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"role": {
					"type": "string"
				},
				"full_name": {
					"type": "string"
				},
				"department": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"is_active": {
					"type": "boolean"
				}
			}
		},
		"AuthResponse": {
			"type": "object",
			"properties": {
				"token": {
					"type": "string"
				},
				"user": {
					"$ref": "#/definitions/User"
				}
			}
		},
		"CourseRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"teacher_id": {
					"type": "string"
				},
				"semester": {
					"type": "string"
				},
				"year": {
					"type": "integer"
				},
				"department": {
					"type": "string"
				}
			}
		},
		"Course": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"teacher_id": {
					"type": "string"
				},
				"semester": {
					"type": "string"
				},
				"year": {
					"type": "integer"
				},
				"department": {
					"type": "string"
				},
				"created_at": {
					"type": "string"
				},
				"is_active": {
					"type": "boolean"
				}
			}
		},
		"CourseListItem": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"title": {
					"type": "string"
				},
				"code": {
					"type": "string"
				},
				"teacher_name": {
					"type": "string"
				},
				"enrolled_count": {
					"type": "integer"
				},
				"is_enrolled": {
					"type": "boolean"
				}
			}
		},
		"CreateFormRequest": {
			"type": "object",
			"properties": {
				"title": {
					"type": "string"
				},
				"description": {
					"type": "string"
				},
				"is_anonymous": {
					"type": "boolean"
				},
				"deadline": {
					"type": "string"
				},
				"questions": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"text": {
								"type": "string"
							},
							"type": {
								"type": "string"
							},
							"options": {
								"type": "array",
								"items": {
									"type": "string"
								}
							},
							"required": {
								"type": "boolean"
							}
						}
					}
				}
			}
		},
		"SubmitRequest": {
			"type": "object",
			"properties": {
				"is_anonymous": {
					"type": "boolean"
				},
				"answers": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"question_id": {
								"type": "string"
							},
							"text": {
								"type": "string"
							},
							"value": {
								"type": "number"
							}
						}
					}
				}
			}
		},
		"CourseAnalytics": {
			"type": "object",
			"properties": {
				"course_id": {
					"type": "string"
				},
				"enrolled_count": {
					"type": "integer"
				},
				"response_count": {
					"type": "integer"
				},
				"avg_rating": {
					"type": "number"
				},
				"performance_score": {
					"type": "number"
				},
				"sentiment_distribution": {
					"type": "object",
					"properties": {
						"positive": {
							"type": "integer"
						},
						"neutral": {
							"type": "integer"
						},
						"negative": {
							"type": "integer"
						}
					}
				},
				"sentiments": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"label": {
								"type": "string"
							},
							"score": {
								"type": "number"
							},
							"confidence": {
								"type": "number"
							}
						}
					}
				},
				"keywords": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"keyword": {
								"type": "string"
							},
							"count": {
								"type": "integer"
							}
						}
					}
				},
				"summary": {
					"type": "string"
				},
				"suggestions": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"priority": {
								"type": "string"
							},
							"category": {
								"type": "string"
							},
							"suggestion": {
								"type": "string"
							}
						}
					}
				},
				"total_feedback": {
					"type": "integer"
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
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
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Course Feedback API",
	Description:      "Course feedback collection and analytics.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

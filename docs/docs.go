// Package docs contiene el documento OpenAPI servido en /apidocs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "basePath": "{{.BasePath}}",
    "definitions": {
        "mocks.generateDataRequest": {
            "properties": {
                "pets": {
                    "type": "integer"
                },
                "users": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "pets.createPetRequest": {
            "properties": {
                "birthDate": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "specie": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "pets.updatePetRequest": {
            "properties": {
                "birthDate": {
                    "type": "string"
                },
                "image": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                },
                "specie": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "respond.ErrorResponse": {
            "properties": {
                "details": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "status": {
                    "example": "error",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "respond.GeneratedResponse": {
            "properties": {
                "count": {
                    "type": "integer"
                },
                "message": {
                    "type": "string"
                },
                "payload": {},
                "status": {
                    "example": "success",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "respond.SuccessMessage": {
            "properties": {
                "message": {
                    "type": "string"
                },
                "status": {
                    "example": "success",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "respond.SuccessResponse": {
            "properties": {
                "payload": {},
                "status": {
                    "example": "success",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "users.createUserRequest": {
            "properties": {
                "email": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "role": {
                    "enum": [
                        "user",
                        "admin"
                    ],
                    "type": "string"
                }
            },
            "type": "object"
        },
        "users.updateUserRequest": {
            "properties": {
                "email": {
                    "type": "string"
                },
                "first_name": {
                    "type": "string"
                },
                "last_name": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "role": {
                    "enum": [
                        "user",
                        "admin"
                    ],
                    "type": "string"
                }
            },
            "type": "object"
        }
    },
    "host": "{{.Host}}",
    "info": {
        "contact": {},
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/adoptions": {
            "get": {
                "description": "Returns every adoption record in store order. Optional owner filter.",
                "parameters": [
                    {
                        "description": "filter by owner user id",
                        "in": "query",
                        "name": "owner",
                        "required": false,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "List adoptions",
                "tags": [
                    "adoptions"
                ]
            }
        },
        "/adoptions/{aid}": {
            "get": {
                "parameters": [
                    {
                        "description": "adoption id",
                        "in": "path",
                        "name": "aid",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Get an adoption",
                "tags": [
                    "adoptions"
                ]
            }
        },
        "/adoptions/{uid}/{pid}": {
            "post": {
                "parameters": [
                    {
                        "description": "user id",
                        "in": "path",
                        "name": "uid",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "pet id",
                        "in": "path",
                        "name": "pid",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessMessage"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Adopt a pet",
                "tags": [
                    "adoptions"
                ]
            }
        },
        "/mocks/generateData": {
            "post": {
                "consumes": [
                    "application/json"
                ],
                "description": "Inserts up to 1000 users and 1000 pets. Failed inserts are skipped.",
                "parameters": [
                    {
                        "description": "amounts per type",
                        "in": "body",
                        "name": "body",
                        "required": false,
                        "schema": {
                            "$ref": "#/definitions/mocks.generateDataRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/respond.GeneratedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Generate and insert mock data",
                "tags": [
                    "mocks"
                ]
            }
        },
        "/mocks/mockingpets/{count}": {
            "get": {
                "description": "Returns count unadopted pets (default 10, max 100). Nothing is stored.",
                "parameters": [
                    {
                        "description": "how many pets",
                        "in": "path",
                        "name": "count",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.GeneratedResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Generate mock pets",
                "tags": [
                    "mocks"
                ]
            }
        },
        "/mocks/mockingusers": {
            "get": {
                "description": "Returns 50 users with a hashed password. Nothing is stored.",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.GeneratedResponse"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Generate mock users",
                "tags": [
                    "mocks"
                ]
            }
        },
        "/pets": {
            "get": {
                "parameters": [
                    {
                        "description": "filter by adopted flag",
                        "in": "query",
                        "name": "adopted",
                        "required": false,
                        "type": "boolean"
                    },
                    {
                        "description": "filter by owner user id",
                        "in": "query",
                        "name": "owner",
                        "required": false,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "List pets",
                "tags": [
                    "pets"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "pet",
                        "in": "body",
                        "name": "pet",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.createPetRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Create a pet",
                "tags": [
                    "pets"
                ]
            }
        },
        "/pets/{pid}": {
            "delete": {
                "parameters": [
                    {
                        "description": "pet id",
                        "in": "path",
                        "name": "pid",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessMessage"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Delete a pet",
                "tags": [
                    "pets"
                ]
            },
            "get": {
                "parameters": [
                    {
                        "description": "pet id",
                        "in": "path",
                        "name": "pid",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a pet",
                "tags": [
                    "pets"
                ]
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "pet id",
                        "in": "path",
                        "name": "pid",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "fields to change",
                        "in": "body",
                        "name": "pet",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/pets.updatePetRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessMessage"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Update a pet",
                "tags": [
                    "pets"
                ]
            }
        },
        "/users": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "List users",
                "tags": [
                    "users"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "user",
                        "in": "body",
                        "name": "user",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.createUserRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Register a user",
                "tags": [
                    "users"
                ]
            }
        },
        "/users/{uid}": {
            "delete": {
                "parameters": [
                    {
                        "description": "user id",
                        "in": "path",
                        "name": "uid",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessMessage"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Delete a user",
                "tags": [
                    "users"
                ]
            },
            "get": {
                "parameters": [
                    {
                        "description": "user id",
                        "in": "path",
                        "name": "uid",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Get a user",
                "tags": [
                    "users"
                ]
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "user id",
                        "in": "path",
                        "name": "uid",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "fields to change",
                        "in": "body",
                        "name": "user",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.updateUserRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/respond.SuccessMessage"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Conflict",
                        "schema": {
                            "$ref": "#/definitions/respond.ErrorResponse"
                        }
                    }
                },
                "summary": "Update a user",
                "tags": [
                    "users"
                ]
            }
        }
    },
    "schemes": {{ marked .Schemes }},
    "swagger": "2.0"
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Adoptme API",
	Description:      "Users, pets, adoptions and mock data generators.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

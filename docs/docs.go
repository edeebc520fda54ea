// Package docs swagger文档
// 文档模板手工维护,修改handler上的swag注释或路由时同步更新这里的paths
// 也可以用 `swag init -g cmd/api/main.go -o docs` 生成后整体替换本文件
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
        "/api/v1/books": {
            "get": {"tags": ["图书"], "summary": "图书列表", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "关键词", "name": "keyword", "in": "query"},
                    {"type": "string", "description": "类别", "name": "genre", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"tags": ["图书"], "summary": "新增图书", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"description": "图书信息", "name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/books/{id}": {
            "get": {"tags": ["图书"], "summary": "图书详情",
                "parameters": [{"type": "string", "description": "图书ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "put": {"tags": ["图书"], "summary": "修改图书",
                "parameters": [{"type": "string", "description": "图书ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"tags": ["图书"], "summary": "删除图书",
                "parameters": [{"type": "string", "description": "图书ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/members": {
            "get": {"tags": ["会员"], "summary": "会员列表",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"tags": ["会员"], "summary": "新增会员",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/members/{id}": {
            "get": {"tags": ["会员"], "summary": "会员详情",
                "parameters": [{"type": "string", "description": "会员ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "put": {"tags": ["会员"], "summary": "修改会员",
                "parameters": [{"type": "string", "description": "会员ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"tags": ["会员"], "summary": "删除会员",
                "parameters": [{"type": "string", "description": "会员ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/transactions": {
            "get": {"tags": ["借阅"], "summary": "借阅记录列表",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/transactions/issue": {
            "post": {"tags": ["借阅"], "summary": "借书",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/transactions/{id}": {
            "get": {"tags": ["借阅"], "summary": "借阅记录详情",
                "parameters": [{"type": "string", "description": "借阅记录ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/transactions/{id}/return": {
            "put": {"tags": ["借阅"], "summary": "还书",
                "parameters": [{"type": "string", "description": "借阅记录ID", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/api/v1/dashboard": {
            "get": {"tags": ["统计"], "summary": "首页统计",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        }
    }
}`

// SwaggerInfo 文档元信息
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Library API",
	Description:      "图书馆借阅管理API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI document of the HTTP API with swag.
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
    "securityDefinitions": {
        "LearnerToken": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/health": {"get": {"summary": "Liveness probe", "responses": {"200": {"description": "ok"}}}},
        "/v1/sessions": {"post": {"summary": "Start or resume a learner session", "responses": {"201": {"description": "learner id, token and lesson view"}, "400": {"description": "invalid learner id"}}}},
        "/v1/topics": {"get": {"summary": "List topics", "responses": {"200": {"description": "topics in order"}}}},
        "/v1/topics/{topicId}": {"get": {"summary": "Get one topic", "parameters": [{"name": "topicId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "topic"}, "404": {"description": "topic not found"}}}},
        "/v1/settings/ranges": {"get": {"summary": "Slider ranges per control context", "responses": {"200": {"description": "ranges"}}}},
        "/v1/effects": {"get": {"summary": "Map camera settings to display effects", "parameters": [
            {"name": "iso", "in": "query", "required": true, "type": "number"},
            {"name": "aperture", "in": "query", "required": true, "type": "number"},
            {"name": "shutterSpeed", "in": "query", "required": true, "type": "number"},
            {"name": "context", "in": "query", "type": "string", "enum": ["simulator", "quiz", "playground"]}
        ], "responses": {"200": {"description": "effect descriptor"}, "400": {"description": "invalid setting"}}}},
        "/v1/effects/snap": {"get": {"summary": "Snap a value to the nearest canonical stop", "parameters": [
            {"name": "field", "in": "query", "required": true, "type": "string", "enum": ["iso", "aperture", "shutterSpeed"]},
            {"name": "value", "in": "query", "required": true, "type": "number"}
        ], "responses": {"200": {"description": "snapped value"}, "400": {"description": "invalid setting"}}}},
        "/v1/lesson": {"get": {"summary": "Current lesson view", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "lesson view"}}}},
        "/v1/lesson/advance": {"post": {"summary": "Advance to the next step", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "lesson view"}}}},
        "/v1/lesson/previous": {"post": {"summary": "Go back one step", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "lesson view"}}}},
        "/v1/lesson/topics/{topicIndex}/jump": {"post": {"summary": "Jump to an unlocked topic", "security": [{"LearnerToken": []}], "parameters": [{"name": "topicIndex", "in": "path", "required": true, "type": "integer"}], "responses": {"200": {"description": "lesson view"}}}},
        "/v1/lesson/quickcheck/select": {"post": {"summary": "Select a quick-check option", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "lesson view"}}}},
        "/v1/lesson/quickcheck/reveal": {"post": {"summary": "Reveal the quick-check answer", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "lesson view"}}}},
        "/v1/quiz/{flavor}": {"get": {"summary": "Current quiz question", "security": [{"LearnerToken": []}], "parameters": [{"name": "flavor", "in": "path", "required": true, "type": "string", "enum": ["match", "challenge"]}], "responses": {"200": {"description": "quiz view"}, "404": {"description": "unknown flavor"}}}},
        "/v1/quiz/{flavor}/answers": {"post": {"summary": "Submit settings for the current question", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "quiz view with evaluation"}, "400": {"description": "invalid body"}}}},
        "/v1/quiz/{flavor}/continue": {"post": {"summary": "Continue to the next question", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "quiz view"}}}},
        "/v1/quiz/{flavor}/previous": {"post": {"summary": "Go back one question", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "quiz view"}}}},
        "/v1/quiz/{flavor}/restart": {"post": {"summary": "Restart the quiz run", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "quiz view"}}}},
        "/v1/quiz/{flavor}/hint": {"get": {"summary": "Hint for the current question", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "hint"}}}},
        "/v1/quiz/{flavor}/history": {"get": {"summary": "Submitted attempts, newest first", "security": [{"LearnerToken": []}], "parameters": [{"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "attempts"}}}},
        "/v1/progress/flag": {
            "get": {"summary": "Read the quizCompleted flag", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "flag"}}},
            "delete": {"summary": "Clear the quizCompleted flag", "security": [{"LearnerToken": []}], "responses": {"200": {"description": "lesson view"}}}
        },
        "/v1/ws/learner": {"get": {"summary": "Learner event stream (WebSocket)", "parameters": [{"name": "token", "in": "query", "required": true, "type": "string"}], "responses": {"101": {"description": "switching protocols"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "aperturelab API",
	Description:      "Photography lessons, exposure simulator effects and settings quizzes.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

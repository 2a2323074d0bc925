package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/docqa/docs.go`.
//
// @title           docqa API
// @version         1.0
// @description     Ask a hosted chat model about a prompt and an optional txt, pdf or docx upload.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http

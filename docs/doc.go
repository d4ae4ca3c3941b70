// Package docs provides generated OpenAPI documentation.
//
// Fitcheck API
//
//	@title			Fitcheck API
//	@version		1.0
//	@description	Outfit analysis API that turns a photo into a structured style report.
//	@termsOfService	http://swagger.io/terms/
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/fitcheck
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/fitcheck/serve.go -o ./swagger --parseDependency --parseInternal

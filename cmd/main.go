// cmd/main.go
package main

import (
	"go-content-api/app"
)

func main() {
	app.Run()
}

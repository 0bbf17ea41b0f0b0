package main

import "projecthub/internal/app"

func main() {
	app.Run()
}

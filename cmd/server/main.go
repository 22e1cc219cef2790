package main

import "flightlog-service/internal/app"

func main() {
	app.Execute()
}

package main

import "task-auction-api/app"

func main() {
	app.Run()
}

package main

import (
	"log"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

func main() {
	app, err := NewApp()
	if err != nil {
		log.Fatal("library tracker failed to initialize: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("library tracker exited. check logs for more details.", err)
	}
}

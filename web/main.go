package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	config := server.DefaultServerConfig()

	// Parse command line flags
	flag.IntVar(&config.Port, "port", config.Port, "Port to serve on")
	flag.StringVar(&config.StaticDir, "static", config.StaticDir, "Directory of static files served at /")
	flag.StringVar(&config.ScenesDir, "scenes", config.ScenesDir, "Directory of JSON scene files (default: scenes/ or ../scenes/)")
	flag.Parse()

	webServer := server.NewServer(config)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Render with http://localhost:%d/api/render?scene=default", config.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}

// cmd/server is the plain server entry point: it serves the API without the
// CLI wrapper. Prefer cmd/freshmandi for database and worker management.
package main

import (
	"log"

	"github.com/freshmandi/freshmandi/internal/server"

	_ "github.com/freshmandi/freshmandi/database/migrations"
	_ "github.com/freshmandi/freshmandi/database/seeders"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}

package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task-auction-api/internal/controller"
	"task-auction-api/internal/repo"
	"task-auction-api/internal/service"
	"task-auction-api/pkg/http_server"
	"task-auction-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo"
)

func userTablesExist(pg *postgres.Postgres) (bool, error) {
	if err := pg.Database.Ping(); err != nil {
		return false, err
	}

	var id uuid.UUID
	err := pg.Database.QueryRow("select id from users limit 1").Scan(&id)

	return err == nil, nil
}

func taskAndBidTablesExist(pg *postgres.Postgres) (bool, error) {
	if err := pg.Database.Ping(); err != nil {
		return false, err
	}

	var id uuid.UUID
	err := pg.Database.QueryRow("select id from task limit 1").Scan(&id)

	return err == nil, nil
}

func migrateTables(driver database.Driver, sourceUrl string, databaseName string) {
	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err.Error() == "no change" {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func runMigrations(postgresDB *postgres.Postgres, driver database.Driver, databaseName string) {
	usersExist, err := userTablesExist(postgresDB)
	if err != nil {
		log.Fatal(err)
	}

	if !usersExist {
		migrateTables(driver, "file://migrations/user-migrations", databaseName)

		return
	}

	taskTablesExist, err := taskAndBidTablesExist(postgresDB)
	if err != nil {
		log.Fatal(err)
	}
	if !taskTablesExist {
		migrateTables(driver, "file://migrations/task-bid-migrations", databaseName)
	}
}

func sweepInterval() time.Duration {
	raw := os.Getenv("SWEEP_INTERVAL")
	if raw == "" {
		return service.DefaultSweepInterval
	}

	interval, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid SWEEP_INTERVAL %q, using default: %v", raw, err)

		return service.DefaultSweepInterval
	}

	return interval
}

func Run() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on exported variables")
	}

	serverAddressEnv := os.Getenv("SERVER_ADDRESS")
	dbConnEnv := os.Getenv("POSTGRES_CONN")
	databaseEnv := os.Getenv("POSTGRES_DATABASE")

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(dbConnEnv)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseEnv})
	if err != nil {
		log.Fatal(err)
	}
	runMigrations(postgresDB, driver, databaseEnv)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories)
	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services)

	log.Println("Starting closure sweeper...")
	sweeper := service.NewSweeper(services.Sweep, sweepInterval())
	sweeper.Start()

	log.Println("Starting server...")
	httpServer := http_server.New(handler, serverAddressEnv)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Println("Server notify error: ", err)
	}

	log.Println("Shutting down...")
	sweeper.Shutdown()

	err = httpServer.Shutdown()
	if err != nil {
		log.Println("Shutdown error: ", err)
	} else {
		log.Println("Successful shutdown")
	}
}

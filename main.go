package main

import (
	"context"
	"log"
	"net/http"

	"packetstruct/adapters/excel"
	"packetstruct/adapters/notify"
	"packetstruct/adapters/postgres"
	"packetstruct/app"
	"packetstruct/domain/structure"
	"packetstruct/internal/config"
	"packetstruct/internal/errors"
	"packetstruct/internal/migration"
	"packetstruct/internal/monitoring"
	"packetstruct/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(appConfig.Server.GinMode)

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	schema := structure.SchemaForDialect(appConfig.Storage.Dialect)
	service := app.NewStructureService(
		structure.NewTranscoder(schema),
		excel.NewWorkbookReader(),
		postgres.NewStructureRepository(db),
		postgres.NewHistoryRepository(db),
		notify.NewClient(appConfig.Parser.BaseURL, appConfig.Parser.NotifyTimeout),
		appConfig.Storage.CollectionBaseName,
	)

	server := ui.NewServer(service)
	ops := monitoring.NewOpsServer(db)

	log.Printf("Starting packet structure server on port %s (dialect %s)", appConfig.Server.Port, schema.Name)
	log.Printf("Ops endpoints on port %s", appConfig.Server.OpsPort)

	var g errgroup.Group
	g.Go(func() error {
		return server.Start(":" + appConfig.Server.Port)
	})
	g.Go(func() error {
		return http.ListenAndServe(":"+appConfig.Server.OpsPort, ops.Handler())
	})
	log.Fatal(g.Wait())
}

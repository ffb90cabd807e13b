package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"scootal/pkg/client"
	"scootal/pkg/config"
	"scootal/pkg/logger"
)

const (
	DefaultDatabaseName = "scootal_test"
	ConnectionTimeout   = 10 * time.Second
)

// MongoHelper provides MongoDB test utilities
type MongoHelper struct {
	Cfg      *config.Config
	Client   *mongo.Client
	Database *mongo.Database
	DBName   string
}

// NewMongoHelper connects to the Mongo instance named by TEST_MONGO_URI and
// builds a config the production repositories can run against. Tests are
// skipped when the variable is unset so the suite stays runnable without a
// live store.
func NewMongoHelper(t *testing.T) *MongoHelper {
	t.Helper()

	mongoURI := os.Getenv("TEST_MONGO_URI")
	if mongoURI == "" {
		t.Skip("TEST_MONGO_URI not set, skipping store-backed test")
	}

	dbName := os.Getenv("TEST_DB_NAME")
	if dbName == "" {
		dbName = DefaultDatabaseName
	}

	testLogger := logger.New(logger.Config{
		Service: "test",
		Level:   "debug",
	})

	prodClient := client.NewClient()
	prodClient.SetMongo(testLogger, mongoURI, ConnectionTimeout)

	cfg := &config.Config{
		MongoDatabaseName: dbName,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		RequestTimeout:    10 * time.Second,
		MaxCodeAttempts:   5,
		BookingRequestTTL: 24 * time.Hour,
		DefaultTimeZone:   "UTC",
		Log:               testLogger,
		Client:            prodClient,
	}

	return &MongoHelper{
		Cfg:      cfg,
		Client:   prodClient.Mongo,
		Database: prodClient.Mongo.Database(dbName),
		DBName:   dbName,
	}
}

// Close closes the MongoDB connection
func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// DropCollection drops one collection so each test starts from a clean slate.
func (m *MongoHelper) DropCollection(t *testing.T, name string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.Database.Collection(name).Drop(ctx); err != nil {
		t.Fatalf("failed to drop collection %s: %v", name, err)
	}
}

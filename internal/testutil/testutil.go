package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/chadillac/order-tracker/internal/auth"
	"github.com/chadillac/order-tracker/internal/database/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Stage{},
		&models.ServiceCatalogEntry{},
		&models.CustomFieldDefinition{},
		&models.Order{},
		&models.OrderFieldValue{},
		&models.Service{},
		&models.Change{},
		&models.PasswordReset{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// SilentLogger returns a logger that discards everything.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SeedStages installs the default three-stage pipeline and returns it in
// position order.
func SeedStages(t *testing.T, db *gorm.DB) []models.Stage {
	t.Helper()

	stages := []models.Stage{
		{Name: "To Do", Position: 1},
		{Name: "In Progress", Position: 2},
		{Name: "Done", Position: 3},
	}
	for i := range stages {
		stages[i].ID = uuid.New()
		if err := db.Create(&stages[i]).Error; err != nil {
			t.Fatalf("failed to seed stage: %v", err)
		}
	}
	return stages
}

// CreateTestUser creates a regular user account
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, false)
}

// CreateTestAdmin creates an administrator account
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return createUser(t, db, true)
}

func createUser(t *testing.T, db *gorm.DB, isAdmin bool) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base:         models.Base{ID: uuid.New()},
		Username:     "user-" + uuid.New().String()[:8],
		PasswordHash: hash,
		IsAdmin:      isAdmin,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestOrder creates an order owned by the given user
func CreateTestOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, businessName string) *models.Order {
	t.Helper()

	order := &models.Order{
		Base:         models.Base{ID: uuid.New()},
		UserID:       userID,
		BusinessName: businessName,
		Email:        "contact@example.com",
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("failed to create test order: %v", err)
	}

	return order
}

// CreateTestService attaches a service row to an order at the given stage
func CreateTestService(t *testing.T, db *gorm.DB, orderID, stageID uuid.UUID, name string) *models.Service {
	t.Helper()

	service := &models.Service{
		Base:    models.Base{ID: uuid.New()},
		OrderID: orderID,
		Name:    name,
		StageID: stageID,
	}

	if err := db.Create(service).Error; err != nil {
		t.Fatalf("failed to create test service: %v", err)
	}

	return service
}

// CreateTestChange appends a change entry with an explicit timestamp,
// letting tests backdate history.
func CreateTestChange(t *testing.T, db *gorm.DB, orderID, userID uuid.UUID, description string, at time.Time) *models.Change {
	t.Helper()

	change := &models.Change{
		Base:        models.Base{ID: uuid.New(), CreatedAt: at},
		OrderID:     orderID,
		UserID:      userID,
		Description: description,
	}

	if err := db.Create(change).Error; err != nil {
		t.Fatalf("failed to create test change: %v", err)
	}

	return change
}

// CreateTestCatalogEntry adds a selectable service name
func CreateTestCatalogEntry(t *testing.T, db *gorm.DB, name string) *models.ServiceCatalogEntry {
	t.Helper()

	entry := &models.ServiceCatalogEntry{
		Base: models.Base{ID: uuid.New()},
		Name: name,
	}

	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create catalog entry: %v", err)
	}

	return entry
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// FakeViewCache is an in-memory stand-in for the redis view cache. It
// records Clear calls so tests can assert the invalidation contract.
type FakeViewCache struct {
	mu     sync.Mutex
	values map[string][]byte
	Clears int
}

func NewFakeViewCache() *FakeViewCache {
	return &FakeViewCache{values: make(map[string][]byte)}
}

func (f *FakeViewCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *FakeViewCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = data
	return nil
}

func (f *FakeViewCache) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string][]byte)
	f.Clears++
	return nil
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Stages     []models.Stage
	User       *models.User
	Admin      *models.User
	Token      string
	AdminToken string
}

// NewTestContext creates a complete test setup with DB, seeded stages,
// a user, an admin, and tokens for both.
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	stages := SeedStages(t, db)
	user := CreateTestUser(t, db)
	admin := CreateTestAdmin(t, db)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Stages:     stages,
		User:       user,
		Admin:      admin,
		Token:      GenerateTestToken(t, jwtService, user),
		AdminToken: GenerateTestToken(t, jwtService, admin),
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

package integration_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/payment-orchestrator/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	dbName         = "payments"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"
)

// BaseSuite starts fresh containers per suite and wipes payments and Redis
// keys before every test.
type BaseSuite struct {
	suite.Suite
	app *TestApp
	env *containerEnv
}

func (s *BaseSuite) SetupSuite() {
	env, err := startContainers(context.Background())
	if err != nil {
		s.T().Skipf("containers unavailable: %s", err)
		return
	}
	s.env = env

	testApp, err := newTestApp(testConfig(env))
	require.NoError(s.T(), err, "cannot initialize app")

	s.app = testApp
}

func (s *BaseSuite) TearDownSuite() {
	if s.app != nil {
		s.app.Close()
	}
	if s.env != nil {
		if err := s.env.terminate(); err != nil {
			s.T().Logf("failed to terminate containers: %s", err)
		}
	}
}

func (s *BaseSuite) SetupTest() {
	truncatePayments(s.T(), s.app)
}

func testConfig(env *containerEnv) app.Config {
	return app.Config{
		Port:          3000,
		Env:           "test",
		PublicBaseURL: "https://pay.example.com",
		ResultURL:     TestResultURL,
		OperatorToken: TestOperatorToken,
		DB: app.DBConfig{
			DSN:          env.DatabaseURL,
			MaxOpenConns: 25,
			MaxIdleTime:  2 * time.Minute,
		},
		Redis: app.RedisConfig{
			URL:          env.RedisURL,
			MaxOpenConns: 10,
			MaxIdleConns: 10,
			MaxIdleTime:  2 * time.Minute,
			StreamPrefix: TestStreamPrefix,
			StreamMaxLen: 1000,
			LockTTL:      5 * time.Second,
		},
	}
}

// Scenario is one HTTP exchange against the router, with optional hooks to
// seed state before and inspect it after.
type Scenario struct {
	Name             string
	Method           string
	URL              string
	Body             io.Reader
	Headers          map[string]string
	ExpectedStatus   int
	ExpectedResponse string
	BeforeTestFunc   func(t testing.TB, app *TestApp)
	AfterTestFunc    func(t testing.TB, app *TestApp, res *http.Response)
}

func (s Scenario) Run(t *testing.T, testApp *TestApp) {
	t.Run(s.Name, func(t *testing.T) {
		if s.BeforeTestFunc != nil {
			s.BeforeTestFunc(t, testApp)
		}

		req, err := prepareRequest(s.Method, s.URL, s.Body, s.Headers)
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		testApp.App.Routes().ServeHTTP(rec, req)

		res := rec.Result()
		defer res.Body.Close()

		assert.Equal(t, s.ExpectedStatus, res.StatusCode)

		if s.ExpectedResponse != "" {
			compareResponse(t, res.Body, s.ExpectedResponse)
		}

		if s.AfterTestFunc != nil {
			s.AfterTestFunc(t, testApp, res)
		}
	})
}

package auth_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for accounts service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "accounts-test:latest"

	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"
	userPassword  = "User1234!"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Accounts Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Accounts Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/auth/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// accountsContainer is a running accounts service.
type accountsContainer struct {
	BaseURL   string
	container testcontainers.Container
}

// setupAccountsContainer starts the service with a bootstrap admin and no
// mailer, so codes only show up in the debug log.
func setupAccountsContainer(t *testing.T) (*accountsContainer, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"AUTH_ISSUER":              "accounts-e2e",
			"AUTH_SIGNING_KEY_FILE":    "/data/signing.pem",
			"BOOTSTRAP_ADMIN_EMAIL":    adminEmail,
			"BOOTSTRAP_ADMIN_PASSWORD": adminPassword,
			"ENV":                      "test",
			"LOG_LEVEL":                "debug",
			"LOG_FORMAT":               "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	ac := &accountsContainer{
		BaseURL:   fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
		container: container,
	}

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return ac, cleanup
}

// latestCode scans the container log for the most recent code of the given
// kind ("activation" or "password_reset") sent to email.
func (ac *accountsContainer) latestCode(t *testing.T, kind, email string) string {
	t.Helper()

	var code string
	require.Eventually(t, func() bool {
		logs, err := ac.container.Logs(context.Background())
		if err != nil {
			return false
		}
		defer logs.Close()

		scanner := bufio.NewScanner(logs)
		for scanner.Scan() {
			line := scanner.Bytes()
			start := 0
			for start < len(line) && line[start] != '{' {
				start++ // skip docker stream framing
			}

			var entry map[string]any
			if json.Unmarshal(line[start:], &entry) != nil {
				continue
			}
			if entry["msg"] == "undelivered code" && entry["kind"] == kind && entry["email"] == email {
				if c, ok := entry["code"].(string); ok {
					code = c
				}
			}
		}
		return code != ""
	}, 10*time.Second, 200*time.Millisecond, "no %s code logged for %s", kind, email)

	return code
}

// registerActiveUser registers email and activates it with the logged code.
func registerActiveUser(t *testing.T, ac *accountsContainer, client *authsdk.SDKClient, email string) *authsdk.UserResponse {
	t.Helper()
	ctx := context.Background()

	user, err := client.Register(ctx, authsdk.RegisterRequest{Email: email, Password: userPassword})
	require.NoError(t, err, "Register should succeed")

	_, err = client.Activate(ctx, email, ac.latestCode(t, "activation", email))
	require.NoError(t, err, "Activate should succeed")

	return user
}

// adminLogin logs in as the bootstrap admin.
func adminLogin(t *testing.T, client *authsdk.SDKClient) *authsdk.Session {
	t.Helper()

	session, err := client.AuthenticateWithPassword(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err, "Admin login should succeed")
	require.True(t, session.IsSuperuser(), "Bootstrap admin should be a superuser")
	return session
}

// assertTokenResponse verifies a token response has all required fields.
func assertTokenResponse(t *testing.T, resp *authsdk.TokenResponse) {
	t.Helper()
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")
	require.NotEmpty(t, resp.RefreshToken, "Refresh token should not be empty")
	require.Equal(t, "bearer", resp.TokenType, "Token type should be bearer")
	require.Positive(t, resp.ExpiresIn)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *authsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

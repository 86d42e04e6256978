package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	Success           bool   `json:"success"`
	Token             string `json:"token"`
	Username          string `json:"username"`
	Error             string `json:"error"`
	RemainingAttempts *int   `json:"remainingAttempts"`
	LockedUntil       string `json:"lockedUntil"`
}

func login(t *testing.T, username, password string) (*http.Response, loginResponse) {
	t.Helper()

	resp, err := testServer.PostJSON("/admin/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(t, err)

	var body loginResponse
	require.NoError(t, DecodeBody(resp, &body))
	return resp, body
}

func TestLoginFlow(t *testing.T) {
	resetStore(t)

	resp, body := login(t, TestAdminUsername, TestAdminPassword)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, TestAdminUsername, body.Username)

	// The issued token grants access to a protected route.
	ordersResp, err := testServer.Get("/admin/orders", body.Token)
	require.NoError(t, err)
	ordersResp.Body.Close()
	assert.Equal(t, http.StatusOK, ordersResp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	resetStore(t)

	resp, body := login(t, TestAdminUsername, "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "Invalid credentials", body.Error)
	require.NotNil(t, body.RemainingAttempts)
	assert.Equal(t, 4, *body.RemainingAttempts)
}

func TestLoginLockoutFlow(t *testing.T) {
	resetStore(t)

	for i := 0; i < 5; i++ {
		resp, _ := login(t, TestAdminUsername, "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	// Correct password is rejected while the lockout holds.
	resp, body := login(t, TestAdminUsername, TestAdminPassword)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Contains(t, body.Error, "Too many failed attempts")
	assert.NotEmpty(t, body.LockedUntil)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	resetStore(t)

	resp, err := testServer.Get("/admin/orders", "")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = testServer.Get("/admin/orders", "bogus-token")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	resetStore(t)

	_, body := login(t, TestAdminUsername, TestAdminPassword)
	require.True(t, body.Success)

	logoutResp, err := testServer.PostJSON("/admin/logout", body.Token, nil)
	require.NoError(t, err)
	logoutResp.Body.Close()
	assert.Equal(t, http.StatusOK, logoutResp.StatusCode)

	resp, err := testServer.Get("/admin/orders", body.Token)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginBurstNotThrottledByIP(t *testing.T) {
	resetStore(t)

	// All suite traffic shares one client address, so a burst larger
	// than the production per-IP login limit must still reach the auth
	// service. Distinct usernames keep the per-username lockout out of
	// the picture.
	for i := 0; i < 12; i++ {
		resp, body := login(t, fmt.Sprintf("nobody-%d", i), "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body.Error)
	}
}

func TestChangePasswordFlow(t *testing.T) {
	resetStore(t)

	_, body := login(t, TestAdminUsername, TestAdminPassword)
	require.True(t, body.Success)

	changeResp, err := testServer.PostJSON("/admin/password", body.Token, map[string]string{
		"oldPassword": TestAdminPassword,
		"newPassword": "a-new-password",
	})
	require.NoError(t, err)
	changeResp.Body.Close()
	require.Equal(t, http.StatusOK, changeResp.StatusCode)

	// Old password no longer works; new one does.
	resp, _ := login(t, TestAdminUsername, TestAdminPassword)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, newBody := login(t, TestAdminUsername, "a-new-password")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, newBody.Success)
}

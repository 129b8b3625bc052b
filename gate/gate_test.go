package gate_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"melbgo/gate"
)

const secret = "test-secret"

func markerInTempDir(t *testing.T) gate.MarkerStore {
	t.Helper()
	return gate.NewFileMarkerStore(filepath.Join(t.TempDir(), "auth_marker"))
}

func TestGate_StartsReadOnly(t *testing.T) {
	g := gate.New(secret, markerInTempDir(t))

	assert.False(t, g.Authorized())
	assert.Equal(t, gate.StatusReadOnly, g.Status())
}

func TestGate_AuthorizeWithCorrectSecret(t *testing.T) {
	g := gate.New(secret, markerInTempDir(t))

	assert.True(t, g.Authorize(secret))
	assert.True(t, g.Authorized())
	assert.Equal(t, gate.StatusAuthorized, g.Status())
}

func TestGate_WrongSecretLeavesGateUntouched(t *testing.T) {
	g := gate.New(secret, markerInTempDir(t))

	assert.False(t, g.Authorize("wrong"))
	assert.False(t, g.Authorized())

	// Wrong secret after a successful login must not demote.
	assert.True(t, g.Authorize(secret))
	assert.False(t, g.Authorize("still wrong"))
	assert.True(t, g.Authorized())
}

func TestGate_MarkerPersistsAcrossRestart(t *testing.T) {
	marker := markerInTempDir(t)

	first := gate.New(secret, marker)
	assert.True(t, first.Authorize(secret))

	// A new gate over the same marker restores the session.
	second := gate.New(secret, marker)
	assert.True(t, second.Authorized())
}

func TestGate_StaleMarkerDoesNotAuthorize(t *testing.T) {
	marker := markerInTempDir(t)
	assert.NoError(t, marker.Save("old-secret"))

	// The deployment rotated its secret; the stored marker is stale.
	g := gate.New(secret, marker)
	assert.False(t, g.Authorized())
}

func TestGate_LogoutClearsMarker(t *testing.T) {
	marker := markerInTempDir(t)

	g := gate.New(secret, marker)
	assert.True(t, g.Authorize(secret))

	g.Logout()
	assert.False(t, g.Authorized())

	stored, err := marker.Load()
	assert.NoError(t, err)
	assert.Empty(t, stored, "logout must clear the persisted marker")

	restarted := gate.New(secret, marker)
	assert.False(t, restarted.Authorized())
}

func TestGate_NilMarkerStore(t *testing.T) {
	g := gate.New(secret, nil)

	assert.False(t, g.Authorized())
	assert.True(t, g.Authorize(secret))
	g.Logout()
	assert.False(t, g.Authorized())
}

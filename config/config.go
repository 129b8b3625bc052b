package config

import "os"

// AppName doubles as the postgres schema name for the deployment.
const AppName = "melbgo"

// SecretEnv names the environment variable holding the shared edit
// secret. When unset the built-in default applies, matching the
// single-deployment, trusted-audience scope of the app.
const SecretEnv = "MELBGO_SECRET"

const defaultSecret = "melbgo2026"

// SharedSecret returns the secret that authorizes edits on a device.
func SharedSecret() string {
	if s := os.Getenv(SecretEnv); s != "" {
		return s
	}
	return defaultSecret
}

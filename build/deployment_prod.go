//go:build !dev

package build

// Deployment specifies a production build.
const Deployment = Production

// LogLevel is the level used by stdout sub loggers. Production builds never
// create them, it only exists so both deployments expose the same symbols.
const LogLevel = "info"

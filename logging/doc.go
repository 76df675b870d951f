// Package logging provides the structured logger used across sysmon. It
// hides zerolog behind a small interface so the sampling engine, the
// headless shells and the tests all log the same way.
package logging

// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never touch the filesystem or network directly; all IO goes
// through driven ports so the pipeline can be tested with stubs.
package services

// Package testsupport holds fixtures shared by package tests: a fake tracker,
// a manual clock, config builders, and store helpers.
package testsupport
